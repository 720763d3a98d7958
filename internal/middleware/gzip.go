package middleware

import (
	"bytes"
	"compress/gzip"
	"strings"
	"sync"

	"github.com/mjenner/gatehouse/internal/apierror"
	"github.com/mjenner/gatehouse/internal/pipeline"
)

var gzipWriterPool = sync.Pool{
	New: func() any {
		return gzip.NewWriter(nil)
	},
}

// Gzip compresses successful response bodies when the client sent
// Accept-Encoding: gzip. It must sit outside the cache stage so the
// cache holds uncompressed bodies and each client gets its own encoding.
func Gzip() pipeline.Middleware {
	return func(next pipeline.Handler) pipeline.Handler {
		return func(c *pipeline.Ctx) pipeline.Result[pipeline.Response] {
			res := next(c)
			if !res.IsOk() {
				return res
			}
			if !strings.Contains(c.Request.Header.Get("Accept-Encoding"), "gzip") {
				return res
			}

			resp := res.Value()
			if len(resp.Body) == 0 {
				return res
			}

			var buf bytes.Buffer
			zw := gzipWriterPool.Get().(*gzip.Writer)
			zw.Reset(&buf)
			if _, err := zw.Write(resp.Body); err != nil {
				gzipWriterPool.Put(zw)
				return pipeline.Fail[pipeline.Response](apierror.Internal("gzip response: " + err.Error()))
			}
			if err := zw.Close(); err != nil {
				gzipWriterPool.Put(zw)
				return pipeline.Fail[pipeline.Response](apierror.Internal("gzip response: " + err.Error()))
			}
			gzipWriterPool.Put(zw)

			resp.Body = buf.Bytes()
			resp.Header.Set("Content-Encoding", "gzip")
			resp.Header.Add("Vary", "Accept-Encoding")
			return pipeline.Ok(resp)
		}
	}
}
