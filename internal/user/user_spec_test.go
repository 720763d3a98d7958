package user

import (
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Store", func() {
	It("adds a user and authenticates with the right password", func() {
		s := NewStore()
		Expect(s.Add("a@b.com", "secret", RoleUser)).To(Succeed())

		u, err := s.Authenticate("a@b.com", "secret")
		Expect(err).NotTo(HaveOccurred())
		Expect(u.Email).To(Equal("a@b.com"))
		Expect(u.Role).To(Equal(RoleUser))
	})

	It("never stores the plaintext password", func() {
		s := NewStore()
		Expect(s.Add("a@b.com", "secret", RoleUser)).To(Succeed())

		u, ok := s.Get("a@b.com")
		Expect(ok).To(BeTrue())
		Expect(string(u.PasswordHash)).NotTo(ContainSubstring("secret"))
	})

	It("distinguishes unknown user from bad credentials", func() {
		s := NewStore()
		Expect(s.Add("a@b.com", "secret", RoleUser)).To(Succeed())

		_, err := s.Authenticate("nobody@b.com", "secret")
		Expect(errors.Is(err, ErrUnknownUser)).To(BeTrue())

		_, err = s.Authenticate("a@b.com", "wrong")
		Expect(errors.Is(err, ErrBadCredentials)).To(BeTrue())
	})

	It("rejects a duplicate identity", func() {
		s := NewStore()
		Expect(s.Add("a@b.com", "secret", RoleUser)).To(Succeed())

		err := s.Add("a@b.com", "other", RoleAdministrator)
		Expect(errors.Is(err, ErrDuplicateUser)).To(BeTrue())
		Expect(s.Count()).To(Equal(1))
	})

	It("lists summaries sorted by email without hashes", func() {
		s := NewStore()
		Expect(s.Add("c@b.com", "x", RoleUser)).To(Succeed())
		Expect(s.Add("a@b.com", "x", RoleAdministrator)).To(Succeed())

		all := s.All()
		Expect(all).To(HaveLen(2))
		Expect(all[0].Email).To(Equal("a@b.com"))
		Expect(all[0].Role).To(Equal(RoleAdministrator))
		Expect(all[1].Email).To(Equal("c@b.com"))
	})

	It("is safe under concurrent adds of distinct users", func() {
		s := NewStore()
		var wg sync.WaitGroup
		emails := []string{"a@b.com", "b@b.com", "c@b.com", "d@b.com"}
		for _, e := range emails {
			wg.Add(1)
			go func(e string) {
				defer wg.Done()
				Expect(s.Add(e, "x", RoleUser)).To(Succeed())
			}(e)
		}
		wg.Wait()
		Expect(s.Count()).To(Equal(len(emails)))
	})
})

var _ = Describe("ParseRole", func() {
	It("maps names case-insensitively and defaults to user", func() {
		r, err := ParseRole("")
		Expect(err).NotTo(HaveOccurred())
		Expect(r).To(Equal(RoleUser))

		r, err = ParseRole("Administrator")
		Expect(err).NotTo(HaveOccurred())
		Expect(r).To(Equal(RoleAdministrator))

		r, err = ParseRole("admin")
		Expect(err).NotTo(HaveOccurred())
		Expect(r).To(Equal(RoleAdministrator))
	})

	It("rejects unknown names", func() {
		_, err := ParseRole("root")
		Expect(err).To(HaveOccurred())
	})
})
