package credential_test

import (
	"bytes"

	"github.com/idlidosa1206/Fusion-System-Administrator/internal/credential"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("Credential Issuer", func() {
	var issuer *credential.Issuer

	BeforeEach(func() {
		issuer = credential.NewIssuer(credential.NewGenerator(), bcrypt.MinCost)
	})

	It("should return the plain password together with a matching hash", func() {
		issued, err := issuer.Issue("rahul kumar", "21bcs104")
		Expect(err).NotTo(HaveOccurred())
		Expect(issued.Plain).To(HavePrefix("Rahul104"))
		Expect(issued.Hash).NotTo(Equal(issued.Plain))
		Expect(credential.Matches(issued.Hash, issued.Plain)).To(BeTrue())
	})

	It("should propagate generator errors", func() {
		_, err := issuer.Issue("", "21bcs104")
		Expect(err).To(MatchError(credential.ErrEmptyName))
	})

	Describe("Reissue", func() {
		It("should produce a password different from the previous one", func() {
			first, err := issuer.Issue("rahul", "21bcs104")
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 5; i++ {
				next, err := issuer.Reissue("rahul", "21bcs104", first.Hash)
				Expect(err).NotTo(HaveOccurred())
				Expect(next.Plain).NotTo(Equal(first.Plain))
				Expect(credential.Matches(first.Hash, next.Plain)).To(BeFalse())
			}
		})

		It("should give up when the source keeps repeating the previous password", func() {
			zeros := credential.NewGeneratorWithSource(bytes.NewReader(bytes.Repeat([]byte{0}, 1024)))
			fixed := credential.NewIssuer(zeros, bcrypt.MinCost)

			hash, err := bcrypt.GenerateFromPassword([]byte("Rahul104!!"), bcrypt.MinCost)
			Expect(err).NotTo(HaveOccurred())

			_, err = fixed.Reissue("rahul", "21bcs104", string(hash))
			Expect(err).To(MatchError(credential.ErrNoFreshPassword))
		})
	})

	It("should not match an empty hash", func() {
		Expect(credential.Matches("", "anything")).To(BeFalse())
	})
})
