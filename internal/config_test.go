package internal_test

import (
	"os"
	"time"

	"github.com/idlidosa1206/Fusion-System-Administrator/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("Config", func() {
	valid := func() *internal.Config {
		cfg := &internal.Config{
			Database: internal.DatabaseConfig{Source: "postgres://localhost/fusion", MaxOpenConns: 10, MaxIdleConns: 2},
		}
		cfg.ApplyDefaults()
		return cfg
	}

	It("should fill defaults for a sparse file", func() {
		cfg := valid()
		Expect(cfg.Server.Port).To(Equal(8080))
		Expect(cfg.Security.BCryptCost).To(Equal(bcrypt.DefaultCost))
		Expect(cfg.Accounts.EmailDomain).To(Equal(internal.DefaultEmailDomain))
		Expect(cfg.Accounts.ImportMode).To(Equal(internal.ImportModeAtomic))
		Expect(cfg.Accounts.MaxUploadBytes).To(Equal(int64(internal.DefaultMaxUploadBytes)))
		Expect(cfg.Validate()).To(Succeed())
	})

	It("should require a database source", func() {
		cfg := valid()
		cfg.Database.Source = ""
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("source is required")))
	})

	It("should reject an unknown import mode", func() {
		cfg := valid()
		cfg.Accounts.ImportMode = "best-effort"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("import_mode")))
	})

	It("should reject an email domain containing @", func() {
		cfg := valid()
		cfg.Accounts.EmailDomain = "x@iiitdmj.ac.in"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("email_domain")))
	})

	It("should reject a bcrypt cost out of range", func() {
		cfg := valid()
		cfg.Security.BCryptCost = bcrypt.MaxCost + 1
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("bcrypt_cost")))
	})

	It("should collect every failing section", func() {
		cfg := valid()
		cfg.Server.Port = 0
		cfg.Observability.Logging.Format = "xml"
		err := cfg.Validate()
		Expect(err).To(MatchError(ContainSubstring("server config")))
		Expect(err).To(MatchError(ContainSubstring("logging config")))
	})

	Context("from the environment", func() {
		BeforeEach(func() {
			os.Setenv("DATABASE_URL", "postgres://db/fusion")
			os.Setenv("ACCOUNTS_IMPORT_MODE", "partial")
			os.Setenv("HTTP_REQUEST_TIMEOUT", "10s")
			os.Setenv("HTTP_PORT", "not-a-number")
		})

		AfterEach(func() {
			for _, k := range []string{"DATABASE_URL", "ACCOUNTS_IMPORT_MODE", "HTTP_REQUEST_TIMEOUT", "HTTP_PORT"} {
				os.Unsetenv(k)
			}
		})

		It("should read overrides and fall back on bad values", func() {
			cfg := internal.LoadConfigFromEnv()
			Expect(cfg.Database.Source).To(Equal("postgres://db/fusion"))
			Expect(cfg.Accounts.ImportMode).To(Equal(internal.ImportModePartial))
			Expect(cfg.Server.RequestTimeout).To(Equal(10 * time.Second))
			Expect(cfg.Server.Port).To(Equal(8080))
			Expect(cfg.Validate()).To(Succeed())
		})
	})
})
