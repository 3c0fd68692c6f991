package bulk_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	appErrors "github.com/idlidosa1206/Fusion-System-Administrator/internal"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/bulk"
	bulkPostgres "github.com/idlidosa1206/Fusion-System-Administrator/internal/bulk/postgres"
	designationDatamodel "github.com/idlidosa1206/Fusion-System-Administrator/internal/core/datamodel/designation"
	userDatamodel "github.com/idlidosa1206/Fusion-System-Administrator/internal/core/datamodel/user"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/core/events"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/credential"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/user"
	userPostgres "github.com/idlidosa1206/Fusion-System-Administrator/internal/user/postgres"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

type fixture struct {
	db        *gorm.DB
	users     *user.Service
	importer  *bulk.Importer
	exporter  *bulk.Exporter
	publisher *recordingPublisher
}

func newFixture() *fixture {
	slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	Expect(err).NotTo(HaveOccurred())
	sqlDB, err := db.DB()
	Expect(err).NotTo(HaveOccurred())
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&userDatamodel.User{}, &userDatamodel.ExtraInfo{}, &designationDatamodel.HoldsDesignation{})
	Expect(err).NotTo(HaveOccurred())

	publisher := &recordingPublisher{}
	issuer := credential.NewIssuer(credential.NewGenerator(), bcrypt.MinCost)
	users := user.NewService(userPostgres.NewUserRepository(db), issuer, events.NopPublisher{}, "iiitdmj.ac.in", slogger)

	return &fixture{
		db:        db,
		users:     users,
		importer:  bulk.NewImporter(users, publisher, appErrors.ImportModeAtomic, slogger),
		exporter:  bulk.NewExporter(bulkPostgres.NewExportRepository(sqlx.NewDb(sqlDB, "sqlite3")), slogger),
		publisher: publisher,
	}
}

func (f *fixture) usernames() []string {
	var names []string
	Expect(f.db.Model(&userDatamodel.User{}).Order("username").Pluck("username", &names).Error).To(Succeed())
	return names
}

const roster = `rollNo,name,role,is_superuser
21bcs001,meera nair,Student,false
21bcs002,arjun,Faculty,true
`

var _ = Describe("Importer", func() {
	var (
		f   *fixture
		ctx context.Context
	)

	BeforeEach(func() {
		f = newFixture()
		ctx = context.Background()
	})

	Describe("atomic mode", func() {
		It("should create every row and report the generated passwords", func() {
			result, err := f.importer.Import(ctx, strings.NewReader(roster), "")
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Mode).To(Equal(appErrors.ImportModeAtomic))
			Expect(result.Created).To(Equal(2))
			Expect(result.Total).To(Equal(2))
			Expect(result.Failed).To(BeZero())
			Expect(result.Message).To(Equal("2 users created successfully."))
			Expect(result.Users).To(HaveLen(2))

			meera := result.Users[0]
			Expect(meera.User.Username).To(Equal("21BCS001"))
			Expect(meera.User.FirstName).To(Equal("Meera"))
			Expect(meera.User.LastName).To(Equal("Nair"))
			Expect(meera.User.Email).To(Equal("21BCS001@iiitdmj.ac.in"))
			Expect(meera.User.IsStaff).To(BeTrue())
			Expect(meera.User.IsSuperuser).To(BeFalse())
			Expect(meera.User.IsActive).To(BeTrue())
			Expect(meera.Password).To(HavePrefix("Meera001"))
			Expect(meera.ExtraInfo.ID).To(Equal("21BCS001"))

			arjun := result.Users[1]
			Expect(arjun.User.IsStaff).To(BeFalse())
			Expect(arjun.User.IsSuperuser).To(BeTrue())
			Expect(arjun.User.LastName).To(BeEmpty())

			Expect(f.usernames()).To(Equal([]string{"21BCS001", "21BCS002"}))
			Expect(f.publisher.events).To(HaveLen(1))
			Expect(f.publisher.events[0].EventType()).To(Equal(events.EventTypeUsersImported))
		})

		It("should roll back every row when one row is malformed", func() {
			src := "rollNo,name,role,is_superuser\n21bcs001,meera nair,Student,false\n21bcs002,arjun\n"
			_, err := f.importer.Import(ctx, strings.NewReader(src), appErrors.ImportModeAtomic)

			appErr, ok := appErrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(appErrors.ErrCodeInvalidCSVData))
			Expect(appErr.Message).To(Equal("Invalid data format."))
			Expect(appErr.Details).To(Equal([]bulk.RowError{{Row: 3, Reason: "Invalid data format."}}))

			Expect(f.usernames()).To(BeEmpty())
			Expect(f.publisher.events).To(BeEmpty())
		})

		It("should roll back and report the row when a username already exists", func() {
			src := "rollNo,name,role,is_superuser\n21bcs001,meera nair,Student,false\n21BCS001,someone else,Student,false\n"
			_, err := f.importer.Import(ctx, strings.NewReader(src), appErrors.ImportModeAtomic)

			appErr, ok := appErrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(appErrors.ErrCodeImportRowError))
			Expect(appErr.StatusCode).To(Equal(400))

			rows, ok := appErr.Details.([]bulk.RowError)
			Expect(ok).To(BeTrue())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Row).To(Equal(3))
			Expect(rows[0].Errors).NotTo(BeEmpty())
			Expect(rows[0].Errors[0].Field).To(Equal("username"))

			Expect(f.usernames()).To(BeEmpty())
		})

		It("should reject an unknown mode", func() {
			_, err := f.importer.Import(ctx, strings.NewReader(roster), "best-effort")
			Expect(err).To(HaveOccurred())
			appErr, _ := appErrors.IsAppError(err)
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("should reject an empty upload", func() {
			_, err := f.importer.Import(ctx, strings.NewReader(""), "")
			appErr, ok := appErrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(appErrors.ErrCodeInvalidFile))
		})

		It("should accept a header-only file as an empty batch", func() {
			result, err := f.importer.Import(ctx, strings.NewReader("rollNo,name,role,is_superuser\n"), "")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Created).To(BeZero())
			Expect(result.Users).To(BeEmpty())
			Expect(result.Message).To(Equal("0 users created successfully."))
			Expect(f.publisher.events).To(BeEmpty())
		})
	})

	Describe("partial mode", func() {
		It("should keep the good rows and report the bad ones", func() {
			src := strings.Join([]string{
				"rollNo,name,role,is_superuser",
				"21bcs001,meera nair,Student,false",
				"21bcs002,arjun",
				"21BCS001,duplicate,Student,false",
				"x1,short roll,Student,false",
				"21bcs005,kavya,Student,perhaps",
				"21bcs006,ravi kumar,Faculty,0",
			}, "\n")

			result, err := f.importer.Import(ctx, strings.NewReader(src), appErrors.ImportModePartial)
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Mode).To(Equal(appErrors.ImportModePartial))
			Expect(result.Total).To(Equal(6))
			Expect(result.Created).To(Equal(2))
			Expect(result.Failed).To(Equal(4))

			var rows []int
			for _, e := range result.Errors {
				rows = append(rows, e.Row)
			}
			Expect(rows).To(Equal([]int{3, 4, 5, 6}))
			Expect(result.Errors[0].Reason).To(Equal("Invalid data format."))
			Expect(result.Errors[1].Errors[0].Code).To(Equal(string(appErrors.ErrCodeDuplicate)))
			Expect(result.Errors[3].Reason).To(ContainSubstring("is_superuser"))

			Expect(f.usernames()).To(Equal([]string{"21BCS001", "21BCS006"}))

			Expect(f.publisher.events).To(HaveLen(1))
			payload := f.publisher.events[0].Payload().(map[string]interface{})
			Expect(payload["created"]).To(Equal(2))
			Expect(payload["failed"]).To(Equal(4))
		})
	})
})

var _ = Describe("Exporter", func() {
	var (
		f   *fixture
		ctx context.Context
	)

	BeforeEach(func() {
		f = newFixture()
		ctx = context.Background()
		_, err := f.importer.Import(ctx, strings.NewReader(roster), "")
		Expect(err).NotTo(HaveOccurred())
	})

	It("should write a header and one row per user", func() {
		var buf bytes.Buffer
		n, err := f.exporter.Export(ctx, &buf, bulk.FormatCSV)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(2))

		Expect(buf.String()).To(Equal(
			"username,first_name,last_name,email,is_staff,is_superuser\n" +
				"21BCS001,Meera,Nair,21BCS001@iiitdmj.ac.in,True,False\n" +
				"21BCS002,Arjun,,21BCS002@iiitdmj.ac.in,False,True\n"))
	})

	It("should write an xlsx workbook", func() {
		var buf bytes.Buffer
		n, err := f.exporter.Export(ctx, &buf, bulk.FormatXLSX)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(2))
		// xlsx is a zip archive
		Expect(buf.Bytes()[:2]).To(Equal([]byte("PK")))
	})

	It("should reject an unknown format", func() {
		_, err := f.exporter.Export(ctx, &bytes.Buffer{}, "pdf")
		appErr, ok := appErrors.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(400))
	})

	It("should round-trip through import", func() {
		var buf bytes.Buffer
		_, err := f.exporter.Export(ctx, &buf, bulk.FormatCSV)
		Expect(err).NotTo(HaveOccurred())

		other := newFixture()
		result, err := other.importer.Import(ctx, &buf, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Created).To(Equal(2))

		var before, after []userDatamodel.User
		Expect(f.db.Order("username").Find(&before).Error).To(Succeed())
		Expect(other.db.Order("username").Find(&after).Error).To(Succeed())
		Expect(after).To(HaveLen(len(before)))
		for i := range before {
			Expect(after[i].Username).To(Equal(before[i].Username))
			Expect(after[i].Email).To(Equal(before[i].Email))
			Expect(after[i].IsStaff).To(Equal(before[i].IsStaff))
			Expect(after[i].IsSuperuser).To(Equal(before[i].IsSuperuser))
		}
	})
})
