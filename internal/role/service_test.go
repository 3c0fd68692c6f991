package role_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	appErrors "github.com/idlidosa1206/Fusion-System-Administrator/internal"
	designationDatamodel "github.com/idlidosa1206/Fusion-System-Administrator/internal/core/datamodel/designation"
	userDatamodel "github.com/idlidosa1206/Fusion-System-Administrator/internal/core/datamodel/user"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/core/events"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/role"
	rolePostgres "github.com/idlidosa1206/Fusion-System-Administrator/internal/role/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.events = append(p.events, event)
	return nil
}

func openTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	Expect(err).NotTo(HaveOccurred())
	sqlDB, err := db.DB()
	Expect(err).NotTo(HaveOccurred())
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&userDatamodel.User{},
		&designationDatamodel.Designation{},
		&designationDatamodel.HoldsDesignation{},
	)
	Expect(err).NotTo(HaveOccurred())
	return db
}

var _ = Describe("Role Service", func() {
	var (
		ctx       context.Context
		db        *gorm.DB
		publisher *recordingPublisher
		service   *role.Service
		holder    *userDatamodel.User
		byName    map[string]int64
	)

	held := func() []string {
		resp, err := service.GetUserRoles(ctx, holder.Email)
		Expect(err).NotTo(HaveOccurred())
		names := make([]string, 0, len(resp.Roles))
		for _, d := range resp.Roles {
			names = append(names, d.Name)
		}
		return names
	}

	grant := func(name string) {
		Expect(db.Create(&designationDatamodel.HoldsDesignation{
			HeldAt: time.Now(), DesignationID: byName[name], UserID: holder.ID, WorkingID: holder.ID,
		}).Error).To(Succeed())
	}

	BeforeEach(func() {
		ctx = context.Background()
		db = openTestDB()
		publisher = &recordingPublisher{}
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = role.NewService(rolePostgres.NewRoleRepository(db), publisher, slogger)

		holder = &userDatamodel.User{
			Password: "x", Username: "A", Email: "a@x.com", IsActive: true, DateJoined: time.Now(),
		}
		Expect(db.Create(holder).Error).To(Succeed())

		byName = make(map[string]int64)
		for _, name := range []string{"Admin", "Clerk", "Dean", "Student"} {
			d := &designationDatamodel.Designation{Name: name, Type: "administrative"}
			Expect(db.Create(d).Error).To(Succeed())
			byName[name] = d.ID
		}
	})

	It("should add Admin, keep Dean and remove Clerk", func() {
		grant("Dean")
		grant("Clerk")

		resp, err := service.UpdateUserRoles(ctx, role.UpdateRolesDTO{
			Email: "a@x.com",
			Roles: []role.RoleInput{{Name: "Admin"}, {Name: "Dean"}},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Message).To(Equal("User roles updated successfully."))
		Expect(resp.Added).To(Equal([]string{"Admin"}))
		Expect(resp.Removed).To(Equal([]string{"Clerk"}))
		Expect(held()).To(Equal([]string{"Admin", "Dean"}))

		var a designationDatamodel.HoldsDesignation
		Expect(db.Where("designation_id = ?", byName["Admin"]).First(&a).Error).To(Succeed())
		Expect(a.WorkingID).To(Equal(holder.ID))
		Expect(a.HeldAt).NotTo(BeZero())
		Expect(publisher.events).To(HaveLen(1))
	})

	It("should be idempotent", func() {
		dto := role.UpdateRolesDTO{Email: "a@x.com", Roles: []role.RoleInput{{Name: "Dean"}, {Name: "Student"}}}
		_, err := service.UpdateUserRoles(ctx, dto)
		Expect(err).NotTo(HaveOccurred())
		first := held()

		resp, err := service.UpdateUserRoles(ctx, dto)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Added).To(BeEmpty())
		Expect(resp.Removed).To(BeEmpty())
		Expect(held()).To(Equal(first))

		var count int64
		db.Model(&designationDatamodel.HoldsDesignation{}).Count(&count)
		Expect(count).To(Equal(int64(2)))
		Expect(publisher.events).To(HaveLen(1))
	})

	It("should remove every role for an empty list", func() {
		grant("Dean")
		grant("Clerk")

		resp, err := service.UpdateUserRoles(ctx, role.UpdateRolesDTO{Email: "a@x.com", Roles: []role.RoleInput{}})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.Added).To(BeEmpty())
		Expect(held()).To(BeEmpty())
	})

	It("should roll back removals when a requested designation does not exist", func() {
		grant("Clerk")

		_, err := service.UpdateUserRoles(ctx, role.UpdateRolesDTO{
			Email: "a@x.com",
			Roles: []role.RoleInput{{Name: "Admin"}, {Name: "Ghost"}},
		})
		Expect(err).To(MatchError("Designation with name 'Ghost' not found."))
		Expect(appErrors.IsNotFound(err)).To(BeTrue())
		Expect(held()).To(Equal([]string{"Clerk"}))
		Expect(publisher.events).To(BeEmpty())
	})

	It("should return 404 for an unknown user", func() {
		_, err := service.UpdateUserRoles(ctx, role.UpdateRolesDTO{Email: "nobody@x.com", Roles: []role.RoleInput{}})
		Expect(err).To(MatchError("User not found"))

		_, err = service.GetUserRoles(ctx, "nobody@x.com")
		Expect(appErrors.IsNotFound(err)).To(BeTrue())
	})

	It("should validate before touching the store", func() {
		_, err := service.UpdateUserRoles(ctx, role.UpdateRolesDTO{Roles: []role.RoleInput{{Name: "Admin"}}})
		appErr, ok := appErrors.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(400))

		_, err = service.GetUserRoles(ctx, "")
		Expect(err).To(MatchError("Email parameter is required"))
	})
})
