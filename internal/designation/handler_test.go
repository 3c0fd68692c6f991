package designation_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	designationDatamodel "github.com/idlidosa1206/Fusion-System-Administrator/internal/core/datamodel/designation"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/core/events"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/designation"
	designationPostgres "github.com/idlidosa1206/Fusion-System-Administrator/internal/designation/postgres"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Designation Handler Integration", func() {
	var (
		db      *gorm.DB
		handler *designation.Handler
	)

	send := func(h http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, target, nil)
		} else {
			req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		}
		w := httptest.NewRecorder()
		h(w, req)
		return w
	}

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		err = db.AutoMigrate(
			&designationDatamodel.Designation{},
			&designationDatamodel.HoldsDesignation{},
			&designationDatamodel.ModuleAccess{},
		)
		Expect(err).NotTo(HaveOccurred())

		repo := designationPostgres.NewDesignationRepository(db)
		service := designation.NewService(repo, events.NopPublisher{}, slogger)
		handler = designation.NewHandler(&transport.BaseHandler{Logger: slogger}, service)
	})

	It("should create a designation with its module access row", func() {
		w := send(handler.CreateDesignation, http.MethodPost, "/designations", `{"name":"Registrar","full_name":"Registrar"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var resp designation.CreatedDesignationResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Role.Name).To(Equal("Registrar"))
		Expect(resp.Modules.Designation).To(Equal("Registrar"))
		Expect(resp.Modules.Enabled()).To(BeEmpty())

		var count int64
		db.Model(&designationDatamodel.ModuleAccess{}).Where("designation = ?", "Registrar").Count(&count)
		Expect(count).To(Equal(int64(1)))
	})

	It("should list designations and fetch one by name", func() {
		send(handler.CreateDesignation, http.MethodPost, "/designations", `{"name":"Dean"}`)
		send(handler.CreateDesignation, http.MethodPost, "/designations", `{"name":"Admin"}`)

		w := send(handler.ListDesignations, http.MethodGet, "/designations", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var ds []designation.Designation
		Expect(json.NewDecoder(w.Body).Decode(&ds)).To(Succeed())
		Expect(ds).To(HaveLen(2))
		Expect(ds[0].Name).To(Equal("Admin"))

		req := httptest.NewRequest(http.MethodGet, "/designations/Dean", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("name", "Dean")
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		w = httptest.NewRecorder()
		handler.GetDesignation(w, req)
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("should update by body name", func() {
		send(handler.CreateDesignation, http.MethodPost, "/designations", `{"name":"Dean"}`)

		w := send(handler.UpdateDesignation, http.MethodPatch, "/designations", `{"name":"Dean","category":"faculty","basic":true}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		var d designation.Designation
		Expect(json.NewDecoder(w.Body).Decode(&d)).To(Succeed())
		Expect(d.Category).To(Equal("faculty"))
		Expect(d.Basic).To(BeTrue())

		w = send(handler.UpdateDesignation, http.MethodPut, "/designations", `{"category":"faculty"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("No name provided."))
	})

	It("should delete by body name and cascade", func() {
		send(handler.CreateDesignation, http.MethodPost, "/designations", `{"name":"Clerk"}`)
		Expect(db.Create(&designationDatamodel.HoldsDesignation{
			HeldAt: time.Now(), DesignationID: 1, UserID: 9, WorkingID: 9,
		}).Error).To(Succeed())

		w := send(handler.DeleteDesignation, http.MethodDelete, "/designations", `{"name":"Clerk"}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		var count int64
		db.Model(&designationDatamodel.HoldsDesignation{}).Count(&count)
		Expect(count).To(BeZero())
		db.Model(&designationDatamodel.ModuleAccess{}).Count(&count)
		Expect(count).To(BeZero())

		w = send(handler.DeleteDesignation, http.MethodDelete, "/designations", `{"name":"Clerk"}`)
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(w.Body.String()).To(ContainSubstring("Designation with name 'Clerk' not found."))
	})

	It("should read and partially update module access", func() {
		send(handler.CreateDesignation, http.MethodPost, "/designations", `{"name":"Warden"}`)

		w := send(handler.UpdateModuleAccess, http.MethodPut, "/module-access", `{"designation":"Warden","hostel_management":true,"unknown":1}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		w = send(handler.GetModuleAccess, http.MethodGet, "/module-access?designation=Warden", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var access designation.ModuleAccess
		Expect(json.NewDecoder(w.Body).Decode(&access)).To(Succeed())
		Expect(access.HostelManagement).To(BeTrue())
		Expect(access.PHC).To(BeFalse())
	})

	It("should reject non boolean module flags", func() {
		send(handler.CreateDesignation, http.MethodPost, "/designations", `{"name":"Warden"}`)

		w := send(handler.UpdateModuleAccess, http.MethodPut, "/module-access", `{"designation":"Warden","hr":"yes"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("hr must be a valid boolean."))
	})

	It("should answer 400 when the designation query parameter is missing", func() {
		w := send(handler.GetModuleAccess, http.MethodGet, "/module-access", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("No role provided."))
	})
})
