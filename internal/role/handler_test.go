package role_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	designationDatamodel "github.com/idlidosa1206/Fusion-System-Administrator/internal/core/datamodel/designation"
	userDatamodel "github.com/idlidosa1206/Fusion-System-Administrator/internal/core/datamodel/user"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/core/events"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/role"
	rolePostgres "github.com/idlidosa1206/Fusion-System-Administrator/internal/role/postgres"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Role Handler Integration", func() {
	var handler *role.Handler

	BeforeEach(func() {
		db := openTestDB()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := role.NewService(rolePostgres.NewRoleRepository(db), events.NopPublisher{}, slogger)
		handler = role.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		Expect(db.Create(&userDatamodel.User{
			Password: "x", Username: "21BCS104", Email: "21BCS104@iiitdmj.ac.in", IsActive: true, DateJoined: time.Now(),
		}).Error).To(Succeed())
		Expect(db.Create(&designationDatamodel.Designation{Name: "Dean"}).Error).To(Succeed())
		Expect(db.Create(&designationDatamodel.Designation{Name: "Admin"}).Error).To(Succeed())
	})

	It("should reconcile roles given as names and objects", func() {
		body := `{"email":"21BCS104@iiitdmj.ac.in","roles":["Dean",{"name":"Admin","id":2},42]}`
		req := httptest.NewRequest(http.MethodPut, "/users/roles", bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		handler.UpdateUserRoles(w, req)
		Expect(w.Code).To(Equal(http.StatusOK))

		req = httptest.NewRequest(http.MethodGet, "/users/roles?email=21BCS104@iiitdmj.ac.in", nil)
		w = httptest.NewRecorder()
		handler.GetUserRoles(w, req)
		Expect(w.Code).To(Equal(http.StatusOK))

		var resp struct {
			User  map[string]interface{}   `json:"user"`
			Roles []map[string]interface{} `json:"roles"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.User["username"]).To(Equal("21BCS104"))
		Expect(resp.Roles).To(HaveLen(2))
	})

	It("should answer 400 when roles are missing", func() {
		req := httptest.NewRequest(http.MethodPut, "/users/roles", bytes.NewBufferString(`{"email":"21BCS104@iiitdmj.ac.in"}`))
		w := httptest.NewRecorder()
		handler.UpdateUserRoles(w, req)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("Email and roles are required."))
	})

	It("should answer 404 for an unknown designation", func() {
		body := `{"email":"21BCS104@iiitdmj.ac.in","roles":["Ghost"]}`
		req := httptest.NewRequest(http.MethodPut, "/users/roles", bytes.NewBufferString(body))
		w := httptest.NewRecorder()
		handler.UpdateUserRoles(w, req)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should answer 400 without an email query parameter", func() {
		w := httptest.NewRecorder()
		handler.GetUserRoles(w, httptest.NewRequest(http.MethodGet, "/users/roles", nil))
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
