package bulk_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"

	appErrors "github.com/idlidosa1206/Fusion-System-Administrator/internal"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/bulk"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func upload(target, filename, content string) *http.Request {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write([]byte(content))
		Expect(err).NotTo(HaveOccurred())
	} else {
		Expect(mw.WriteField("note", "no file here")).To(Succeed())
	}
	Expect(mw.Close()).To(Succeed())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeError(w *httptest.ResponseRecorder) appErrors.Response {
	var resp appErrors.Response
	Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
	return resp
}

type failingExporter struct{}

func (failingExporter) Export(context.Context, io.Writer, string) (int, error) {
	return 0, appErrors.NewInternalError("failed to export users", errors.New("connection reset"))
}

var _ = Describe("Bulk Handler", func() {
	var (
		f       *fixture
		handler *bulk.Handler
		slogger *slog.Logger
	)

	BeforeEach(func() {
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		f = newFixture()
		handler = bulk.NewHandler(&transport.BaseHandler{Logger: slogger}, f.importer, f.exporter, 1<<20)
	})

	Describe("ImportUsers", func() {
		It("should import an uploaded csv and answer 201", func() {
			w := httptest.NewRecorder()
			handler.ImportUsers(w, upload("/users/import", "students.CSV", roster))

			Expect(w.Code).To(Equal(http.StatusCreated))
			var result bulk.ImportResult
			Expect(json.NewDecoder(w.Body).Decode(&result)).To(Succeed())
			Expect(result.Created).To(Equal(2))
			Expect(result.Message).To(Equal("2 users created successfully."))
			Expect(result.Users[0].Password).NotTo(BeEmpty())
		})

		It("should honour ?mode=partial", func() {
			src := roster + "21bcs003,broken\n"
			w := httptest.NewRecorder()
			handler.ImportUsers(w, upload("/users/import?mode=partial", "students.csv", src))

			Expect(w.Code).To(Equal(http.StatusCreated))
			var result bulk.ImportResult
			Expect(json.NewDecoder(w.Body).Decode(&result)).To(Succeed())
			Expect(result.Created).To(Equal(2))
			Expect(result.Failed).To(Equal(1))
			Expect(result.Errors[0].Row).To(Equal(4))
		})

		It("should answer 400 with row details when an atomic import fails", func() {
			src := roster + "21bcs003,broken\n"
			w := httptest.NewRecorder()
			handler.ImportUsers(w, upload("/users/import", "students.csv", src))

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			resp := decodeError(w)
			Expect(resp.Error).To(Equal("Invalid data format."))
			Expect(resp.Code).To(Equal(appErrors.ErrCodeInvalidCSVData))
			Expect(f.usernames()).To(BeEmpty())
		})

		It("should reject a missing file", func() {
			w := httptest.NewRecorder()
			handler.ImportUsers(w, upload("/users/import", "", ""))

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeError(w).Error).To(Equal("No file provided."))
		})

		It("should reject a request that is not multipart", func() {
			req := httptest.NewRequest(http.MethodPost, "/users/import", bytes.NewBufferString("{}"))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			handler.ImportUsers(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeError(w).Error).To(Equal("No file provided."))
		})

		It("should reject a file without the .csv extension", func() {
			w := httptest.NewRecorder()
			handler.ImportUsers(w, upload("/users/import", "students.xlsx", roster))

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeError(w).Error).To(Equal("Please upload a valid CSV file."))
		})

		It("should reject an upload over the size limit", func() {
			handler = bulk.NewHandler(&transport.BaseHandler{Logger: slogger}, f.importer, f.exporter, 64)
			w := httptest.NewRecorder()
			handler.ImportUsers(w, upload("/users/import", "students.csv", roster+roster+roster))

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decodeError(w).Code).To(Equal(appErrors.ErrCodeInvalidFile))
		})
	})

	Describe("ExportUsers", func() {
		BeforeEach(func() {
			w := httptest.NewRecorder()
			handler.ImportUsers(w, upload("/users/import", "students.csv", roster))
			Expect(w.Code).To(Equal(http.StatusCreated))
		})

		It("should download a csv attachment", func() {
			w := httptest.NewRecorder()
			handler.ExportUsers(w, httptest.NewRequest(http.MethodGet, "/users/export", nil))

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(Equal("text/csv"))
			Expect(w.Header().Get("Content-Disposition")).To(Equal(`attachment; filename="users_export.csv"`))
			Expect(w.Body.String()).To(HavePrefix("username,first_name,last_name,email,is_staff,is_superuser\n"))
			Expect(w.Body.String()).To(ContainSubstring("21BCS002,Arjun,,21BCS002@iiitdmj.ac.in,False,True"))
		})

		It("should download an xlsx attachment", func() {
			w := httptest.NewRecorder()
			handler.ExportUsers(w, httptest.NewRequest(http.MethodGet, "/users/export?format=xlsx", nil))

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Disposition")).To(Equal(`attachment; filename="users_export.xlsx"`))
			Expect(w.Body.Len()).To(BeNumerically(">", 0))
		})

		It("should answer with a JSON error when nothing was written", func() {
			handler = bulk.NewHandler(&transport.BaseHandler{Logger: slogger}, f.importer, failingExporter{}, 0)
			w := httptest.NewRecorder()
			handler.ExportUsers(w, httptest.NewRequest(http.MethodGet, "/users/export", nil))

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(w.Header().Get("Content-Disposition")).To(BeEmpty())
			Expect(decodeError(w).Error).To(Equal(appErrors.GenericInternalMessage))
		})
	})
})
