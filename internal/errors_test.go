package internal_test

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/idlidosa1206/Fusion-System-Administrator/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AppError", func() {
	It("should hide the cause of internal errors from clients", func() {
		err := internal.NewInternalError("failed to list users", errors.New("pq: relation does not exist"))
		status, body := err.ToHTTPResponse()
		Expect(status).To(Equal(http.StatusInternalServerError))
		Expect(body.Error).To(Equal(internal.GenericInternalMessage))
		Expect(body.Details).To(BeNil())
		Expect(err.Error()).To(ContainSubstring("relation does not exist"))
	})

	It("should surface the field message for a single field error", func() {
		err := internal.NewValidationFieldError("username", "A user with that username already exists.", internal.ErrCodeDuplicate)
		status, body := err.ToHTTPResponse()
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body.Error).To(Equal("A user with that username already exists."))
		Expect(body.Code).To(Equal(internal.ErrCodeValidationFailed))
	})

	It("should be found through wrapping", func() {
		wrapped := fmt.Errorf("provision: %w", internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound))
		appErr, ok := internal.IsAppError(wrapped)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusNotFound))
		Expect(internal.IsNotFound(wrapped)).To(BeTrue())
		Expect(internal.IsNotFound(errors.New("plain"))).To(BeFalse())
	})
})
