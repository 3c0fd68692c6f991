package bulk

import (
	stderrors "errors"

	errors "github.com/idlidosa1206/Fusion-System-Administrator/internal"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/user"
)

var (
	ErrEmptyFile    = stderrors.New("file is empty")
	ErrMalformedCSV = stderrors.New("malformed csv")
	ErrNotUTF8      = stderrors.New("file is not valid UTF-8 text")
)

// RowError reports why one row of an import was not created. Row is the line
// number in the uploaded file, header included.
type RowError struct {
	Row    int                      `json:"row"`
	Reason string                   `json:"reason"`
	Errors []errors.ValidationError `json:"errors,omitempty"`
}

type ImportResult struct {
	Message string                      `json:"message"`
	Mode    string                      `json:"mode"`
	Total   int                         `json:"total"`
	Created int                         `json:"created"`
	Failed  int                         `json:"failed"`
	Users   []*user.CreatedUserResponse `json:"users"`
	Errors  []RowError                  `json:"errors,omitempty"`
}

func newRowError(row int, err error) RowError {
	re := RowError{Row: row, Reason: err.Error()}
	if appErr, ok := errors.IsAppError(err); ok {
		re.Reason = appErr.GetDetailedMessage()
		if details, ok := appErr.Details.(errors.ValidationErrors); ok {
			re.Errors = details.Errors
		}
	}
	return re
}

func malformedRow(row int) RowError {
	return RowError{Row: row, Reason: "Invalid data format."}
}

// ExportRow is one line of the user export.
type ExportRow struct {
	Username    string `db:"username"`
	FirstName   string `db:"first_name"`
	LastName    string `db:"last_name"`
	Email       string `db:"email"`
	IsStaff     bool   `db:"is_staff"`
	IsSuperuser bool   `db:"is_superuser"`
}

func (r ExportRow) Fields() []string {
	return []string{r.Username, r.FirstName, r.LastName, r.Email, formatFlag(r.IsStaff), formatFlag(r.IsSuperuser)}
}
