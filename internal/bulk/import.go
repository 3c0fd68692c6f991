package bulk

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"

	errors "github.com/idlidosa1206/Fusion-System-Administrator/internal"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/core/events"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/user"
)

// Provisioner creates accounts inside a caller-controlled transaction.
type Provisioner interface {
	InTx(ctx context.Context, fn func(repo user.RepositoryAPI) error) error
	Provision(ctx context.Context, repo user.RepositoryAPI, in user.AccountInput) (*user.Provisioned, error)
}

type Importer struct {
	accounts    Provisioner
	publisher   events.Publisher
	defaultMode string
	logger      *slog.Logger
}

func NewImporter(accounts Provisioner, publisher events.Publisher, defaultMode string, logger *slog.Logger) *Importer {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if defaultMode == "" {
		defaultMode = errors.ImportModeAtomic
	}
	return &Importer{
		accounts:    accounts,
		publisher:   publisher,
		defaultMode: defaultMode,
		logger:      logger,
	}
}

// Import reads a CSV roster from src and creates one account per data row.
//
// In atomic mode the batch is a single transaction and the first bad row
// rolls every row back. In partial mode each row commits on its own and
// failures are collected into the result.
func (im *Importer) Import(ctx context.Context, src io.Reader, mode string) (*ImportResult, error) {
	if mode == "" {
		mode = im.defaultMode
	}
	if mode != errors.ImportModeAtomic && mode != errors.ImportModePartial {
		return nil, errors.NewValidationFieldError("mode",
			fmt.Sprintf("mode must be %q or %q", errors.ImportModeAtomic, errors.ImportModePartial),
			errors.ErrCodeInvalidField)
	}

	records, err := NewRecordReader(src)
	if err != nil {
		return nil, fileError(err)
	}
	im.logger.Debug("import started", "mode", mode, "layout", records.Layout().String())

	var result *ImportResult
	if mode == errors.ImportModeAtomic {
		result, err = im.importAtomic(ctx, records)
	} else {
		result, err = im.importPartial(ctx, records)
	}
	if err != nil {
		return nil, err
	}

	result.Mode = mode
	result.Failed = len(result.Errors)
	result.Message = fmt.Sprintf("%d users created successfully.", result.Created)

	im.logger.Info("users imported", "mode", mode, "created", result.Created, "failed", result.Failed)
	if result.Created > 0 || result.Failed > 0 {
		event := events.NewUsersImportedEvent(result.Created, result.Failed, mode)
		if err := im.publisher.Publish(ctx, event); err != nil {
			im.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
		}
	}
	return result, nil
}

func (im *Importer) importAtomic(ctx context.Context, records *RecordReader) (*ImportResult, error) {
	result := &ImportResult{Users: []*user.CreatedUserResponse{}}
	layout := records.Layout()

	err := im.accounts.InTx(ctx, func(repo user.RepositoryAPI) error {
		for {
			rec, err := records.Next()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return fileError(err)
			}
			result.Total++

			in, ok, err := layout.Account(rec)
			if !ok {
				return errors.NewValidationError("Invalid data format.", errors.ErrCodeInvalidCSVData).
					WithDetails([]RowError{malformedRow(rec.Line)})
			}
			if err != nil {
				return rowAbort(rec.Line, errors.NewValidationError(err.Error(), errors.ErrCodeInvalidField))
			}

			p, err := im.accounts.Provision(ctx, repo, in)
			if err != nil {
				if appErr, isApp := errors.IsAppError(err); isApp && appErr.StatusCode < 500 {
					return rowAbort(rec.Line, err)
				}
				return err
			}
			result.Users = append(result.Users, created(p))
			result.Created++
		}
	})
	if err != nil {
		im.logError("atomic import rolled back", err)
		return nil, err
	}
	return result, nil
}

func (im *Importer) importPartial(ctx context.Context, records *RecordReader) (*ImportResult, error) {
	result := &ImportResult{Users: []*user.CreatedUserResponse{}}
	layout := records.Layout()

	for {
		rec, err := records.Next()
		if err == io.EOF {
			return result, nil
		}
		if err != nil {
			return nil, fileError(err)
		}
		result.Total++

		in, ok, err := layout.Account(rec)
		if !ok {
			result.Errors = append(result.Errors, malformedRow(rec.Line))
			continue
		}
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: rec.Line, Reason: err.Error()})
			continue
		}

		var p *user.Provisioned
		err = im.accounts.InTx(ctx, func(repo user.RepositoryAPI) error {
			var perr error
			p, perr = im.accounts.Provision(ctx, repo, in)
			return perr
		})
		if err != nil {
			if appErr, isApp := errors.IsAppError(err); isApp && appErr.StatusCode < 500 {
				result.Errors = append(result.Errors, newRowError(rec.Line, err))
				continue
			}
			im.logError("partial import stopped", err, "row", rec.Line, "created", result.Created)
			return nil, err
		}
		result.Users = append(result.Users, created(p))
		result.Created++
	}
}

func (im *Importer) logError(msg string, err error, args ...any) {
	if appErr, ok := errors.IsAppError(err); ok && appErr.StatusCode < 500 {
		im.logger.Debug(msg, append(args, "error", err)...)
		return
	}
	im.logger.Error(msg, append(args, "error", err)...)
}

func rowAbort(row int, err error) *errors.AppError {
	re := newRowError(row, err)
	return errors.NewValidationError(fmt.Sprintf("Row %d: %s", row, re.Reason), errors.ErrCodeImportRowError).
		WithDetails([]RowError{re})
}

func fileError(err error) *errors.AppError {
	switch {
	case stderrors.Is(err, ErrEmptyFile):
		return errors.NewValidationError("The submitted file is empty.", errors.ErrCodeInvalidFile)
	case stderrors.Is(err, ErrNotUTF8):
		return errors.NewValidationError("File must be UTF-8 encoded text.", errors.ErrCodeInvalidFile)
	case stderrors.Is(err, ErrMalformedCSV):
		return errors.NewValidationError(err.Error(), errors.ErrCodeInvalidCSVData)
	default:
		return errors.NewInternalError("failed to read upload", err)
	}
}

func created(p *user.Provisioned) *user.CreatedUserResponse {
	return &user.CreatedUserResponse{User: p.User, ExtraInfo: p.ExtraInfo, Password: p.Password}
}
