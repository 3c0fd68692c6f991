package designation

import (
	"context"
	"fmt"
	"log/slog"

	errors "github.com/idlidosa1206/Fusion-System-Administrator/internal"
	designationDatamodel "github.com/idlidosa1206/Fusion-System-Administrator/internal/core/datamodel/designation"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/core/events"
)

// RepositoryAPI is the designation and module access store. Getters return (nil, nil) on a miss.
type RepositoryAPI interface {
	List(ctx context.Context) ([]*designationDatamodel.Designation, error)
	GetByName(ctx context.Context, name string) (*designationDatamodel.Designation, error)
	Create(ctx context.Context, d *designationDatamodel.Designation) error
	Update(ctx context.Context, d *designationDatamodel.Designation) error
	Delete(ctx context.Context, id int64) error
	DeleteAssignments(ctx context.Context, designationID int64) (int64, error)

	GetModuleAccess(ctx context.Context, designation string) (*designationDatamodel.ModuleAccess, error)
	SaveModuleAccess(ctx context.Context, m *designationDatamodel.ModuleAccess) error
	DeleteModuleAccess(ctx context.Context, designation string) error

	WithinTx(ctx context.Context, fn func(repo RepositoryAPI) error) error
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func ErrDesignationNotFound(name string) *errors.AppError {
	return errors.NewNotFoundError(fmt.Sprintf("Designation with name '%s' not found.", name), errors.ErrCodeDesignationNotFound)
}

func ErrModuleAccessNotFound(name string) *errors.AppError {
	return errors.NewNotFoundError(fmt.Sprintf("Module access for designation '%s' not found.", name), errors.ErrCodeModuleAccessNotFound)
}

func (s *Service) ListDesignations(ctx context.Context) ([]*Designation, error) {
	ds, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list designations", "error", err)
		return nil, errors.NewInternalError("failed to list designations", err)
	}
	return FromDataModels(ds), nil
}

func (s *Service) GetDesignation(ctx context.Context, name string) (*Designation, error) {
	if name == "" {
		return nil, errors.NewMissingFieldError("No name provided.")
	}
	d, err := s.repo.GetByName(ctx, name)
	if err != nil {
		s.logger.Error("failed to get designation", "error", err, "designation", name)
		return nil, errors.NewInternalError("failed to get designation", err)
	}
	if d == nil {
		return nil, ErrDesignationNotFound(name)
	}
	return FromDataModel(d), nil
}

// CreateDesignation stores the designation and its all-false module access row together.
func (s *Service) CreateDesignation(ctx context.Context, dto CreateDesignationDTO) (*CreatedDesignationResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	d := dto.Designation()
	access := NewModuleAccess(d.Name)

	err := s.repo.WithinTx(ctx, func(tx RepositoryAPI) error {
		existing, err := tx.GetByName(ctx, d.Name)
		if err != nil {
			return errors.NewInternalError("failed to check designation", err)
		}
		if existing != nil {
			return errors.NewValidationFieldError("name", "designation with this name already exists.", errors.ErrCodeDuplicate)
		}

		model := ToDataModel(d)
		if err := tx.Create(ctx, model); err != nil {
			return errors.NewInternalError("failed to create designation", err)
		}
		d.ID = model.ID

		// A stale row left behind by an earlier designation of the same name is reset.
		stale, err := tx.GetModuleAccess(ctx, d.Name)
		if err != nil {
			return errors.NewInternalError("failed to check module access", err)
		}
		if stale != nil {
			access.ID = stale.ID
		}

		accessModel := ModuleAccessToDataModel(access)
		if err := tx.SaveModuleAccess(ctx, accessModel); err != nil {
			return errors.NewInternalError("failed to create module access", err)
		}
		access.ID = accessModel.ID
		return nil
	})
	if err != nil {
		s.logFailure("failed to create designation", err, "designation", d.Name)
		return nil, err
	}

	s.logger.Info("designation created", "designation", d.Name, "designation_id", d.ID)
	s.publish(ctx, events.NewDesignationCreatedEvent(d.Name))

	return &CreatedDesignationResponse{Role: d, Modules: access}, nil
}

func (s *Service) UpdateDesignation(ctx context.Context, dto UpdateDesignationDTO, partial bool) (*Designation, error) {
	if err := dto.Validate(partial); err != nil {
		return nil, err
	}

	model, err := s.repo.GetByName(ctx, dto.Name)
	if err != nil {
		s.logger.Error("failed to get designation", "error", err, "designation", dto.Name)
		return nil, errors.NewInternalError("failed to get designation", err)
	}
	if model == nil {
		return nil, ErrDesignationNotFound(dto.Name)
	}

	d := FromDataModel(model)
	dto.Apply(d)
	if err := s.repo.Update(ctx, ToDataModel(d)); err != nil {
		s.logger.Error("failed to update designation", "error", err, "designation", dto.Name)
		return nil, errors.NewInternalError("failed to update designation", err)
	}

	s.logger.Info("designation updated", "designation", d.Name, "partial", partial)
	return d, nil
}

// DeleteDesignation removes the designation together with every assignment of it
// and its module access row.
func (s *Service) DeleteDesignation(ctx context.Context, name string) (*MessageResponse, error) {
	if name == "" {
		return nil, errors.NewMissingFieldError("No name provided.")
	}

	var removed int64
	err := s.repo.WithinTx(ctx, func(tx RepositoryAPI) error {
		model, err := tx.GetByName(ctx, name)
		if err != nil {
			return errors.NewInternalError("failed to get designation", err)
		}
		if model == nil {
			return ErrDesignationNotFound(name)
		}

		if removed, err = tx.DeleteAssignments(ctx, model.ID); err != nil {
			return errors.NewInternalError("failed to delete assignments", err)
		}
		if err := tx.DeleteModuleAccess(ctx, name); err != nil {
			return errors.NewInternalError("failed to delete module access", err)
		}
		if err := tx.Delete(ctx, model.ID); err != nil {
			return errors.NewInternalError("failed to delete designation", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("failed to delete designation", err, "designation", name)
		return nil, err
	}

	s.logger.Info("designation deleted", "designation", name, "assignments_removed", removed)
	s.publish(ctx, events.NewDesignationDeletedEvent(name, removed))

	return &MessageResponse{Message: fmt.Sprintf("Designation '%s' deleted successfully.", name)}, nil
}

func (s *Service) GetModuleAccess(ctx context.Context, name string) (*ModuleAccess, error) {
	if name == "" {
		return nil, errors.NewMissingFieldError("No role provided.")
	}
	m, err := s.repo.GetModuleAccess(ctx, name)
	if err != nil {
		s.logger.Error("failed to get module access", "error", err, "designation", name)
		return nil, errors.NewInternalError("failed to get module access", err)
	}
	if m == nil {
		return nil, ErrModuleAccessNotFound(name)
	}
	return ModuleAccessFromDataModel(m), nil
}

// UpdateModuleAccess applies the supplied flags and leaves the rest untouched.
func (s *Service) UpdateModuleAccess(ctx context.Context, dto UpdateModuleAccessDTO) (*ModuleAccess, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	model, err := s.repo.GetModuleAccess(ctx, dto.Designation)
	if err != nil {
		s.logger.Error("failed to get module access", "error", err, "designation", dto.Designation)
		return nil, errors.NewInternalError("failed to get module access", err)
	}
	if model == nil {
		return nil, ErrDesignationNotFound(dto.Designation)
	}

	access := ModuleAccessFromDataModel(model)
	changed := access.SetFlags(dto.Flags)
	if len(changed) == 0 {
		return access, nil
	}

	if err := s.repo.SaveModuleAccess(ctx, ModuleAccessToDataModel(access)); err != nil {
		s.logger.Error("failed to save module access", "error", err, "designation", dto.Designation)
		return nil, errors.NewInternalError("failed to update module access", err)
	}

	s.logger.Info("module access updated", "designation", dto.Designation, "changed", len(changed))
	s.publish(ctx, events.NewModuleAccessUpdatedEvent(dto.Designation, changed))
	return access, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

func (s *Service) logFailure(msg string, err error, args ...any) {
	if appErr, ok := errors.IsAppError(err); ok && appErr.StatusCode < 500 {
		s.logger.Debug(msg, append(args, "error", err)...)
		return
	}
	s.logger.Error(msg, append(args, "error", err)...)
}
