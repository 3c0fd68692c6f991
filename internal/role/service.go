package role

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/idlidosa1206/Fusion-System-Administrator/internal"
	designationDatamodel "github.com/idlidosa1206/Fusion-System-Administrator/internal/core/datamodel/designation"
	userDatamodel "github.com/idlidosa1206/Fusion-System-Administrator/internal/core/datamodel/user"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/core/events"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/designation"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/user"
)

// RepositoryAPI reads users and designations and writes assignment rows.
// Getters return (nil, nil) on a miss.
type RepositoryAPI interface {
	// GetUserByEmail locks the user row for the rest of the transaction where the store supports it.
	GetUserByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	HeldDesignations(ctx context.Context, userID int64) ([]*designationDatamodel.Designation, error)
	GetDesignationByName(ctx context.Context, name string) (*designationDatamodel.Designation, error)
	RemoveAssignments(ctx context.Context, userID int64, designationIDs []int64) (int64, error)
	AddAssignment(ctx context.Context, a *designationDatamodel.HoldsDesignation) error
	WithinTx(ctx context.Context, fn func(repo RepositoryAPI) error) error
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) GetUserRoles(ctx context.Context, email string) (*UserRolesResponse, error) {
	if email == "" {
		return nil, errors.NewMissingFieldError("Email parameter is required")
	}

	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		s.logger.Error("failed to get user", "error", err, "email", email)
		return nil, errors.NewInternalError("failed to get user", err)
	}
	if u == nil {
		return nil, user.ErrUserNotFound()
	}

	held, err := s.repo.HeldDesignations(ctx, u.ID)
	if err != nil {
		s.logger.Error("failed to get held designations", "error", err, "user_id", u.ID)
		return nil, errors.NewInternalError("failed to get roles", err)
	}

	return &UserRolesResponse{
		User:  user.FromDataModel(u),
		Roles: designation.FromDataModels(held),
	}, nil
}

// UpdateUserRoles makes the user's held designations equal to the requested set.
// Removals run before additions and everything commits or rolls back together.
func (s *Service) UpdateUserRoles(ctx context.Context, dto UpdateRolesDTO) (*UpdateRolesResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	requested := Names(dto.Roles)

	var (
		userID          int64
		toAdd, toRemove []string
	)
	err := s.repo.WithinTx(ctx, func(tx RepositoryAPI) error {
		u, err := tx.GetUserByEmail(ctx, dto.Email)
		if err != nil {
			return errors.NewInternalError("failed to get user", err)
		}
		if u == nil {
			return user.ErrUserNotFound()
		}
		userID = u.ID

		held, err := tx.HeldDesignations(ctx, u.ID)
		if err != nil {
			return errors.NewInternalError("failed to get roles", err)
		}
		current := make([]string, 0, len(held))
		ids := make(map[string]int64, len(held))
		for _, d := range held {
			current = append(current, d.Name)
			ids[d.Name] = d.ID
		}

		toAdd, toRemove = Reconcile(current, requested)

		if len(toRemove) > 0 {
			removeIDs := make([]int64, 0, len(toRemove))
			for _, name := range toRemove {
				removeIDs = append(removeIDs, ids[name])
			}
			if _, err := tx.RemoveAssignments(ctx, u.ID, removeIDs); err != nil {
				return errors.NewInternalError("failed to remove roles", err)
			}
		}

		now := s.now()
		for _, name := range toAdd {
			d, err := tx.GetDesignationByName(ctx, name)
			if err != nil {
				return errors.NewInternalError("failed to get designation", err)
			}
			if d == nil {
				return designation.ErrDesignationNotFound(name)
			}
			if err := tx.AddAssignment(ctx, &designationDatamodel.HoldsDesignation{
				HeldAt:        now,
				DesignationID: d.ID,
				UserID:        u.ID,
				WorkingID:     u.ID,
			}); err != nil {
				return errors.NewInternalError("failed to add role", err)
			}
		}
		return nil
	})
	if err != nil {
		if appErr, ok := errors.IsAppError(err); ok && appErr.StatusCode < 500 {
			s.logger.Debug("role update rejected", "email", dto.Email, "error", err)
		} else {
			s.logger.Error("failed to update roles", "email", dto.Email, "error", err)
		}
		return nil, err
	}

	if toAdd == nil {
		toAdd = []string{}
	}
	if toRemove == nil {
		toRemove = []string{}
	}

	s.logger.Info("user roles updated", "user_id", userID, "added", toAdd, "removed", toRemove)
	if len(toAdd) > 0 || len(toRemove) > 0 {
		if err := s.publisher.Publish(ctx, events.NewUserRolesUpdatedEvent(userID, toAdd, toRemove)); err != nil {
			s.logger.Warn("failed to publish event", "event_type", events.EventTypeUserRolesUpdated, "error", err)
		}
	}

	return &UpdateRolesResponse{
		Message: "User roles updated successfully.",
		Added:   toAdd,
		Removed: toRemove,
	}, nil
}
