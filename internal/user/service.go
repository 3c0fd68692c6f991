package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	errors "github.com/idlidosa1206/Fusion-System-Administrator/internal"
	userDatamodel "github.com/idlidosa1206/Fusion-System-Administrator/internal/core/datamodel/user"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/core/events"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/credential"
)

// RepositoryAPI is the user store. Getters return (nil, nil) when the row is missing.
type RepositoryAPI interface {
	List(ctx context.Context) ([]*userDatamodel.User, error)
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	Update(ctx context.Context, u *userDatamodel.User) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	// Delete removes the user with its ExtraInfo and designation assignments.
	Delete(ctx context.Context, id int64) error

	ListExtraInfo(ctx context.Context) ([]*userDatamodel.ExtraInfo, error)
	GetExtraInfo(ctx context.Context, userID int64) (*userDatamodel.ExtraInfo, error)
	SaveExtraInfo(ctx context.Context, info *userDatamodel.ExtraInfo) error

	// WithinTx runs fn against a repository bound to one transaction.
	WithinTx(ctx context.Context, fn func(repo RepositoryAPI) error) error
}

type Service struct {
	repo        RepositoryAPI
	issuer      *credential.Issuer
	publisher   events.Publisher
	emailDomain string
	logger      *slog.Logger
	now         func() time.Time
}

func NewService(repo RepositoryAPI, issuer *credential.Issuer, publisher events.Publisher, emailDomain string, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if emailDomain == "" {
		emailDomain = errors.DefaultEmailDomain
	}
	return &Service{
		repo:        repo,
		issuer:      issuer,
		publisher:   publisher,
		emailDomain: emailDomain,
		logger:      logger,
		now:         time.Now,
	}
}

func ErrUserNotFound() *errors.AppError {
	return errors.NewNotFoundError("User not found", errors.ErrCodeUserNotFound)
}

func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, errors.NewInternalError("failed to list users", err)
	}
	return FromDataModels(users), nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get user", "error", err, "user_id", id)
		return nil, errors.NewInternalError("failed to get user", err)
	}
	if u == nil {
		return nil, ErrUserNotFound()
	}
	return FromDataModel(u), nil
}

// CreateUser signs up one account with its ExtraInfo row in a single transaction.
func (s *Service) CreateUser(ctx context.Context, dto CreateUserDTO) (*CreatedUserResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var created *Provisioned
	err := s.repo.WithinTx(ctx, func(tx RepositoryAPI) error {
		p, err := s.Provision(ctx, tx, dto.Account())
		if err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		s.logError("failed to create user", err, "roll_no", dto.RollNo)
		return nil, err
	}

	s.logger.Info("user created", "user_id", created.User.ID, "username", created.User.Username)
	s.publish(ctx, events.NewUserCreatedEvent(created.User.ID, created.User.Username))

	return &CreatedUserResponse{
		User:      created.User,
		ExtraInfo: created.ExtraInfo,
		Password:  created.Password,
	}, nil
}

// Provisioned is an account that has been written to the store.
type Provisioned struct {
	User      *User
	ExtraInfo *ExtraInfo
	Password  string
}

// Provision derives, validates and stores one account through repo, which may be
// transaction-bound. Duplicate usernames or emails are validation errors.
func (s *Service) Provision(ctx context.Context, repo RepositoryAPI, in AccountInput) (*Provisioned, error) {
	account := NewAccount(in, s.emailDomain, s.now())
	if account.Username == "" || account.FirstName == "" {
		return nil, errors.NewValidationError("rollNo and name are required", errors.ErrCodeMissingField)
	}

	if err := s.checkUnique(ctx, repo, account.Username, account.Email, 0); err != nil {
		return nil, err
	}

	issued, err := s.issuer.Issue(in.Name, in.RollNo)
	if err != nil {
		return nil, errors.NewValidationFieldError("rollNo", err.Error(), errors.ErrCodeInvalidField)
	}
	account.Password = issued.Hash

	model := ToDataModel(account)
	if err := repo.Create(ctx, model); err != nil {
		return nil, errors.NewInternalError("failed to create user", err)
	}
	account.ID = model.ID

	info := &ExtraInfo{
		ID:         account.Username,
		UserID:     account.ID,
		UserStatus: DefaultUserStatus,
	}
	in.Profile.Apply(info)
	now := s.now()
	info.DateModified = &now
	if err := repo.SaveExtraInfo(ctx, ExtraInfoToDataModel(info)); err != nil {
		return nil, errors.NewInternalError("failed to create extra info", err)
	}

	return &Provisioned{User: account, ExtraInfo: info, Password: issued.Plain}, nil
}

// InTx exposes the repository transaction to pipelines that provision many accounts.
func (s *Service) InTx(ctx context.Context, fn func(repo RepositoryAPI) error) error {
	return s.repo.WithinTx(ctx, fn)
}

func (s *Service) UpdateUser(ctx context.Context, id int64, dto UpdateUserDTO, partial bool) (*User, error) {
	if err := dto.Validate(partial); err != nil {
		return nil, err
	}

	model, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get user", "error", err, "user_id", id)
		return nil, errors.NewInternalError("failed to get user", err)
	}
	if model == nil {
		return nil, ErrUserNotFound()
	}

	u := FromDataModel(model)
	dto.Apply(u)

	if err := s.checkUnique(ctx, s.repo, u.Username, u.Email, u.ID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, ToDataModel(u)); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, errors.NewInternalError("failed to update user", err)
	}

	s.logger.Info("user updated", "user_id", id, "partial", partial)
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	model, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get user", "error", err, "user_id", id)
		return errors.NewInternalError("failed to get user", err)
	}
	if model == nil {
		return ErrUserNotFound()
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", id)
		return errors.NewInternalError("failed to delete user", err)
	}

	s.logger.Info("user deleted", "user_id", id, "username", model.Username)
	s.publish(ctx, events.NewUserDeletedEvent(id, model.Username))
	return nil
}

// ResetPassword issues a new password for the account behind rollNo. The name falls
// back to the stored first and last name.
func (s *Service) ResetPassword(ctx context.Context, dto ResetPasswordDTO) (*ResetPasswordResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	username := strings.ToUpper(strings.TrimSpace(dto.RollNo))
	model, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		s.logger.Error("failed to get user", "error", err, "username", username)
		return nil, errors.NewInternalError("failed to get user", err)
	}
	if model == nil {
		return nil, ErrUserNotFound()
	}

	name := FromDataModel(model).FullName()
	if dto.Name != nil && strings.TrimSpace(*dto.Name) != "" {
		name = *dto.Name
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.NewMissingFieldError("name is required")
	}

	issued, err := s.issuer.Reissue(name, dto.RollNo, model.Password)
	if err != nil {
		s.logger.Error("failed to generate password", "error", err, "user_id", model.ID)
		return nil, errors.NewInternalError("failed to generate password", err)
	}

	if err := s.repo.UpdatePassword(ctx, model.ID, issued.Hash); err != nil {
		s.logger.Error("failed to store password", "error", err, "user_id", model.ID)
		return nil, errors.NewInternalError("failed to reset password", err)
	}

	s.logger.Info("password reset", "user_id", model.ID)
	s.publish(ctx, events.NewPasswordResetEvent(model.ID, model.Username))

	return &ResetPasswordResponse{Password: issued.Plain, Message: "Password reset successfully."}, nil
}

func (s *Service) ListExtraInfo(ctx context.Context) ([]*ExtraInfo, error) {
	rows, err := s.repo.ListExtraInfo(ctx)
	if err != nil {
		s.logger.Error("failed to list extra info", "error", err)
		return nil, errors.NewInternalError("failed to list extra info", err)
	}
	out := make([]*ExtraInfo, 0, len(rows))
	for _, r := range rows {
		out = append(out, ExtraInfoFromDataModel(r))
	}
	return out, nil
}

// UpsertExtraInfo applies dto to the user's ExtraInfo, creating the row when missing.
func (s *Service) UpsertExtraInfo(ctx context.Context, userID int64, dto ExtraInfoDTO) (*ExtraInfo, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	model, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError("failed to get user", err)
	}
	if model == nil {
		return nil, ErrUserNotFound()
	}

	current, err := s.repo.GetExtraInfo(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get extra info", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("failed to get extra info", err)
	}

	info := &ExtraInfo{ID: model.Username, UserID: userID, UserStatus: DefaultUserStatus}
	if current != nil {
		info = ExtraInfoFromDataModel(current)
	}
	dto.Apply(info)
	now := s.now()
	info.DateModified = &now

	if err := s.repo.SaveExtraInfo(ctx, ExtraInfoToDataModel(info)); err != nil {
		s.logger.Error("failed to save extra info", "error", err, "user_id", userID)
		return nil, errors.NewInternalError("failed to save extra info", err)
	}
	return info, nil
}

func (s *Service) checkUnique(ctx context.Context, repo RepositoryAPI, username, email string, excludeID int64) error {
	taken, err := repo.ExistsByUsername(ctx, username, excludeID)
	if err != nil {
		return errors.NewInternalError("failed to check username", err)
	}
	if taken {
		return errors.NewValidationFieldError("username",
			"A user with that username already exists.", errors.ErrCodeDuplicate)
	}

	taken, err = repo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return errors.NewInternalError("failed to check email", err)
	}
	if taken {
		return errors.NewValidationFieldError("email",
			fmt.Sprintf("A user with email %s already exists.", email), errors.ErrCodeDuplicate)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

func (s *Service) logError(msg string, err error, args ...any) {
	if appErr, ok := errors.IsAppError(err); ok && appErr.StatusCode < 500 {
		s.logger.Debug(msg, append(args, "error", err)...)
		return
	}
	s.logger.Error(msg, append(args, "error", err)...)
}
