package postgres

import (
	"context"
	"errors"

	designationDatamodel "github.com/idlidosa1206/Fusion-System-Administrator/internal/core/datamodel/designation"
	userDatamodel "github.com/idlidosa1206/Fusion-System-Administrator/internal/core/datamodel/user"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context) ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) first(ctx context.Context, query string, arg interface{}) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error) {
	return r.exists(ctx, "username = ?", username, excludeID)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.exists(ctx, "email = ?", email, excludeID)
}

func (r *UserRepository) exists(ctx context.Context, query string, arg interface{}, excludeID int64) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where(query, arg)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) Update(ctx context.Context, u *userDatamodel.User) error {
	return r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("id = ?", u.ID).Updates(map[string]interface{}{
		"username":     u.Username,
		"first_name":   u.FirstName,
		"last_name":    u.LastName,
		"email":        u.Email,
		"is_staff":     u.IsStaff,
		"is_superuser": u.IsSuperuser,
		"is_active":    u.IsActive,
	}).Error
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("id = ?", id).Update("password", hash).Error
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? OR working_id = ?", id, id).Delete(&designationDatamodel.HoldsDesignation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&userDatamodel.ExtraInfo{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&userDatamodel.User{}).Error
	})
}

func (r *UserRepository) ListExtraInfo(ctx context.Context) ([]*userDatamodel.ExtraInfo, error) {
	var rows []*userDatamodel.ExtraInfo
	err := r.db.WithContext(ctx).Order("user_id ASC").Find(&rows).Error
	return rows, err
}

func (r *UserRepository) GetExtraInfo(ctx context.Context, userID int64) (*userDatamodel.ExtraInfo, error) {
	var info userDatamodel.ExtraInfo
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&info).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &info, nil
}

func (r *UserRepository) SaveExtraInfo(ctx context.Context, info *userDatamodel.ExtraInfo) error {
	var count int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&userDatamodel.ExtraInfo{}).Where("id = ?", info.ID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return db.Create(info).Error
	}
	return db.Model(info).Select("*").Updates(info).Error
}

func (r *UserRepository) WithinTx(ctx context.Context, fn func(repo user.RepositoryAPI) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UserRepository{db: tx})
	})
}
