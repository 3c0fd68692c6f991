package postgres

import (
	"context"
	"errors"

	designationDatamodel "github.com/idlidosa1206/Fusion-System-Administrator/internal/core/datamodel/designation"
	userDatamodel "github.com/idlidosa1206/Fusion-System-Administrator/internal/core/datamodel/user"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/role"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) role.RepositoryAPI {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) GetUserByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	q := r.db.WithContext(ctx)
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var u userDatamodel.User
	if err := q.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *RoleRepository) HeldDesignations(ctx context.Context, userID int64) ([]*designationDatamodel.Designation, error) {
	db := r.db.WithContext(ctx)
	held := db.Model(&designationDatamodel.HoldsDesignation{}).Select("designation_id").Where("user_id = ?", userID)

	var ds []*designationDatamodel.Designation
	err := db.Where("id IN (?)", held).Order("name ASC").Find(&ds).Error
	return ds, err
}

func (r *RoleRepository) GetDesignationByName(ctx context.Context, name string) (*designationDatamodel.Designation, error) {
	var d designationDatamodel.Designation
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *RoleRepository) RemoveAssignments(ctx context.Context, userID int64, designationIDs []int64) (int64, error) {
	if len(designationIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND designation_id IN ?", userID, designationIDs).
		Delete(&designationDatamodel.HoldsDesignation{})
	return res.RowsAffected, res.Error
}

func (r *RoleRepository) AddAssignment(ctx context.Context, a *designationDatamodel.HoldsDesignation) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *RoleRepository) WithinTx(ctx context.Context, fn func(repo role.RepositoryAPI) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&RoleRepository{db: tx})
	})
}
