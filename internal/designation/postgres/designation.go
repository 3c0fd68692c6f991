package postgres

import (
	"context"
	"errors"

	designationDatamodel "github.com/idlidosa1206/Fusion-System-Administrator/internal/core/datamodel/designation"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/designation"
	"gorm.io/gorm"
)

type DesignationRepository struct {
	db *gorm.DB
}

func NewDesignationRepository(db *gorm.DB) designation.RepositoryAPI {
	return &DesignationRepository{db: db}
}

func (r *DesignationRepository) List(ctx context.Context) ([]*designationDatamodel.Designation, error) {
	var ds []*designationDatamodel.Designation
	err := r.db.WithContext(ctx).Order("name ASC").Find(&ds).Error
	return ds, err
}

func (r *DesignationRepository) GetByName(ctx context.Context, name string) (*designationDatamodel.Designation, error) {
	var d designationDatamodel.Designation
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *DesignationRepository) Create(ctx context.Context, d *designationDatamodel.Designation) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DesignationRepository) Update(ctx context.Context, d *designationDatamodel.Designation) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *DesignationRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&designationDatamodel.Designation{}).Error
}

func (r *DesignationRepository) DeleteAssignments(ctx context.Context, designationID int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("designation_id = ?", designationID).Delete(&designationDatamodel.HoldsDesignation{})
	return res.RowsAffected, res.Error
}

func (r *DesignationRepository) GetModuleAccess(ctx context.Context, name string) (*designationDatamodel.ModuleAccess, error) {
	var m designationDatamodel.ModuleAccess
	err := r.db.WithContext(ctx).Where("designation = ?", name).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// SaveModuleAccess inserts when m has no id, otherwise rewrites every flag.
func (r *DesignationRepository) SaveModuleAccess(ctx context.Context, m *designationDatamodel.ModuleAccess) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *DesignationRepository) DeleteModuleAccess(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).Where("designation = ?", name).Delete(&designationDatamodel.ModuleAccess{}).Error
}

func (r *DesignationRepository) WithinTx(ctx context.Context, fn func(repo designation.RepositoryAPI) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&DesignationRepository{db: tx})
	})
}
