package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/idlidosa1206/Fusion-System-Administrator/internal/bulk"
)

const exportQuery = `SELECT username, first_name, last_name, email, is_staff, is_superuser FROM auth_user ORDER BY id`

// ExportRepository reads auth_user row by row so large tables never sit in memory.
type ExportRepository struct {
	db *sqlx.DB
}

func NewExportRepository(db *sqlx.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

func (r *ExportRepository) EachUser(ctx context.Context, fn func(bulk.ExportRow) error) error {
	rows, err := r.db.QueryxContext(ctx, exportQuery)
	if err != nil {
		return fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row bulk.ExportRow
		if err := rows.StructScan(&row); err != nil {
			return fmt.Errorf("scan user: %w", err)
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return rows.Err()
}
