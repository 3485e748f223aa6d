package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"adinsights/internal/domain/apperr"
	"adinsights/internal/domain/entity"
	"adinsights/internal/domain/repository"
	"adinsights/internal/infrastructure/database"
)

type formRepository struct {
	db *database.Database
}

func NewFormRepository(db *database.Database) repository.FormRepository {
	return &formRepository{
		db: db,
	}
}

func (r *formRepository) FindByID(ctx context.Context, formID string) (*entity.FormMapping, error) {
	query := `
		SELECT form_id, user_id, website_url, field_mappings, created_at
		FROM connected_forms
		WHERE form_id = $1
	`

	var form entity.FormMapping
	var mappingsJSON []byte

	err := r.db.DB.QueryRowContext(ctx, query, formID).Scan(
		&form.FormID,
		&form.UserID,
		&form.WebsiteURL,
		&mappingsJSON,
		&form.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil // Unknown form id is a normal empty result
	}
	if err != nil {
		return nil, &apperr.StorageError{Op: "find form", Err: err}
	}

	if err := json.Unmarshal(mappingsJSON, &form.FieldMappings); err != nil {
		return nil, &apperr.StorageError{Op: "decode field mappings", Err: err}
	}

	return &form, nil
}
