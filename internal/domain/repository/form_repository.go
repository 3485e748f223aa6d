package repository

import (
	"context"

	"adinsights/internal/domain/entity"
)

type FormRepository interface {
	// FindByID returns the form mapping for a form id, or (nil, nil) when the
	// id is unknown.
	FindByID(ctx context.Context, formID string) (*entity.FormMapping, error)
}
