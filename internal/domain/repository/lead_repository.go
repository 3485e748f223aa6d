package repository

import (
	"context"

	"adinsights/internal/domain/entity"
)

type LeadRepository interface {
	// Create persists a new lead. Leads are intentionally never deduplicated;
	// two identical submissions produce two rows.
	Create(ctx context.Context, lead *entity.Lead) error

	// FindByID returns a lead, or (nil, nil) when the id is unknown.
	FindByID(ctx context.Context, id string) (*entity.Lead, error)

	// ListByUser returns the user's leads, newest first.
	ListByUser(ctx context.Context, userID string) ([]entity.Lead, error)

	// AddRemark attaches a remark to a lead.
	AddRemark(ctx context.Context, remark *entity.LeadRemark) error

	// ListRemarks returns remarks for a lead, oldest first.
	ListRemarks(ctx context.Context, leadID string) ([]entity.LeadRemark, error)
}
