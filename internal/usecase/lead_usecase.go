package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"adinsights/internal/domain/apperr"
	"adinsights/internal/domain/entity"
	"adinsights/internal/domain/repository"
)

type LeadUsecase interface {
	// Ingest turns a raw webhook submission into a lead row and returns the
	// new lead id. Deliberately not idempotent: the same payload twice makes
	// two rows.
	Ingest(ctx context.Context, sub *entity.LeadSubmission) (string, error)

	// ListLeads returns the user's leads, newest first.
	ListLeads(ctx context.Context, userID string) ([]entity.Lead, error)

	// AddRemark attaches a note to one of the user's leads.
	AddRemark(ctx context.Context, userID, leadID, remark string) (*entity.LeadRemark, error)

	// ListRemarks returns the notes on one of the user's leads.
	ListRemarks(ctx context.Context, userID, leadID string) ([]entity.LeadRemark, error)
}

type leadUsecase struct {
	forms  repository.FormRepository
	leads  repository.LeadRepository
	logger *zap.Logger
}

func NewLeadUsecase(forms repository.FormRepository, leads repository.LeadRepository, logger *zap.Logger) LeadUsecase {
	return &leadUsecase{
		forms:  forms,
		leads:  leads,
		logger: logger,
	}
}

func (u *leadUsecase) Ingest(ctx context.Context, sub *entity.LeadSubmission) (string, error) {
	if sub.FormID == "" {
		return "", &apperr.NotFoundError{Resource: "Form"}
	}

	form, err := u.forms.FindByID(ctx, sub.FormID)
	if err != nil {
		return "", err
	}
	if form == nil {
		// Unknown form id is a client error, not a system failure.
		return "", &apperr.NotFoundError{Resource: "Form"}
	}

	lead := &entity.Lead{
		ID:      uuid.NewString(),
		UserID:  form.UserID,
		FormID:  form.FormID,
		Source:  entity.LeadSourceWebsiteForm,
		RawData: sub.FormData,
	}
	if lead.RawData == nil {
		lead.RawData = map[string]string{}
	}

	// Typed fields are populated only where a mapping exists and the source
	// field arrived non-empty; everything else lives on in RawData.
	for _, mapping := range form.FieldMappings {
		if mapping.LeadField == "" || mapping.LeadField == entity.LeadFieldNone {
			continue
		}
		value := sub.FormData[mapping.WebsiteField]
		if value == "" {
			continue
		}
		lead.SetField(mapping.LeadField, value)
	}

	if err := u.leads.Create(ctx, lead); err != nil {
		return "", err
	}

	u.logger.Info("Lead ingested",
		zap.String("lead_id", lead.ID),
		zap.String("form_id", form.FormID),
		zap.String("user_id", form.UserID),
	)

	return lead.ID, nil
}

func (u *leadUsecase) ListLeads(ctx context.Context, userID string) ([]entity.Lead, error) {
	return u.leads.ListByUser(ctx, userID)
}

func (u *leadUsecase) AddRemark(ctx context.Context, userID, leadID, remark string) (*entity.LeadRemark, error) {
	if remark == "" {
		return nil, fmt.Errorf("remark is required")
	}

	if err := u.ownedLead(ctx, userID, leadID); err != nil {
		return nil, err
	}

	rem := &entity.LeadRemark{
		ID:     uuid.NewString(),
		LeadID: leadID,
		UserID: userID,
		Remark: remark,
	}

	if err := u.leads.AddRemark(ctx, rem); err != nil {
		return nil, err
	}

	return rem, nil
}

func (u *leadUsecase) ListRemarks(ctx context.Context, userID, leadID string) ([]entity.LeadRemark, error) {
	if err := u.ownedLead(ctx, userID, leadID); err != nil {
		return nil, err
	}

	return u.leads.ListRemarks(ctx, leadID)
}

// ownedLead hides other users' leads behind the same 404 as missing ones.
func (u *leadUsecase) ownedLead(ctx context.Context, userID, leadID string) error {
	lead, err := u.leads.FindByID(ctx, leadID)
	if err != nil {
		return err
	}
	if lead == nil || lead.UserID != userID {
		return &apperr.NotFoundError{Resource: "Lead"}
	}
	return nil
}
