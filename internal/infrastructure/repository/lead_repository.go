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

type leadRepository struct {
	db *database.Database
}

func NewLeadRepository(db *database.Database) repository.LeadRepository {
	return &leadRepository{
		db: db,
	}
}

func (r *leadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	rawJSON, err := json.Marshal(lead.RawData)
	if err != nil {
		return &apperr.StorageError{Op: "encode raw data", Err: err}
	}

	query := `
		INSERT INTO leads (id, user_id, form_id, source, raw_data, email, name, phone, company, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.db.DB.ExecContext(ctx, query,
		lead.ID,
		lead.UserID,
		lead.FormID,
		lead.Source,
		rawJSON,
		lead.Email,
		lead.Name,
		lead.Phone,
		lead.Company,
		lead.Message,
	)
	if err != nil {
		return &apperr.StorageError{Op: "create lead", Err: err}
	}

	return nil
}

func (r *leadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `
		SELECT id, user_id, form_id, source, raw_data, email, name, phone, company, message, created_at
		FROM leads
		WHERE id = $1
	`

	lead, err := scanLead(r.db.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &apperr.StorageError{Op: "find lead", Err: err}
	}

	return lead, nil
}

func (r *leadRepository) ListByUser(ctx context.Context, userID string) ([]entity.Lead, error) {
	query := `
		SELECT id, user_id, form_id, source, raw_data, email, name, phone, company, message, created_at
		FROM leads
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, &apperr.StorageError{Op: "list leads", Err: err}
	}
	defer rows.Close()

	var leads []entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, &apperr.StorageError{Op: "scan lead", Err: err}
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperr.StorageError{Op: "list leads", Err: err}
	}

	return leads, nil
}

func (r *leadRepository) AddRemark(ctx context.Context, remark *entity.LeadRemark) error {
	query := `
		INSERT INTO lead_remarks (id, lead_id, user_id, remark)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.DB.ExecContext(ctx, query, remark.ID, remark.LeadID, remark.UserID, remark.Remark)
	if err != nil {
		return &apperr.StorageError{Op: "add remark", Err: err}
	}

	return nil
}

func (r *leadRepository) ListRemarks(ctx context.Context, leadID string) ([]entity.LeadRemark, error) {
	query := `
		SELECT id, lead_id, user_id, remark, created_at
		FROM lead_remarks
		WHERE lead_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.DB.QueryContext(ctx, query, leadID)
	if err != nil {
		return nil, &apperr.StorageError{Op: "list remarks", Err: err}
	}
	defer rows.Close()

	var remarks []entity.LeadRemark
	for rows.Next() {
		var rem entity.LeadRemark
		if err := rows.Scan(&rem.ID, &rem.LeadID, &rem.UserID, &rem.Remark, &rem.CreatedAt); err != nil {
			return nil, &apperr.StorageError{Op: "scan remark", Err: err}
		}
		remarks = append(remarks, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperr.StorageError{Op: "list remarks", Err: err}
	}

	return remarks, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var lead entity.Lead
	var rawJSON []byte

	err := row.Scan(
		&lead.ID,
		&lead.UserID,
		&lead.FormID,
		&lead.Source,
		&rawJSON,
		&lead.Email,
		&lead.Name,
		&lead.Phone,
		&lead.Company,
		&lead.Message,
		&lead.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(rawJSON, &lead.RawData); err != nil {
		return nil, err
	}

	return &lead, nil
}
