package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"adinsights/internal/domain/apperr"
	"adinsights/internal/domain/entity"
)

type fakeLeadUsecase struct {
	ingest      func(sub *entity.LeadSubmission) (string, error)
	submissions []entity.LeadSubmission
}

func (f *fakeLeadUsecase) Ingest(_ context.Context, sub *entity.LeadSubmission) (string, error) {
	f.submissions = append(f.submissions, *sub)
	return f.ingest(sub)
}

func (f *fakeLeadUsecase) ListLeads(context.Context, string) ([]entity.Lead, error) {
	return nil, nil
}

func (f *fakeLeadUsecase) AddRemark(context.Context, string, string, string) (*entity.LeadRemark, error) {
	return nil, nil
}

func (f *fakeLeadUsecase) ListRemarks(context.Context, string, string) ([]entity.LeadRemark, error) {
	return nil, nil
}

func newWebhookApp(uc *fakeLeadUsecase) *fiber.App {
	app := fiber.New()
	h := NewWebhookHandler(uc, zap.NewNop())
	app.Post("/webhook/form", h.FormSubmission)
	return app
}

func postForm(t *testing.T, app *fiber.App, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook/form", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp, decoded
}

func TestFormSubmissionUnknownForm(t *testing.T) {
	uc := &fakeLeadUsecase{
		ingest: func(*entity.LeadSubmission) (string, error) {
			return "", &apperr.NotFoundError{Resource: "Form"}
		},
	}
	app := newWebhookApp(uc)

	resp, body := postForm(t, app, `{"formId":"nope","formData":{"email":"a@b.test"}}`)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Form not found", body["error"])
}

func TestFormSubmissionSuccessReturnsLeadID(t *testing.T) {
	uc := &fakeLeadUsecase{
		ingest: func(*entity.LeadSubmission) (string, error) {
			return "lead-123", nil
		},
	}
	app := newWebhookApp(uc)

	resp, body := postForm(t, app, `{"formId":"form-abc","formData":{"email":"a@b.test"},"websiteUrl":"https://example.com"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "lead-123", body["leadId"])

	require.Len(t, uc.submissions, 1)
	assert.Equal(t, "form-abc", uc.submissions[0].FormID)
	assert.Equal(t, "a@b.test", uc.submissions[0].FormData["email"])
}

func TestFormSubmissionStorageFailureStaysGeneric(t *testing.T) {
	uc := &fakeLeadUsecase{
		ingest: func(*entity.LeadSubmission) (string, error) {
			return "", &apperr.StorageError{Op: "insert lead", Err: fmt.Errorf("pq: connection refused")}
		},
	}
	app := newWebhookApp(uc)

	resp, body := postForm(t, app, `{"formId":"form-abc","formData":{}}`)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to save lead", body["error"])
	// Storage details never reach the unauthenticated caller.
	assert.NotContains(t, fmt.Sprint(body), "pq:")
}

func TestFormSubmissionMalformedBody(t *testing.T) {
	uc := &fakeLeadUsecase{
		ingest: func(*entity.LeadSubmission) (string, error) {
			t.Fatal("ingest must not be called for a malformed body")
			return "", nil
		},
	}
	app := newWebhookApp(uc)

	resp, body := postForm(t, app, `{"formId":`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid request body", body["error"])
}
