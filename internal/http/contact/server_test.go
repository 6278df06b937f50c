package contacthttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"portfolio-contact/internal/domain/models"
	"portfolio-contact/internal/lib/logger/handlers/slogdiscard"
	"portfolio-contact/internal/services/verification"
	"portfolio-contact/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFlow struct {
	submitErr error
	verifyErr error
	cancelErr error
	status    verification.Status

	submitted []models.ContactPayload
	verified  [][2]string
}

func (f *stubFlow) Submit(_ context.Context, payload models.ContactPayload) error {
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, payload)
	return nil
}

func (f *stubFlow) Verify(_ context.Context, email, code string) error {
	if f.verifyErr != nil {
		return f.verifyErr
	}
	f.verified = append(f.verified, [2]string{email, code})
	return nil
}

func (f *stubFlow) Cancel(_ context.Context) error {
	return f.cancelErr
}

func (f *stubFlow) Status() verification.Status {
	return f.status
}

func newTestServer(flow *stubFlow) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	Register(engine, slogdiscard.NewDiscardLogger(), flow)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	return rec
}

func TestSubmit_ValidPayload(t *testing.T) {
	flow := &stubFlow{status: verification.Status{State: verification.StateAwaitingCode}}
	engine := newTestServer(flow)

	rec := doJSON(t, engine, http.MethodPost, "/api/contact/submit",
		`{"name":" Ada ","email":"ada@example.com","message":"hi"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, flow.submitted, 1)
	assert.Equal(t, "Ada", flow.submitted[0].Name, "fields are trimmed before issuing")
	assert.Contains(t, rec.Body.String(), "awaiting_code")
}

func TestSubmit_InvalidEmailNeverReachesFlow(t *testing.T) {
	flow := &stubFlow{}
	engine := newTestServer(flow)

	rec := doJSON(t, engine, http.MethodPost, "/api/contact/submit",
		`{"name":"Ada","email":"not-an-email","message":"hi"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, flow.submitted, "validation failure must not issue a challenge")

	var body struct {
		Data map[string]string `json:"Data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalid", body.Data["email"])
	assert.Equal(t, "ok", body.Data["name"])
}

func TestSubmit_MissingFieldsAreAllMarked(t *testing.T) {
	flow := &stubFlow{}
	engine := newTestServer(flow)

	rec := doJSON(t, engine, http.MethodPost, "/api/contact/submit", `{}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Data map[string]string `json:"Data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "required", body.Data["name"])
	assert.Equal(t, "required", body.Data["email"])
	assert.Equal(t, "required", body.Data["message"])
}

func TestSubmit_DispatchFailure(t *testing.T) {
	flow := &stubFlow{submitErr: verification.DispatchFailed}
	engine := newTestServer(flow)

	rec := doJSON(t, engine, http.MethodPost, "/api/contact/submit",
		`{"name":"Ada","email":"ada@example.com","message":"hi"}`)

	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestVerify_FailureMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"no active challenge", storage.ErrChallengeNotFound, http.StatusNotFound},
		{"email mismatch", verification.EmailMismatch, http.StatusConflict},
		{"expired", storage.ErrChallengeExpired, http.StatusGone},
		{"code mismatch", verification.CodeMismatch, http.StatusForbidden},
		{"submission failed", verification.SubmissionFailed, http.StatusBadGateway},
		{"empty code", verification.EmptyCode, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow := &stubFlow{verifyErr: tt.err}
			engine := newTestServer(flow)

			rec := doJSON(t, engine, http.MethodPost, "/api/contact/verify",
				`{"email":"ada@example.com","code":"123456"}`)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestVerify_Success(t *testing.T) {
	flow := &stubFlow{status: verification.Status{State: verification.StateIdle}}
	engine := newTestServer(flow)

	rec := doJSON(t, engine, http.MethodPost, "/api/contact/verify",
		`{"email":"ada@example.com","code":" 123456 "}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, flow.verified, 1)
	assert.Equal(t, "ada@example.com", flow.verified[0][0])
}

func TestCancel(t *testing.T) {
	flow := &stubFlow{status: verification.Status{State: verification.StateIdle}}
	engine := newTestServer(flow)

	rec := doJSON(t, engine, http.MethodPost, "/api/contact/cancel", `{}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "idle")
}

func TestStatus_ReportsRejectionReason(t *testing.T) {
	flow := &stubFlow{status: verification.Status{
		State:  verification.StateAwaitingCode,
		Reason: verification.CodeMismatch,
	}}
	engine := newTestServer(flow)

	rec := doJSON(t, engine, http.MethodGet, "/api/contact/status", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "awaiting_code")
	assert.Contains(t, rec.Body.String(), "codes are different")
}
