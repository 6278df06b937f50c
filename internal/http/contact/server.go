package contacthttp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"portfolio-contact/internal/domain/models"
	"portfolio-contact/internal/http/response"
	"portfolio-contact/internal/services/forms"
	"portfolio-contact/internal/services/verification"
	"portfolio-contact/internal/storage"

	"github.com/gin-gonic/gin"
)

// Contact submission flow
type ContactFlow interface {
	Submit(ctx context.Context, payload models.ContactPayload) error
	Verify(ctx context.Context, email string, code string) error
	Cancel(ctx context.Context) error
	Status() verification.Status
}

type serverAPI struct {
	log  *slog.Logger
	flow ContactFlow
}

func Register(engine *gin.Engine, log *slog.Logger, flow ContactFlow) {
	s := &serverAPI{log: log, flow: flow}

	api := engine.Group("/api/contact")
	{
		api.POST("submit", s.submit)
		api.POST("verify", s.verify)
		api.POST("cancel", s.cancel)
		api.GET("status", s.status)
	}
}

func (s *serverAPI) submit(ctx *gin.Context) {
	var raw forms.Raw

	if err := ctx.ShouldBindJSON(&raw); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "bad request")
		return
	}

	payload, marks := forms.Validate(raw)
	if !marks.Valid() {
		response.FailWithData(ctx, http.StatusUnprocessableEntity, "please fill the form correctly", marks)
		return
	}

	if err := s.flow.Submit(ctx.Request.Context(), payload); err != nil {
		if errors.Is(err, verification.DispatchFailed) {
			response.Fail(ctx, http.StatusBadGateway, "failed to send the verification email, please try again")
			return
		}

		response.Fail(ctx, http.StatusInternalServerError, "failed to start verification")
		return
	}

	response.Success(ctx, http.StatusOK, gin.H{
		"state":  s.flow.Status().State.String(),
		"fields": marks,
	})
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (s *serverAPI) verify(ctx *gin.Context) {
	var req verifyRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "bad request")
		return
	}

	err := s.flow.Verify(ctx.Request.Context(), req.Email, req.Code)
	if err != nil {
		status, msg := verifyFailure(err)
		response.Fail(ctx, status, msg)
		return
	}

	response.Success(ctx, http.StatusOK, gin.H{
		"state": s.flow.Status().State.String(),
	})
}

func (s *serverAPI) cancel(ctx *gin.Context) {
	if err := s.flow.Cancel(ctx.Request.Context()); err != nil {
		response.Fail(ctx, http.StatusInternalServerError, "failed to cancel verification")
		return
	}

	response.Success(ctx, http.StatusOK, gin.H{
		"state": s.flow.Status().State.String(),
	})
}

func (s *serverAPI) status(ctx *gin.Context) {
	st := s.flow.Status()

	var reason interface{}
	if st.Reason != nil {
		reason = st.Reason.Error()
	}

	response.Success(ctx, http.StatusOK, gin.H{
		"state":  st.State.String(),
		"reason": reason,
	})
}

// verifyFailure maps a flow sentinel to the status and message the form
// shows the visitor. Every failure here is recoverable by a new user
// action, never by an automatic retry.
func verifyFailure(err error) (int, string) {
	switch {
	case errors.Is(err, verification.EmptyEmail), errors.Is(err, verification.EmptyCode):
		return http.StatusBadRequest, "email and code are required"
	case errors.Is(err, storage.ErrChallengeNotFound):
		return http.StatusNotFound, "no active challenge, please submit the form again"
	case errors.Is(err, verification.EmailMismatch):
		return http.StatusConflict, "email mismatch, please submit the form again"
	case errors.Is(err, storage.ErrChallengeExpired):
		return http.StatusGone, "code expired, please submit the form again"
	case errors.Is(err, verification.CodeMismatch):
		return http.StatusForbidden, "invalid code, please check and try again"
	case errors.Is(err, verification.SubmissionFailed):
		return http.StatusBadGateway, "verified, but the message could not be delivered, please retry"
	default:
		return http.StatusInternalServerError, "failed to verify code"
	}
}
