package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"portfolio-contact/internal/domain/models"
	"portfolio-contact/internal/lib/logger/sl"
	"portfolio-contact/internal/lib/passcode"
	"portfolio-contact/internal/storage"

	"github.com/google/uuid"
)

type ChallengeSaver interface {
	SaveChallenge(ctx context.Context, ch models.Challenge) error
}

type ChallengeProvider interface {
	Challenge(ctx context.Context) (models.Challenge, error)
}

type ChallengeDeleter interface {
	DeleteChallenge(ctx context.Context) error
}

type CodeSender interface {
	SendPasscode(to string, passcode string, expiresAtText string, name string) error
}

type MessageForwarder interface {
	Forward(ctx context.Context, payload models.ContactPayload) error
}

var (
	EmptyEmail       = errors.New("empty email")
	EmptyCode        = errors.New("empty code")
	EmailMismatch    = errors.New("email differs from the challenged address")
	CodeMismatch     = errors.New("codes are different")
	DispatchFailed   = errors.New("failed to send the passcode email")
	SubmissionFailed = errors.New("failed to forward the message")
)

// State is the position of the submission flow. Rejections are transient:
// a failed verification attempt records its reason and lands back in
// StateAwaitingCode so the visitor can retry or resubmit.
type State int

const (
	StateIdle State = iota
	StateDispatching
	StateAwaitingCode
	StateVerifying
	StateVerified
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDispatching:
		return "dispatching"
	case StateAwaitingCode:
		return "awaiting_code"
	case StateVerifying:
		return "verifying"
	case StateVerified:
		return "verified"
	default:
		return "unknown"
	}
}

// Status is the UI-facing view of the flow: where it is, plus the reason
// for the last rejected attempt, if any.
type Status struct {
	State  State
	Reason error
}

// Flow owns the challenge lifecycle: issue on submit, gate on verify,
// forward on success. The store holds at most one challenge, so a new
// Submit always supersedes the previous one. HTTP handlers run
// concurrently, so the single-writer invariant the browser form got by
// construction is enforced here with one mutex.
type Flow struct {
	log               *slog.Logger
	challengeSaver    ChallengeSaver
	challengeProvider ChallengeProvider
	challengeDeleter  ChallengeDeleter
	codeSender        CodeSender
	forwarder         MessageForwarder
	codeTTL           time.Duration
	clearOnCancel     bool
	now               func() time.Time

	mu       sync.Mutex
	state    State
	reason   error
	pending  *models.ContactPayload
	verified *models.ContactPayload
}

func New(
	log *slog.Logger,
	challengeSaver ChallengeSaver,
	challengeProvider ChallengeProvider,
	challengeDeleter ChallengeDeleter,
	codeSender CodeSender,
	forwarder MessageForwarder,
	codeTTL time.Duration,
	clearOnCancel bool,
) *Flow {
	return &Flow{
		log:               log,
		challengeSaver:    challengeSaver,
		challengeProvider: challengeProvider,
		challengeDeleter:  challengeDeleter,
		codeSender:        codeSender,
		forwarder:         forwarder,
		codeTTL:           codeTTL,
		clearOnCancel:     clearOnCancel,
		now:               time.Now,
		state:             StateIdle,
	}
}

// Submit issues a fresh challenge for payload: a 6-digit code bound to
// payload.Email, stored with a deadline and emailed to the visitor. Any
// previously stored challenge is replaced, so only the newest code can
// ever verify. If the email cannot be sent the stored challenge is
// removed again and the flow returns to idle.
func (f *Flow) Submit(ctx context.Context, payload models.ContactPayload) error {
	const op = "Verification.Submit"

	log := f.log.With(
		slog.String("op", op),
		slog.String("email", payload.Email),
	)

	if payload.Email == "" {
		log.Error("empty email")

		return fmt.Errorf("%s: %w", op, EmptyEmail)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.state = StateDispatching
	f.reason = nil

	code, err := passcode.Generate()
	if err != nil {
		log.Error("failed to generate passcode", sl.Err(err))
		f.state = StateIdle

		return fmt.Errorf("%s: %w", op, err)
	}

	ch := models.Challenge{
		ID:         uuid.NewString(),
		Code:       code,
		BoundEmail: payload.Email,
		Payload:    payload,
		ExpiresAt:  f.now().Add(f.codeTTL),
	}

	if err := f.challengeSaver.SaveChallenge(ctx, ch); err != nil {
		log.Error("failed to save challenge", sl.Err(err))
		f.state = StateIdle

		return fmt.Errorf("%s: %w", op, err)
	}

	name := payload.Name
	if name == "" {
		name = "there"
	}

	if err := f.codeSender.SendPasscode(payload.Email, code, ch.ExpiresAt.Format("03:04 PM"), name); err != nil {
		log.Error("failed to send passcode email", sl.Err(err))

		// no unsent code may stay active
		if derr := f.challengeDeleter.DeleteChallenge(ctx); derr != nil {
			log.Error("failed to remove unsent challenge", sl.Err(derr))
		}

		f.state = StateIdle

		return fmt.Errorf("%s: %w: %v", op, DispatchFailed, err)
	}

	payloadCopy := payload
	f.pending = &payloadCopy
	f.state = StateAwaitingCode

	log.Info("challenge issued", slog.String("challenge_id", ch.ID))

	return nil
}

// Verify gates the submission on the stored challenge. Checks run in
// order, first failure wins: record present, address match, not expired
// (expiry deletes the stale record), code match. When all pass, the
// payload captured at issuance is forwarded to the backend. Calling
// Verify while already verified skips the checks and just retries the
// forward.
func (f *Flow) Verify(ctx context.Context, email string, code string) error {
	const op = "Verification.Verify"

	log := f.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateVerified {
		return f.forward(ctx, op, log)
	}

	if email == "" {
		log.Error("empty email")

		return fmt.Errorf("%s: %w", op, EmptyEmail)
	}

	if strings.TrimSpace(code) == "" {
		log.Error("empty code")

		return fmt.Errorf("%s: %w", op, EmptyCode)
	}

	f.state = StateVerifying
	f.reason = nil

	ch, err := f.challengeProvider.Challenge(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrChallengeNotFound) {
			return f.reject(op, log, storage.ErrChallengeNotFound)
		}

		log.Error("failed to fetch challenge", sl.Err(err))
		f.state = StateAwaitingCode

		return fmt.Errorf("%s: %w", op, err)
	}

	if ch.BoundEmail != email {
		return f.reject(op, log, EmailMismatch)
	}

	if f.now().After(ch.ExpiresAt) {
		if derr := f.challengeDeleter.DeleteChallenge(ctx); derr != nil {
			log.Error("failed to remove expired challenge", sl.Err(derr))
		}

		return f.reject(op, log, storage.ErrChallengeExpired)
	}

	if strings.TrimSpace(code) != ch.Code {
		return f.reject(op, log, CodeMismatch)
	}

	payload := ch.Payload
	f.verified = &payload
	f.state = StateVerified

	log.Info("challenge verified", slog.String("challenge_id", ch.ID))

	return f.forward(ctx, op, log)
}

// Cancel dismisses the verification prompt: the flow returns to idle and
// the pending payload reference is dropped. Whether the persisted
// challenge is deleted as well is configurable; by default it is left to
// expire or be overwritten.
func (f *Flow) Cancel(ctx context.Context) error {
	const op = "Verification.Cancel"

	log := f.log.With(
		slog.String("op", op),
	)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.pending = nil
	f.verified = nil
	f.reason = nil
	f.state = StateIdle

	log.Info("verification cancelled")

	if f.clearOnCancel {
		if err := f.challengeDeleter.DeleteChallenge(ctx); err != nil {
			log.Error("failed to remove cancelled challenge", sl.Err(err))

			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

func (f *Flow) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()

	return Status{State: f.state, Reason: f.reason}
}

// reject records the reason and puts the flow back into AwaitingCode so
// the visitor may retry; the caller decides what to tell the user.
func (f *Flow) reject(op string, log *slog.Logger, reason error) error {
	log.Warn("verification rejected", sl.Err(reason))

	f.reason = reason
	f.state = StateAwaitingCode

	return fmt.Errorf("%s: %w", op, reason)
}

// forward hands the verified payload to the backend. On failure the flow
// stays verified and the challenge is kept, so the visitor can retry the
// delivery without repeating the email proof. The mutex is held.
func (f *Flow) forward(ctx context.Context, op string, log *slog.Logger) error {
	if f.verified == nil {
		return fmt.Errorf("%s: %w", op, storage.ErrChallengeNotFound)
	}

	if err := f.forwarder.Forward(ctx, *f.verified); err != nil {
		log.Error("failed to forward submission", sl.Err(err))

		return fmt.Errorf("%s: %w: %v", op, SubmissionFailed, err)
	}

	if err := f.challengeDeleter.DeleteChallenge(ctx); err != nil {
		// delivered; a leftover record is only superseded on the next issue
		log.Error("failed to clear challenge after delivery", sl.Err(err))
	}

	f.pending = nil
	f.verified = nil
	f.reason = nil
	f.state = StateIdle

	log.Info("submission forwarded")

	return nil
}
