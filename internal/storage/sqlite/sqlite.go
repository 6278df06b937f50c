package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"portfolio-contact/internal/domain/models"
	"portfolio-contact/internal/storage"

	_ "github.com/mattn/go-sqlite3"
)

// challengeSlot names the single record that may hold a pending challenge.
// Every save replaces it, so at most one challenge is active at a time.
const challengeSlot = "contact"

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.sqlite.New"

	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Stop() error {
	return s.db.Close()
}

// SaveChallenge writes ch into the challenge slot, unconditionally
// replacing any record already there.
func (s *Storage) SaveChallenge(ctx context.Context, ch models.Challenge) error {
	const op = "storage.sqlite.SaveChallenge"

	stmt, err := s.db.Prepare(`
		INSERT OR REPLACE INTO challenges
			(slot, id, code, bound_email, name, email, phone, subject, message, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx,
		challengeSlot,
		ch.ID,
		ch.Code,
		ch.BoundEmail,
		ch.Payload.Name,
		ch.Payload.Email,
		ch.Payload.Phone,
		ch.Payload.Subject,
		ch.Payload.Message,
		ch.ExpiresAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Challenge returns the pending challenge, or storage.ErrChallengeNotFound
// when the slot is empty.
func (s *Storage) Challenge(ctx context.Context) (models.Challenge, error) {
	const op = "storage.sqlite.Challenge"

	stmt, err := s.db.Prepare(`
		SELECT id, code, bound_email, name, email, phone, subject, message, expires_at
		FROM challenges WHERE slot = ?`)
	if err != nil {
		return models.Challenge{}, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	var ch models.Challenge
	var expiresAt int64

	row := stmt.QueryRowContext(ctx, challengeSlot)
	err = row.Scan(
		&ch.ID,
		&ch.Code,
		&ch.BoundEmail,
		&ch.Payload.Name,
		&ch.Payload.Email,
		&ch.Payload.Phone,
		&ch.Payload.Subject,
		&ch.Payload.Message,
		&expiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Challenge{}, fmt.Errorf("%s: %w", op, storage.ErrChallengeNotFound)
		}

		return models.Challenge{}, fmt.Errorf("%s: %w", op, err)
	}

	ch.ExpiresAt = time.UnixMilli(expiresAt)

	return ch, nil
}

// DeleteChallenge empties the challenge slot. Deleting an already empty
// slot is not an error.
func (s *Storage) DeleteChallenge(ctx context.Context) error {
	const op = "storage.sqlite.DeleteChallenge"

	stmt, err := s.db.Prepare("DELETE FROM challenges WHERE slot = ?")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, challengeSlot); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
