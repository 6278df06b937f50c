package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"portfolio-contact/internal/domain/models"
	"portfolio-contact/internal/lib/logger/sl"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const contactPath = "/api/contact"

// Client forwards verified contact payloads to the backend
// message-ingestion endpoint.
type Client struct {
	log        *slog.Logger
	baseURL    string
	httpClient *http.Client
}

func New(log *slog.Logger, baseURL string, timeout time.Duration) *Client {
	return &Client{
		log:        log,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Forward posts payload to the backend. Any non-error HTTP response counts
// as delivered; error responses surface the backend's own text.
func (c *Client) Forward(ctx context.Context, payload models.ContactPayload) error {
	const op = "ingest.Forward"

	log := c.log.With(
		slog.String("op", op),
	)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+contactPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("failed to reach backend", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		log.Error("backend rejected submission",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(text)),
		)

		return fmt.Errorf("%s: backend responded %d: %s", op, resp.StatusCode, strings.TrimSpace(string(text)))
	}

	return nil
}
