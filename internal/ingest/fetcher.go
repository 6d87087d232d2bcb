package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bashkirian/cutline-analytics/pkg/models"
)

// ErrNoFeed is returned when no feed endpoint is configured at all.
var ErrNoFeed = errors.New("no feed url configured")

// Acquisition is the two-branch result of trying to obtain a session's
// events: either the real feed delivered, or the deterministic synthetic
// fallback was substituted and Reason records why.
type Acquisition struct {
	Events    []models.DetectionEvent
	Synthetic bool
	Reason    string
}

// Fetcher pulls the detection feed over HTTP and validates it.
type Fetcher struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

func NewFetcher(url string, timeout time.Duration, log *zap.Logger) *Fetcher {
	return &Fetcher{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Acquire obtains the event set for a new session. Any feed failure is
// non-fatal: the synthetic generator seeded with the session id takes over
// and no error escapes the acquisition boundary.
func (f *Fetcher) Acquire(ctx context.Context, sessionID string) Acquisition {
	events, err := f.FetchEvents(ctx)
	if err != nil {
		f.log.Warn("feed unavailable, generating synthetic session",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return Acquisition{
			Events:    GenerateSyntheticEvents(sessionID),
			Synthetic: true,
			Reason:    err.Error(),
		}
	}
	return Acquisition{Events: events}
}

// FetchEvents retrieves and validates the raw feed. It errors when the feed
// is unreachable, non-2xx, structurally malformed, or yields no valid event.
func (f *Fetcher) FetchEvents(ctx context.Context) ([]models.DetectionEvent, error) {
	if f.url == "" {
		return nil, ErrNoFeed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feed fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("feed fetch: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("feed fetch: %w", err)
	}

	records, err := decodeFeed(body)
	if err != nil {
		return nil, err
	}

	events := ValidateRecords(records)
	if len(events) == 0 {
		return nil, errors.New("feed contained no valid events")
	}
	return events, nil
}

// decodeFeed accepts either a bare JSON array of records or a document
// wrapping one under an "events" key.
func decodeFeed(body []byte) ([]map[string]interface{}, error) {
	var records []map[string]interface{}
	if err := json.Unmarshal(body, &records); err == nil {
		return records, nil
	}

	var doc struct {
		Events []map[string]interface{} `json:"events"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("feed payload is not an event list: %w", err)
	}
	if doc.Events == nil {
		return nil, errors.New("feed payload is not an event list")
	}
	return doc.Events, nil
}
