package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Nuccino92/food-helper/pkg/quota"
)

const defaultTimeout = 10 * time.Second

// FeedbackResult is the outcome of a feedback submission.
type FeedbackResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	NewRemaining int64  `json:"newRemaining"`
}

// Mirror is a local copy of a caller's quota state. All methods are safe
// for concurrent use.
type Mirror struct {
	baseURL     string
	httpClient  *http.Client
	fingerprint string

	mu        sync.Mutex
	status    *quota.StatusResponse
	isLimited bool
	showModal bool
	lastErr   *quota.LimitError
}

// Options configures a Mirror.
type Options struct {
	// BaseURL is the API root, e.g. "http://localhost:8080/api".
	BaseURL string

	// HTTPClient defaults to a client with a short timeout.
	HTTPClient *http.Client

	// FingerprintPath overrides where the fingerprint is persisted.
	FingerprintPath string
}

// New creates a Mirror, loading or minting the persistent fingerprint.
func New(opts Options) (*Mirror, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	path := opts.FingerprintPath
	if path == "" {
		path = defaultFingerprintPath()
	}
	fingerprint, err := loadOrCreateFingerprint(path)
	if err != nil {
		return nil, err
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &Mirror{
		baseURL:     strings.TrimSuffix(opts.BaseURL, "/"),
		httpClient:  httpClient,
		fingerprint: fingerprint,
	}, nil
}

// Fingerprint returns the persistent caller fingerprint.
func (m *Mirror) Fingerprint() string {
	return m.fingerprint
}

// Headers returns the headers to attach to chat requests.
func (m *Mirror) Headers() map[string]string {
	return map[string]string{"x-fingerprint": m.fingerprint}
}

// FetchStatus refreshes the mirror from the status endpoint.
func (m *Mirror) FetchStatus(ctx context.Context) (*quota.StatusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+"/rate-limit/status", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-fingerprint", m.fingerprint)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status fetch failed: %s", resp.Status)
	}

	var status quota.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = &status
	m.isLimited = status.Remaining <= 0
	return &status, nil
}

// HandleLimitError feeds a typed 429 body into the mirror. Token
// rejections carry the authoritative remaining count, so the local
// status is pushed to match without another fetch. Burst rejections
// carry no budget information and leave the status untouched.
func (m *Mirror) HandleLimitError(limitErr *quota.LimitError) {
	if limitErr == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastErr = limitErr
	m.isLimited = true
	m.showModal = true

	if limitErr.Type == quota.LimitTypeTokens && m.status != nil {
		if limitErr.Remaining != nil {
			m.status.Remaining = *limitErr.Remaining
		} else {
			m.status.Remaining = 0
		}
		m.status.Reset = limitErr.Reset
	}
}

// SubmitFeedback posts a score and applies any granted bonus to the
// mirror. The modal closes only when the grant leaves the caller with
// tokens to spend.
func (m *Mirror) SubmitFeedback(ctx context.Context, score int) (FeedbackResult, error) {
	body, err := json.Marshal(map[string]int{"score": score})
	if err != nil {
		return FeedbackResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/rate-limit/feedback", bytes.NewReader(body))
	if err != nil {
		return FeedbackResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-fingerprint", m.fingerprint)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return FeedbackResult{}, err
	}
	defer resp.Body.Close()

	var result FeedbackResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return FeedbackResult{}, err
	}

	if result.Success {
		m.mu.Lock()
		if m.status != nil {
			m.status.Remaining = result.NewRemaining
			m.status.CanProvideFeedback = false
		}
		m.isLimited = result.NewRemaining <= 0
		if result.NewRemaining > 0 {
			m.showModal = false
		}
		m.mu.Unlock()
	}

	return result, nil
}

// CloseModal dismisses the quota modal.
func (m *Mirror) CloseModal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.showModal = false
}

// ClearError drops the last recorded limit error.
func (m *Mirror) ClearError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastErr = nil
}

// Status returns a copy of the last known status, or nil before the
// first fetch.
func (m *Mirror) Status() *quota.StatusResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status == nil {
		return nil
	}
	s := *m.status
	return &s
}

// IsLimited reports whether the caller is currently out of quota.
func (m *Mirror) IsLimited() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isLimited
}

// ShowModal reports whether the quota modal should be visible.
func (m *Mirror) ShowModal() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.showModal
}

// LastError returns the most recent limit error, or nil.
func (m *Mirror) LastError() *quota.LimitError {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}
