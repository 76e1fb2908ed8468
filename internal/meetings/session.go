// Package meetings creates video meetings for remote lessons through a
// Zoom-style server-to-server OAuth API.
package meetings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/oakhurst/lessonbook/pkg/logging"
)

// Config holds the provider credentials.
type Config struct {
	BaseURL      string // e.g. "https://api.zoom.us/v2"
	AuthURL      string // defaults to <BaseURL host>/oauth/token when empty
	AccountID    string
	ClientID     string
	ClientSecret string
}

// Session is an authenticated meeting API client. It caches the access token
// and refreshes it on expiry; safe for concurrent use.
type Session struct {
	config Config
	client *http.Client
	logger *logging.Logger

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

// NewSession creates a meeting API session.
func NewSession(config Config, logger *logging.Logger) *Session {
	if logger == nil {
		logger = logging.Default()
	}
	return &Session{
		config: config,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// token returns a valid access token, fetching a new one when the cached one
// is missing or within a minute of expiry.
func (s *Session) token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken != "" && time.Until(s.expiresAt) > time.Minute {
		return s.accessToken, nil
	}

	authURL := s.config.AuthURL
	if authURL == "" {
		base, err := url.Parse(s.config.BaseURL)
		if err != nil {
			return "", fmt.Errorf("meetings: parse base url: %w", err)
		}
		authURL = base.Scheme + "://" + base.Host + "/oauth/token"
	}

	form := url.Values{
		"grant_type": {"account_credentials"},
		"account_id": {s.config.AccountID},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("meetings: create token request: %w", err)
	}
	req.SetBasicAuth(s.config.ClientID, s.config.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("meetings: token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("meetings: token request failed: status %d: %s", resp.StatusCode, body)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("meetings: decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("meetings: empty access token")
	}

	s.accessToken = tok.AccessToken
	s.expiresAt = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return s.accessToken, nil
}

type createMeetingRequest struct {
	Topic     string `json:"topic"`
	Type      int    `json:"type"` // 2 = scheduled meeting
	StartTime string `json:"start_time"`
	Duration  int    `json:"duration"`
	Agenda    string `json:"agenda,omitempty"`
}

type createMeetingResponse struct {
	ID      int64  `json:"id"`
	JoinURL string `json:"join_url"`
}

// CreateMeeting schedules a meeting and returns its id and join URL.
func (s *Session) CreateMeeting(ctx context.Context, topic string, start time.Time, durationMinutes int, notes string) (string, string, error) {
	token, err := s.token(ctx)
	if err != nil {
		return "", "", err
	}

	payload, err := json.Marshal(createMeetingRequest{
		Topic:     topic,
		Type:      2,
		StartTime: start.UTC().Format("2006-01-02T15:04:05Z"),
		Duration:  durationMinutes,
		Agenda:    notes,
	})
	if err != nil {
		return "", "", fmt.Errorf("meetings: marshal request: %w", err)
	}

	endpoint := s.config.BaseURL + "/users/me/meetings"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", "", fmt.Errorf("meetings: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("meetings: create meeting: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", "", fmt.Errorf("meetings: create meeting failed: status %d: %s", resp.StatusCode, body)
	}

	var created createMeetingResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", "", fmt.Errorf("meetings: decode response: %w", err)
	}

	id := fmt.Sprintf("%d", created.ID)
	s.logger.Info("meeting created", "meeting_id", id, "start", start)
	return id, created.JoinURL, nil
}

// DeleteMeeting removes a scheduled meeting. A meeting already gone on the
// provider side is treated as deleted.
func (s *Session) DeleteMeeting(ctx context.Context, id string) error {
	token, err := s.token(ctx)
	if err != nil {
		return err
	}

	endpoint := s.config.BaseURL + "/meetings/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("meetings: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("meetings: delete meeting: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK, http.StatusNotFound:
		return nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("meetings: delete meeting failed: status %d: %s", resp.StatusCode, body)
	}
}
