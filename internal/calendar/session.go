// Package calendar mirrors appointments into the owner's calendar through a
// Google Calendar style REST API.
package calendar

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

// Config holds the calendar provider credentials.
type Config struct {
	BaseURL      string // e.g. "https://www.googleapis.com/calendar/v3"
	TokenURL     string // defaults to the Google token endpoint when empty
	CalendarID   string // e.g. "primary"
	ClientID     string
	ClientSecret string
	RefreshToken string
}

const defaultTokenURL = "https://oauth2.googleapis.com/token"

// Session is an authenticated calendar API client backed by an OAuth refresh
// token. Safe for concurrent use.
type Session struct {
	config Config
	client *http.Client
	logger *logging.Logger

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

// NewSession creates a calendar API session.
func NewSession(config Config, logger *logging.Logger) *Session {
	if logger == nil {
		logger = logging.Default()
	}
	if config.TokenURL == "" {
		config.TokenURL = defaultTokenURL
	}
	if config.CalendarID == "" {
		config.CalendarID = "primary"
	}
	return &Session{
		config: config,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (s *Session) token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken != "" && time.Until(s.expiresAt) > time.Minute {
		return s.accessToken, nil
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {s.config.RefreshToken},
		"client_id":     {s.config.ClientID},
		"client_secret": {s.config.ClientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("calendar: create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calendar: token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("calendar: token request failed: status %d: %s", resp.StatusCode, body)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("calendar: decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("calendar: empty access token")
	}

	s.accessToken = tok.AccessToken
	s.expiresAt = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return s.accessToken, nil
}

type eventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone,omitempty"`
}

type event struct {
	ID          string    `json:"id,omitempty"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Start       eventTime `json:"start"`
	End         eventTime `json:"end"`
}

// CreateEvent inserts an event and returns its id.
func (s *Session) CreateEvent(ctx context.Context, title, description string, start, end time.Time, location string) (string, error) {
	token, err := s.token(ctx)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(event{
		Summary:     title,
		Description: description,
		Location:    location,
		Start:       eventTime{DateTime: start.Format(time.RFC3339)},
		End:         eventTime{DateTime: end.Format(time.RFC3339)},
	})
	if err != nil {
		return "", fmt.Errorf("calendar: marshal event: %w", err)
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events", s.config.BaseURL, url.PathEscape(s.config.CalendarID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("calendar: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calendar: create event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("calendar: create event failed: status %d: %s", resp.StatusCode, body)
	}

	var created event
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("calendar: decode response: %w", err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("calendar: event response missing id")
	}

	s.logger.Info("calendar event created", "event_id", created.ID, "start", start)
	return created.ID, nil
}

// DeleteEvent removes an event. An event already gone is treated as deleted.
func (s *Session) DeleteEvent(ctx context.Context, id string) error {
	token, err := s.token(ctx)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events/%s",
		s.config.BaseURL, url.PathEscape(s.config.CalendarID), url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("calendar: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("calendar: delete event: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK, http.StatusNotFound, http.StatusGone:
		return nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("calendar: delete event failed: status %d: %s", resp.StatusCode, body)
	}
}
