package meetings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeProvider(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	tokenCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "account_credentials", r.FormValue("grant_type"))
		assert.Equal(t, "acct-1", r.FormValue("account_id"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-123",
			"token_type":   "bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/users/me/meetings", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Lesson with Avery", body["topic"])
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":       int64(98765),
			"join_url": "https://meet.example.com/98765",
		})
	})
	mux.HandleFunc("/meetings/98765", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/meetings/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &tokenCalls
}

func newTestSession(t *testing.T) (*Session, *int) {
	srv, tokenCalls := newFakeProvider(t)
	return NewSession(Config{
		BaseURL:      srv.URL,
		AuthURL:      srv.URL + "/oauth/token",
		AccountID:    "acct-1",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	}, nil), tokenCalls
}

func TestCreateMeeting(t *testing.T) {
	session, tokenCalls := newTestSession(t)

	start := time.Date(2026, time.September, 7, 15, 0, 0, 0, time.UTC)
	id, joinURL, err := session.CreateMeeting(context.Background(), "Lesson with Avery", start, 30, "")
	require.NoError(t, err)
	assert.Equal(t, "98765", id)
	assert.Equal(t, "https://meet.example.com/98765", joinURL)
	assert.Equal(t, 1, *tokenCalls)
}

func TestTokenIsCached(t *testing.T) {
	session, tokenCalls := newTestSession(t)
	start := time.Date(2026, time.September, 7, 15, 0, 0, 0, time.UTC)

	_, _, err := session.CreateMeeting(context.Background(), "Lesson with Avery", start, 30, "")
	require.NoError(t, err)
	_, _, err = session.CreateMeeting(context.Background(), "Lesson with Avery", start.Add(time.Hour), 30, "")
	require.NoError(t, err)

	assert.Equal(t, 1, *tokenCalls)
}

func TestDeleteMeeting(t *testing.T) {
	session, _ := newTestSession(t)
	require.NoError(t, session.DeleteMeeting(context.Background(), "98765"))
}

func TestDeleteMeetingAlreadyGone(t *testing.T) {
	session, _ := newTestSession(t)
	assert.NoError(t, session.DeleteMeeting(context.Background(), "gone"))
}

func TestCreateMeetingAuthFailure(t *testing.T) {
	srv, _ := newFakeProvider(t)
	session := NewSession(Config{
		BaseURL:      srv.URL,
		AuthURL:      srv.URL + "/oauth/token",
		AccountID:    "acct-1",
		ClientID:     "client-id",
		ClientSecret: "wrong",
	}, nil)

	_, _, err := session.CreateMeeting(context.Background(), "Lesson", time.Now(), 30, "")
	assert.Error(t, err)
}
