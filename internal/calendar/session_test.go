package calendar

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

func newTestSession(t *testing.T) *Session {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.FormValue("grant_type"))
		assert.Equal(t, "refresh-1", r.FormValue("refresh_token"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "cal-tok",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/calendars/primary/events", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer cal-tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Lesson (30 min): Avery Lin", body["summary"])
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "evt-1"})
	})
	mux.HandleFunc("/calendars/primary/events/evt-1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/calendars/primary/events/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return NewSession(Config{
		BaseURL:      srv.URL,
		TokenURL:     srv.URL + "/token",
		CalendarID:   "primary",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RefreshToken: "refresh-1",
	}, nil)
}

func TestCreateEvent(t *testing.T) {
	session := newTestSession(t)
	start := time.Date(2026, time.September, 7, 15, 0, 0, 0, time.UTC)

	id, err := session.CreateEvent(context.Background(), "Lesson (30 min): Avery Lin", "", start, start.Add(30*time.Minute), "12 Maple St")
	require.NoError(t, err)
	assert.Equal(t, "evt-1", id)
}

func TestDeleteEvent(t *testing.T) {
	session := newTestSession(t)
	require.NoError(t, session.DeleteEvent(context.Background(), "evt-1"))
}

func TestDeleteEventAlreadyGone(t *testing.T) {
	session := newTestSession(t)
	assert.NoError(t, session.DeleteEvent(context.Background(), "gone"))
}
