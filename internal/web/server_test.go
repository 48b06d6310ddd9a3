package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/recall/internal/domain"
	"github.com/conorfennell/recall/internal/srs"
	"github.com/conorfennell/recall/internal/storage"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

// newTestServer returns a server over a fresh database holding one due
// card per content hash.
func newTestServer(t *testing.T, hashes ...string) (*Server, *storage.DB) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "web.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	created := testNow.Add(-48 * time.Hour)
	engine := srs.New(srs.WithClock(func() time.Time { return created }), srs.WithSeed(9))
	sourceID, err := db.InsertSource("/decks", storage.SourceLocal)
	require.NoError(t, err)
	for _, h := range hashes {
		_, err := db.UpsertContent(domain.Content{Hash: h, Question: "question " + h, Answer: "answer " + h}, sourceID)
		require.NoError(t, err)
		card, err := engine.ScheduleNewCard(h, domain.ContentTypeFlashcard, "", "", domain.AgeGroup9Plus)
		require.NoError(t, err)
		card.ID = "card-" + h
		require.NoError(t, db.InsertCard(card))
	}

	serving := srs.New(srs.WithClock(func() time.Time { return testNow }), srs.WithSeed(9))
	return NewServer(db, serving, Options{AgeGroup: domain.AgeGroup9Plus, SessionMinutes: 5}), db
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetCard(t *testing.T) {
	s, _ := newTestServer(t, "a")

	rec := do(t, s, http.MethodGet, "/api/cards/card-a", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var view map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "question a", view["question"])
	assert.Equal(t, "a", view["contentId"])

	rec = do(t, s, http.MethodGet, "/api/cards/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostReview(t *testing.T) {
	s, db := newTestServer(t, "a")

	rec := do(t, s, http.MethodPost, "/api/cards/card-a/review", `{"correct":true,"responseTime":1500,"hintsUsed":0}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var card domain.Card
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &card))
	assert.Equal(t, 1, card.ReviewCount)
	assert.Equal(t, 1, card.SuccessStreak)
	assert.True(t, card.LastReviewed.Equal(testNow))

	stored, err := db.FindCardByID("card-a")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.ReviewCount)
}

func TestPostReviewErrors(t *testing.T) {
	s, _ := newTestServer(t, "a")

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"negative hints", "/api/cards/card-a/review", `{"correct":true,"hintsUsed":-1}`, http.StatusBadRequest},
		{"bad age group", "/api/cards/card-a/review", `{"correct":true,"ageGroup":"teen"}`, http.StatusBadRequest},
		{"malformed body", "/api/cards/card-a/review", `{`, http.StatusBadRequest},
		{"unknown card", "/api/cards/nope/review", `{"correct":true}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestConcurrentReviewsAreSerialized(t *testing.T) {
	s, db := newTestServer(t, "a")

	const n = 8
	var wg sync.WaitGroup
	codes := make([]int, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			codes[i] = do(t, s, http.MethodPost, "/api/cards/card-a/review", `{"correct":true,"responseTime":2000}`).Code
		}()
	}
	wg.Wait()

	for _, code := range codes {
		assert.Equal(t, http.StatusOK, code)
	}
	stored, err := db.FindCardByID("card-a")
	require.NoError(t, err)
	assert.Equal(t, n, stored.ReviewCount)
}

func TestDueSessionAndReport(t *testing.T) {
	s, _ := newTestServer(t, "a", "b", "c")

	rec := do(t, s, http.MethodGet, "/api/cards/due?max=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var due []domain.Card
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &due))
	assert.Len(t, due, 2)

	rec = do(t, s, http.MethodGet, "/api/cards/due?max=x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/sessions", `{"durationMinutes":1,"ageGroup":"3-5"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var session domain.ReviewSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	assert.Len(t, session.Cards, 2)
	assert.Equal(t, domain.AgeGroup3to5, session.AgeGroup)
	assert.Equal(t, 1, session.EstimatedDuration)

	rec = do(t, s, http.MethodPost, "/api/sessions", `{"durationMinutes":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/report", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var report domain.PerformanceReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.InDelta(t, 1.0, report.AverageInterval, 1e-9)
	assert.Equal(t, map[string]int{"0": 3}, report.StreakDistribution)
}

func TestSources(t *testing.T) {
	s, _ := newTestServer(t)

	dir := t.TempDir()
	rec := do(t, s, http.MethodPost, "/api/sources", `{"path":"`+filepath.ToSlash(dir)+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/api/sources", `{"path":"`+filepath.ToSlash(dir)+`"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/sources", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/sources", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sources []storage.Source
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sources))
	assert.Len(t, sources, 2)

	rec = do(t, s, http.MethodDelete, "/api/sources/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
