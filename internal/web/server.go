package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	stdsync "sync"

	"github.com/conorfennell/recall/internal/domain"
	"github.com/conorfennell/recall/internal/srs"
	"github.com/conorfennell/recall/internal/storage"
	"github.com/conorfennell/recall/internal/sync"
)

// Options carries the defaults the API falls back to when a request
// leaves them out.
type Options struct {
	AgeGroup       domain.AgeGroup
	SessionMinutes int
	Sync           sync.Options
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	db     *storage.DB
	engine *srs.Engine
	opts   Options
	router *http.ServeMux
	cards  *keyedMutex

	// sessionMu serializes GenerateReviewSession, whose shuffle source is
	// not safe for concurrent use.
	sessionMu stdsync.Mutex
}

// NewServer creates and configures a new server.
func NewServer(db *storage.DB, engine *srs.Engine, opts Options) *Server {
	s := &Server{
		db:     db,
		engine: engine,
		opts:   opts,
		router: http.NewServeMux(),
		cards:  newKeyedMutex(),
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	s.router.HandleFunc("GET /healthz", s.handleHealth)

	s.router.HandleFunc("GET /api/cards", s.handleListCards)
	s.router.HandleFunc("GET /api/cards/due", s.handleDueCards)
	s.router.HandleFunc("GET /api/cards/{id}", s.handleGetCard)
	s.router.HandleFunc("POST /api/cards/{id}/review", s.handlePostReview)
	s.router.HandleFunc("POST /api/sessions", s.handlePostSession)
	s.router.HandleFunc("GET /api/report", s.handleGetReport)

	s.router.HandleFunc("GET /api/sources", s.handleGetSources)
	s.router.HandleFunc("POST /api/sources", s.handlePostSource)
	s.router.HandleFunc("DELETE /api/sources/{id}", s.handleDeleteSource)
	s.router.HandleFunc("POST /api/sync", s.handlePostSync)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.db.ListCards()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(cards))
}

// handleDueCards returns the cards due now, most urgent first.
func (s *Server) handleDueCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.db.ListCards()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	limit := len(cards)
	if v := r.URL.Query().Get("max"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "max must be an integer")
			return
		}
	}

	due, err := s.engine.GetCardsForReview(cards, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(due))
}

type cardView struct {
	domain.Card
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
	Context  string `json:"context,omitempty"`
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	card, err := s.db.FindCardByID(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if card == nil {
		writeError(w, http.StatusNotFound, "card not found")
		return
	}

	view := cardView{Card: *card}
	content, err := s.db.FindContent(card.ContentID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if content != nil {
		view.Question, view.Answer, view.Context = content.Question, content.Answer, content.Context
	}
	writeJSON(w, http.StatusOK, view)
}

type reviewRequest struct {
	domain.ReviewResult
	AgeGroup *domain.AgeGroup `json:"ageGroup,omitempty"`
}

// handlePostReview applies one review result to a card. Reviews of the
// same card are serialized; the storage compare-and-swap catches writers
// outside this process.
func (s *Server) handlePostReview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid review body: "+err.Error())
		return
	}
	age := s.opts.AgeGroup
	if req.AgeGroup != nil {
		age = *req.AgeGroup
	}

	unlock := s.cards.Lock(id)
	defer unlock()

	card, err := s.db.FindCardByID(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if card == nil {
		writeError(w, http.StatusNotFound, "card not found")
		return
	}

	next, err := s.engine.CalculateNextReview(*card, req.ReviewResult, age)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.db.UpdateCardReview(next, card.ReviewCount); err != nil {
		s.fail(w, r, err)
		return
	}

	slog.Info("Card reviewed",
		"card_id", next.ID,
		"quality", srs.ClassifyQuality(req.ReviewResult),
		"interval", next.Interval,
		"next_review", next.NextReview,
	)
	writeJSON(w, http.StatusOK, next)
}

type sessionRequest struct {
	DurationMinutes *int             `json:"durationMinutes,omitempty"`
	AgeGroup        *domain.AgeGroup `json:"ageGroup,omitempty"`
}

func (s *Server) handlePostSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	// An empty body asks for a session with the configured defaults.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid session body: "+err.Error())
		return
	}
	minutes, age := s.opts.SessionMinutes, s.opts.AgeGroup
	if req.DurationMinutes != nil {
		minutes = *req.DurationMinutes
	}
	if req.AgeGroup != nil {
		age = *req.AgeGroup
	}

	cards, err := s.db.ListCards()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.sessionMu.Lock()
	session, err := s.engine.GenerateReviewSession(cards, minutes, age)
	s.sessionMu.Unlock()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	cards, err := s.db.ListCards()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, srs.AnalyzePerformance(cards))
}

func (s *Server) handleGetSources(w http.ResponseWriter, r *http.Request) {
	sources, err := s.db.GetAllSources()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(sources))
}

func (s *Server) handlePostSource(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		writeError(w, http.StatusBadRequest, "path cannot be empty")
		return
	}

	source, err := sync.AddSource(s.db, req.Path)
	if errors.Is(err, sync.ErrSourceExists) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, source)
}

func (s *Server) handleDeleteSource(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid source ID")
		return
	}
	if err := s.db.DeleteSource(id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePostSync runs a sync in the foreground and reports what changed.
func (s *Server) handlePostSync(w http.ResponseWriter, r *http.Request) {
	summary, err := sync.RunSync(r.Context(), s.db, s.engine, s.opts.Sync)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
