// Package server exposes the timer engine to browser clients and the CLI
// over a local JSON API
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/azatkg/lounge/internal/timeutil"
	"github.com/azatkg/lounge/store"
	"github.com/azatkg/lounge/timer"
)

//go:embed web/*
var web embed.FS

var tpl = template.Must(
	template.New("index.html").ParseFS(web, "web/index.html"),
)

// Server serves the dashboard page and the operations API.
type Server struct {
	engine *timer.Engine
	db     store.DB
	addr   string
}

func New(engine *timer.Engine, db store.DB, addr string) *Server {
	return &Server{
		engine: engine,
		db:     db,
		addr:   addr,
	}
}

// opRequest is the body of every station operation.
type opRequest struct {
	Payment string `json:"payment"`
	Minutes int    `json:"minutes"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("unable to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	err := tpl.Execute(w, nil)
	if err != nil {
		slog.Error("unable to render dashboard", "error", err)
	}
}

func (s *Server) timersHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

func (s *Server) activityHandler(w http.ResponseWriter, r *http.Request) {
	limit := 50

	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}

		limit = n
	}

	entries, err := s.db.RecentActivity(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	today := timeutil.DayKey(time.Now())

	fromKey := r.URL.Query().Get("from")
	if fromKey == "" {
		fromKey = today
	}

	toKey := r.URL.Query().Get("to")
	if toKey == "" {
		toKey = today
	}

	from, err := timeutil.ParseDayKey(fromKey)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	to, err := timeutil.ParseDayKey(toKey)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := s.db.GetDailyStats(from, timeutil.RoundToEnd(to))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) opHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	op := r.PathValue("op")

	var req opRequest

	// operations without parameters may send no body at all, but a body
	// that fails to parse must not silently become a no-op
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payment := timer.Prepaid
	if req.Payment == string(timer.Postpaid) {
		payment = timer.Postpaid
	}

	switch op {
	case "start":
		err = s.engine.Start(id, payment)
	case "stop":
		err = s.engine.Stop(id)
	case "extend":
		err = s.engine.Extend(id, req.Minutes, payment)
	case "adjust":
		err = s.engine.AdjustTime(id, req.Minutes)
	case "reset":
		err = s.engine.Reset(id)
	case "duration":
		err = s.engine.SetDuration(id, req.Minutes)
	default:
		writeError(w, http.StatusNotFound, "unknown operation: "+op)
		return
	}

	if errors.Is(err, timer.ErrUnknownStation) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.indexHandler)
	mux.HandleFunc("GET /api/timers", s.timersHandler)
	mux.HandleFunc("GET /api/activity", s.activityHandler)
	mux.HandleFunc("GET /api/stats", s.statsHandler)
	mux.HandleFunc("POST /api/timers/{id}/{op}", s.opHandler)

	return mux
}

// Start serves the API until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			5*time.Second,
		)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
