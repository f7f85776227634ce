// Package web serves rendered calendar previews over HTTP.
package web

import (
	"context"
	"encoding/json"
	"net/http"

	"vacationcal/internal/config"
	appLog "vacationcal/internal/log"
	"vacationcal/internal/model"
)

// Result is one on-demand layout computation handed to the server.
type Result struct {
	SVG    string
	Window model.Window
	Bands  []model.Band
}

// RenderFunc computes a calendar for an anchor date. The zero Date means
// "today".
type RenderFunc func(ctx context.Context, anchor model.Date) (*Result, error)

// Server exposes /health, /calendar.svg, /preview.png and /api/events.
type Server struct {
	cfg    *config.Config
	render RenderFunc
	mux    *http.ServeMux
}

// NewServer constructs a Server around a render callback.
func NewServer(cfg *config.Config, render RenderFunc) *Server {
	s := &Server{
		cfg:    cfg,
		render: render,
		mux:    http.NewServeMux(),
	}
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/calendar.svg", s.handleCalendar)
	s.mux.HandleFunc("/preview.png", s.handlePreview)
	s.mux.HandleFunc("/api/events", s.handleEvents)
	return s
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler { return s.mux }

// Start serves on cfg.Listen until the listener fails.
func (s *Server) Start() error {
	appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
	return http.ListenAndServe(s.cfg.Listen, s.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleCalendar renders the calendar on demand. An optional
// ?date=YYYY/MM/DD query anchors the window at a date other than today.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	anchor, ok := s.anchorFromQuery(w, r)
	if !ok {
		return
	}

	res, err := s.render(r.Context(), anchor)
	if err != nil {
		appLog.Error("on-demand render failed", err)
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(res.SVG))
}

// handlePreview serves the last captured PNG from disk. ServeFile returns
// 404 when no capture has happened yet.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if s.cfg.OutputPNG == "" {
		writeError(w, http.StatusNotFound, "png capture is not configured")
		return
	}
	http.ServeFile(w, r, s.cfg.OutputPNG)
}

// eventsResponse is the JSON shape for /api/events.
type eventsResponse struct {
	RangeStart string    `json:"range_start"`
	RangeEnd   string    `json:"range_end"`
	Bands      []bandDTO `json:"bands"`
}

type bandDTO struct {
	Owner     string `json:"owner"`
	Color     string `json:"color"`
	Row       int    `json:"row"`
	WeekIndex int    `json:"week_index"`
	StartDay  int    `json:"start_day"`
	Length    int    `json:"length"`
	Label     string `json:"label"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

// handleEvents returns the packed layout as JSON for the same anchor rules
// as /calendar.svg.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	anchor, ok := s.anchorFromQuery(w, r)
	if !ok {
		return
	}

	res, err := s.render(r.Context(), anchor)
	if err != nil {
		appLog.Error("on-demand layout failed", err)
		writeError(w, http.StatusInternalServerError, "layout failed")
		return
	}

	resp := eventsResponse{
		RangeStart: res.Window.Start().String(),
		RangeEnd:   res.Window.End().String(),
		Bands:      make([]bandDTO, 0, len(res.Bands)),
	}
	for _, b := range res.Bands {
		resp.Bands = append(resp.Bands, bandDTO{
			Owner:     b.Owner,
			Color:     b.Color,
			Row:       b.Row,
			WeekIndex: b.WeekIndex,
			StartDay:  b.StartDay,
			Length:    b.Length,
			Label:     b.Label,
			Start:     b.Start.String(),
			End:       b.End.String(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// anchorFromQuery parses the optional date query parameter. The second
// return value is false when a 400 was already written.
func (s *Server) anchorFromQuery(w http.ResponseWriter, r *http.Request) (model.Date, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return model.Date{}, true
	}
	anchor, err := model.ParseDate(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY/MM/DD")
		return model.Date{}, false
	}
	return anchor, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
