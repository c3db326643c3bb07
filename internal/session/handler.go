package session

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"sort"
	"time"

	"github.com/canvasspace/canvasaem/internal/gate"
	"github.com/canvasspace/canvasaem/internal/httputil"
	"github.com/canvasspace/canvasaem/internal/metrics"
	"github.com/canvasspace/canvasaem/internal/player"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 4 << 10

type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

type createRequest struct {
	ThresholdSeconds    *float64 `json:"thresholdSeconds"`
	FullscreenSupported bool     `json:"fullscreenSupported"`
}

type createResponse struct {
	ID               string     `json:"id"`
	Token            string     `json:"token"`
	ThresholdSeconds float64    `json:"thresholdSeconds"`
	State            gate.State `json:"state"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !decodeOptional(w, r, &req) {
		return
	}

	opts := CreateOptions{
		IP:                  httputil.ClientIP(r),
		UserAgent:           r.UserAgent(),
		FullscreenSupported: req.FullscreenSupported,
	}
	if req.ThresholdSeconds != nil {
		if *req.ThresholdSeconds < 0 {
			httputil.WriteError(w, http.StatusBadRequest, "thresholdSeconds must not be negative")
			return
		}
		threshold := time.Duration(*req.ThresholdSeconds * float64(time.Second))
		opts.Threshold = &threshold
	}

	created, err := h.hub.Create(opts)
	if errors.Is(err, ErrInvalidThreshold) {
		httputil.WriteError(w, http.StatusBadRequest, "thresholdSeconds out of range")
		return
	}
	if err != nil {
		slog.Error("session: create failed", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, createResponse{
		ID:               created.ID,
		Token:            created.Token,
		ThresholdSeconds: created.Threshold.Seconds(),
		State:            created.State,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	e, ok := h.session(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e.snapshot())
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.hub.Close(chi.URLParam(r, "id"), "client"); err != nil {
		httputil.WriteError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type playbackRequest struct {
	Event       string   `json:"event"`
	CurrentTime *float64 `json:"currentTime"`
	Paused      *bool    `json:"paused"`
	Fullscreen  *bool    `json:"fullscreen"`
}

const (
	playbackTimeUpdate = "timeupdate"
	playbackSeeked     = "seeked"
	playbackReport     = "report"
)

// Playback handles the client's media element events. The reported
// player state is applied before the event is evaluated.
func (h *Handler) Playback(w http.ResponseWriter, r *http.Request) {
	e, ok := h.session(w, r)
	if !ok {
		return
	}
	var req playbackRequest
	if !decode(w, r, &req) {
		return
	}
	switch req.Event {
	case playbackTimeUpdate, playbackSeeked, playbackReport:
	default:
		httputil.WriteError(w, http.StatusBadRequest, "event must be timeupdate, seeked or report")
		return
	}

	e.remote.Report(player.Report{CurrentTime: req.CurrentTime, Paused: req.Paused, Fullscreen: req.Fullscreen})

	var err error
	switch req.Event {
	case playbackTimeUpdate:
		err = e.gate.TimeUpdate()
	case playbackSeeked:
		err = e.gate.Seeked()
	}
	if err != nil {
		writeGateError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e.snapshot())
}

// Gate handles the "unlock full experience" action.
func (h *Handler) Gate(w http.ResponseWriter, r *http.Request) {
	e, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := e.gate.RequestGate(); err != nil {
		writeGateError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e.snapshot())
}

type formRequest struct {
	Fields map[string]string `json:"fields"`
}

func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	e, ok := h.session(w, r)
	if !ok {
		return
	}
	var req formRequest
	if !decode(w, r, &req) {
		return
	}
	if len(req.Fields) == 0 {
		httputil.WriteError(w, http.StatusBadRequest, "fields must not be empty")
		return
	}

	names := make([]string, 0, len(req.Fields))
	for name := range req.Fields {
		if !slices.Contains(gate.RequiredFields, name) {
			writeGateError(w, gate.ErrUnknownField)
			return
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := e.gate.SetField(name, req.Fields[name]); err != nil {
			writeGateError(w, err)
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, e.snapshot())
}

type submitResponse struct {
	Lead     gate.Lead `json:"lead"`
	Snapshot Snapshot  `json:"snapshot"`
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	e, ok := h.session(w, r)
	if !ok {
		return
	}
	l, err := e.gate.Submit()
	if err != nil {
		var verr *gate.ValidationError
		if errors.As(err, &verr) {
			metrics.RecordSubmission("invalid")
		} else {
			metrics.RecordSubmission("rejected")
		}
		writeGateError(w, err)
		return
	}
	metrics.RecordSubmission("accepted")
	httputil.WriteJSON(w, http.StatusAccepted, submitResponse{Lead: l, Snapshot: e.snapshot()})
}

type scrollRequest struct {
	ScrollY        *float64 `json:"scrollY"`
	ViewportHeight *float64 `json:"viewportHeight"`
}

func (h *Handler) Scroll(w http.ResponseWriter, r *http.Request) {
	e, ok := h.session(w, r)
	if !ok {
		return
	}
	var req scrollRequest
	if !decode(w, r, &req) {
		return
	}
	if req.ScrollY == nil {
		httputil.WriteError(w, http.StatusBadRequest, "scrollY is required")
		return
	}

	e.remote.Report(player.Report{ScrollY: req.ScrollY, ViewportHeight: req.ViewportHeight})
	if err := e.gate.Scrolled(); err != nil {
		writeGateError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*entry, bool) {
	e, err := h.hub.lookup(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return e, true
}

type validationBody struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
	Invalid []string `json:"invalid,omitempty"`
}

func writeGateError(w http.ResponseWriter, err error) {
	var verr *gate.ValidationError
	switch {
	case errors.As(err, &verr):
		httputil.WriteJSON(w, http.StatusUnprocessableEntity, validationBody{
			Error:   "lead form incomplete",
			Missing: verr.Missing,
			Invalid: verr.Invalid,
		})
	case errors.Is(err, gate.ErrFormNotOpen), errors.Is(err, gate.ErrAlreadySubmitted):
		httputil.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, gate.ErrUnknownField):
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, gate.ErrSessionClosed):
		httputil.WriteError(w, http.StatusNotFound, "session not found")
	default:
		slog.Error("session: gate error", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "gate error")
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httputil.ReadJSON(w, r, maxBodyBytes, v); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// decodeOptional accepts an empty body.
func decodeOptional(w http.ResponseWriter, r *http.Request, v any) bool {
	err := httputil.ReadJSON(w, r, maxBodyBytes, v)
	if err != nil && !errors.Is(err, httputil.ErrEmptyBody) {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// Routes mounts the session API on r. Every route under a session ID is
// wrapped by requireToken.
func (h *Handler) Routes(r chi.Router, requireToken func(http.Handler) http.Handler) {
	r.Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Use(requireToken)
		r.Get("/", h.Get)
		r.Delete("/", h.Delete)
		r.Post("/playback", h.Playback)
		r.Post("/gate", h.Gate)
		r.Patch("/form", h.Form)
		r.Post("/submit", h.Submit)
		r.Post("/scroll", h.Scroll)
		r.Get("/stream", h.Stream)
	})
}
