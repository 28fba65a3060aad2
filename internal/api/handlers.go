package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/TriColor-Initiatives/minus/internal/game"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Handlers contains all the API handlers
type Handlers struct {
	rules  *Rules
	hub    *Hub
	logger logrus.FieldLogger
}

// NewHandlers creates a new instance of Handlers
func NewHandlers(rules *Rules, hub *Hub, logger logrus.FieldLogger) *Handlers {
	return &Handlers{
		rules:  rules,
		hub:    hub,
		logger: logger,
	}
}

// RegisterRoutes registers all API routes
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	r.Use(requestLogger(h.logger))

	r.HandleFunc("/api/health", h.Health).Methods("GET")

	// Rule queries
	r.HandleFunc("/api/deck", h.Deck).Methods("GET")
	r.HandleFunc("/api/hand/sort", h.SortHand).Methods("POST")
	r.HandleFunc("/api/moves/legal", h.LegalMoves).Methods("POST")
	r.HandleFunc("/api/trick/winner", h.TrickWinner).Methods("POST")
	r.HandleFunc("/api/seat/{seat}/next", h.NextSeat).Methods("GET")

	// WebSocket endpoint
	if h.hub != nil {
		r.HandleFunc("/ws", h.hub.WebSocketHandler)
	}
}

// response helper function to send JSON responses
func response(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// error response helper function
func errorResponse(w http.ResponseWriter, status int, message string) {
	response(w, status, map[string]string{"error": message})
}

// ruleError maps a Rules error onto an HTTP status.
func (h *Handlers) ruleError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, ErrNoWinner):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		loggerFrom(r, h.logger).WithError(err).Error("rule query failed")
	}
	errorResponse(w, status, err.Error())
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	response(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Deck returns the ordered 52-card deck
func (h *Handlers) Deck(w http.ResponseWriter, r *http.Request) {
	response(w, http.StatusOK, h.rules.Deck())
}

// SortHand returns the hand in display order
func (h *Handlers) SortHand(w http.ResponseWriter, r *http.Request) {
	var req SortHandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.rules.SortHand(req)
	if err != nil {
		h.ruleError(w, r, err)
		return
	}
	response(w, http.StatusOK, resp)
}

// LegalMoves returns the indices of the hand that may be played next
func (h *Handlers) LegalMoves(w http.ResponseWriter, r *http.Request) {
	var req LegalMovesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.rules.LegalMoves(req)
	if err != nil {
		h.ruleError(w, r, err)
		return
	}
	response(w, http.StatusOK, resp)
}

// TrickWinner resolves a trick to its winning entry
func (h *Handlers) TrickWinner(w http.ResponseWriter, r *http.Request) {
	var req TrickWinnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.rules.TrickWinner(req)
	if err != nil {
		h.ruleError(w, r, err)
		return
	}
	response(w, http.StatusOK, resp)
}

// NextSeat returns the seat that plays after the one in the path
func (h *Handlers) NextSeat(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	n, err := strconv.Atoi(vars["seat"])
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "Seat must be a number")
		return
	}

	resp, err := h.rules.NextSeat(NextSeatRequest{Seat: game.Seat(n)})
	if err != nil {
		h.ruleError(w, r, err)
		return
	}
	response(w, http.StatusOK, resp)
}
