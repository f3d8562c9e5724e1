package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"mentorhood/internal/sqlinline"
)

type amaSessionCreateRequest struct {
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Mentor         map[string]any `json:"mentor"`
	Date           string         `json:"date"`
	Time           string         `json:"time"`
	Duration       string         `json:"duration"`
	MaxRegistrants int            `json:"max_registrants"`
	IsWomanTech    bool           `json:"is_woman_tech"`
	IsPaid         bool           `json:"is_paid"`
	Price          float64        `json:"price"`
	TokenPrice     int            `json:"token_price"`
	Questions      []any          `json:"questions"`
	Topics         []string       `json:"topics"`
	TimeSlots      []any          `json:"time_slots"`
}

type amaSessionUpdateRequest struct {
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	Date           *string `json:"date"`
	Time           *string `json:"time"`
	Duration       *string `json:"duration"`
	MaxRegistrants *int    `json:"max_registrants"`
	IsWomanTech    *bool   `json:"is_woman_tech"`
}

func (a *App) AMASessionsList(w http.ResponseWriter, r *http.Request) {
	var filter *bool
	if raw := r.URL.Query().Get("is_woman_tech"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "is_woman_tech must be a boolean")
			return
		}
		filter = &v
	}
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListAMASessions, filter)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list ama sessions failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load sessions")
		return
	}
	defer rows.Close()
	items := []map[string]any{}
	for rows.Next() {
		item, err := scanAMASession(rows.Scan)
		if err != nil {
			continue
		}
		items = append(items, item)
	}
	a.json(w, http.StatusOK, map[string]any{
		"status":   "success",
		"sessions": items,
	})
}

func (a *App) AMASessionsCreate(w http.ResponseWriter, r *http.Request) {
	var req amaSessionCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Title == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "title is required")
		return
	}
	if req.MaxRegistrants <= 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "max_registrants must be positive")
		return
	}
	mentor, err := marshalOr(req.Mentor, `{}`)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid mentor")
		return
	}
	questions, err := marshalOr(req.Questions, `[]`)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid questions")
		return
	}
	topics, err := marshalOr(req.Topics, `[]`)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid topics")
		return
	}
	timeSlots, err := marshalOr(req.TimeSlots, `[]`)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid time_slots")
		return
	}

	sessionID := uuid.NewString()
	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertAMASession,
		sessionID, req.Title, req.Description, mentor, req.Date, req.Time, req.Duration,
		req.MaxRegistrants, req.IsWomanTech, req.IsPaid, req.Price, req.TokenPrice,
		questions, topics, timeSlots)
	if err := row.Scan(&sessionID); err != nil {
		a.Logger.Error().Err(err).Msg("insert ama session failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create session")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"status":     "success",
		"session_id": sessionID,
	})
}

func (a *App) AMASessionsGet(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectAMASessionBySessionID, sessionID)
	item, err := scanAMASession(row.Scan)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "session not found")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"status":  "success",
		"session": item,
	})
}

func (a *App) AMASessionsUpdate(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	var req amaSessionUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QUpdateAMASession,
		sessionID, req.Title, req.Description, req.Date, req.Time, req.Duration,
		req.MaxRegistrants, req.IsWomanTech)
	var id string
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			a.error(w, http.StatusNotFound, "not_found", "session not found")
			return
		}
		a.Logger.Error().Err(err).Msg("update ama session failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update session")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"status":     "success",
		"session_id": id,
	})
}

func (a *App) AMASessionsDelete(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	tag, err := a.SQL.Exec(r.Context(), sqlinline.QDeleteAMASession, sessionID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("delete ama session failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete session")
		return
	}
	if tag.RowsAffected() == 0 {
		a.error(w, http.StatusNotFound, "not_found", "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func scanAMASession(scan func(dest ...any) error) (map[string]any, error) {
	var sessionID, title, description, date, timeOfDay, duration string
	var mentor, questions, topics, timeSlots []byte
	var registrants, maxRegistrants, tokenPrice int
	var isWomanTech, isPaid bool
	var price float64
	err := scan(&sessionID, &title, &description, &mentor, &date, &timeOfDay, &duration,
		&registrants, &maxRegistrants, &isWomanTech, &isPaid, &price, &tokenPrice,
		&questions, &topics, &timeSlots)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"session_id":      sessionID,
		"title":           title,
		"description":     description,
		"mentor":          json.RawMessage(mentor),
		"date":            date,
		"time":            timeOfDay,
		"duration":        duration,
		"registrants":     registrants,
		"max_registrants": maxRegistrants,
		"is_woman_tech":   isWomanTech,
		"is_paid":         isPaid,
		"price":           price,
		"token_price":     tokenPrice,
		"questions":       json.RawMessage(questions),
		"topics":          json.RawMessage(topics),
		"time_slots":      json.RawMessage(timeSlots),
	}, nil
}

func marshalOr(v any, empty string) ([]byte, error) {
	switch val := v.(type) {
	case map[string]any:
		if val == nil {
			return []byte(empty), nil
		}
	case []any:
		if val == nil {
			return []byte(empty), nil
		}
	case []string:
		if val == nil {
			return []byte(empty), nil
		}
	}
	return json.Marshal(v)
}
