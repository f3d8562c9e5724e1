package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"mentorhood/internal/sqlinline"
)

type sessionCreateRequest struct {
	MentorID          string   `json:"mentor_id"`
	SessionName       string   `json:"session_name"`
	Description       string   `json:"description"`
	Duration          string   `json:"duration"`
	SessionType       string   `json:"session_type"`
	NumberOfSessions  string   `json:"number_of_sessions"`
	Occurrence        string   `json:"occurrence"`
	IsPaid            bool     `json:"is_paid"`
	Price             string   `json:"price"`
	AllowMenteeTopics bool     `json:"allow_mentee_topics"`
	ShowOnProfile     bool     `json:"show_on_profile"`
	Topics            []string `json:"topics"`
	TimeSlots         []any    `json:"time_slots"`
}

func (a *App) SessionsCreate(w http.ResponseWriter, r *http.Request) {
	var req sessionCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.MentorID == "" || req.SessionName == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "mentor_id and session_name are required")
		return
	}
	if req.Topics == nil {
		req.Topics = []string{}
	}
	if req.TimeSlots == nil {
		req.TimeSlots = []any{}
	}
	topics, err := json.Marshal(req.Topics)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid topics")
		return
	}
	timeSlots, err := json.Marshal(req.TimeSlots)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid time_slots")
		return
	}

	sessionID := uuid.NewString()
	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertSession,
		sessionID, req.MentorID, req.SessionName, req.Description, req.Duration,
		req.SessionType, req.NumberOfSessions, req.Occurrence, req.IsPaid,
		req.Price, req.AllowMenteeTopics, req.ShowOnProfile, topics, timeSlots)
	if err := row.Scan(&sessionID); err != nil {
		a.Logger.Error().Err(err).Msg("insert session failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create session")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"status":     "success",
		"session_id": sessionID,
	})
}

func (a *App) SessionsGet(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectSessionBySessionID, sessionID)
	item, err := scanSession(row.Scan)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "session not found")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"status":  "success",
		"session": item,
	})
}

func (a *App) SessionsListByMentor(w http.ResponseWriter, r *http.Request) {
	mentorID := chi.URLParam(r, "mentor_id")
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListSessionsByMentor, mentorID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list sessions failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load sessions")
		return
	}
	defer rows.Close()
	items := []map[string]any{}
	for rows.Next() {
		item, err := scanSession(rows.Scan)
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

func scanSession(scan func(dest ...any) error) (map[string]any, error) {
	var sessionID, mentorID, sessionName, description, duration string
	var sessionType, numberOfSessions, occurrence, price string
	var isPaid, allowMenteeTopics, showOnProfile bool
	var topics, timeSlots []byte
	var createdAt time.Time
	err := scan(&sessionID, &mentorID, &sessionName, &description, &duration,
		&sessionType, &numberOfSessions, &occurrence, &isPaid, &price,
		&allowMenteeTopics, &showOnProfile, &topics, &timeSlots, &createdAt)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"session_id":          sessionID,
		"mentor_id":           mentorID,
		"session_name":        sessionName,
		"description":         description,
		"duration":            duration,
		"session_type":        sessionType,
		"number_of_sessions":  numberOfSessions,
		"occurrence":          occurrence,
		"is_paid":             isPaid,
		"price":               price,
		"allow_mentee_topics": allowMenteeTopics,
		"show_on_profile":     showOnProfile,
		"topics":              json.RawMessage(topics),
		"time_slots":          json.RawMessage(timeSlots),
		"created_at":          createdAt,
	}, nil
}
