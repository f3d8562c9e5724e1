package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"mentorhood/internal/sqlinline"
)

type mentorCreateRequest struct {
	UserID     string         `json:"user_id"`
	Name       string         `json:"name"`
	Headline   string         `json:"headline"`
	Membership string         `json:"membership"`
	Profile    map[string]any `json:"profile"`
}

func (a *App) MentorsCreate(w http.ResponseWriter, r *http.Request) {
	var req mentorCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.UserID == "" || req.Name == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "user_id and name are required")
		return
	}
	if req.Profile == nil {
		req.Profile = map[string]any{}
	}
	profile, err := json.Marshal(req.Profile)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid profile")
		return
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertMentorProfile,
		req.UserID, req.Name, req.Headline, req.Membership, profile)
	var userID string
	if err := row.Scan(&userID); err != nil {
		if isUniqueViolation(err) {
			a.error(w, http.StatusConflict, "conflict", "mentor profile already exists for this user")
			return
		}
		a.Logger.Error().Err(err).Msg("insert mentor profile failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create mentor profile")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"status":  "success",
		"user_id": userID,
	})
}

func (a *App) MentorsList(w http.ResponseWriter, r *http.Request) {
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListMentors)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list mentors failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load mentors")
		return
	}
	defer rows.Close()
	items := []map[string]any{}
	for rows.Next() {
		var userID, name, headline, membership string
		var profile []byte
		if err := rows.Scan(&userID, &name, &headline, &membership, &profile); err != nil {
			continue
		}
		items = append(items, map[string]any{
			"user_id":    userID,
			"name":       name,
			"headline":   headline,
			"membership": membership,
			"profile":    json.RawMessage(profile),
		})
	}
	a.json(w, http.StatusOK, map[string]any{
		"status":  "success",
		"mentors": items,
	})
}

func (a *App) MentorsGet(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectMentorByUserID, userID)
	var id, name, headline, membership string
	var profile []byte
	var createdAt time.Time
	if err := row.Scan(&id, &name, &headline, &membership, &profile, &createdAt); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "mentor not found")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"status": "success",
		"mentor": map[string]any{
			"user_id":    id,
			"name":       name,
			"headline":   headline,
			"membership": membership,
			"profile":    json.RawMessage(profile),
			"created_at": createdAt,
		},
	})
}
