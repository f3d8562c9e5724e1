package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"mentorhood/internal/mail"
	"mentorhood/internal/sqlinline"
)

type registrationRequest struct {
	SessionID string `json:"session_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Company   string `json:"company"`
	Role      string `json:"role"`
}

// RegistrationsCreate claims a seat on an AMA session. The seat bump and the
// registration row are written by one statement, so a lost seat or a double
// bump cannot happen under concurrent sign-ups.
func (a *App) RegistrationsCreate(w http.ResponseWriter, r *http.Request) {
	var req registrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.SessionID == "" || req.Email == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "session_id and email are required")
		return
	}

	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectAMASessionForRegistration, req.SessionID)
	var sessionID, title, date, timeOfDay, duration string
	var mentor []byte
	var registrants, maxRegistrants int
	if err := row.Scan(&sessionID, &title, &mentor, &date, &timeOfDay, &duration, &registrants, &maxRegistrants); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "session not found")
		return
	}
	if registrants >= maxRegistrants {
		a.error(w, http.StatusBadRequest, "session_full", "session is fully booked")
		return
	}

	link := a.Meetings.New()
	registrationID := uuid.NewString()
	row = a.SQL.QueryRow(r.Context(), sqlinline.QCreateRegistration,
		registrationID, req.SessionID, req.Email, req.Name, req.Company, req.Role,
		link.MeetingID, link.URL)
	var meetingLink string
	var snapshot []byte
	if err := row.Scan(&registrationID, &meetingLink, &snapshot); err != nil {
		if isUniqueViolation(err) {
			a.error(w, http.StatusConflict, "already_registered", "already registered for this session")
			return
		}
		if err == pgx.ErrNoRows {
			// Another registration took the last seat between the read and
			// the claim.
			a.error(w, http.StatusBadRequest, "session_full", "session is fully booked")
			return
		}
		a.Logger.Error().Err(err).Msg("create registration failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to register")
		return
	}

	details := mail.SessionDetails{
		Title:       title,
		Date:        date,
		Time:        timeOfDay,
		Duration:    duration,
		MeetingLink: meetingLink,
	}
	var mentorInfo map[string]any
	if json.Unmarshal(mentor, &mentorInfo) == nil {
		details.MentorName, _ = mentorInfo["name"].(string)
		details.MentorRole, _ = mentorInfo["role"].(string)
		details.MentorCompany, _ = mentorInfo["company"].(string)
	}
	if subject, body, err := mail.RegistrationConfirmation(details); err == nil {
		if err := a.Mailer.Send(r.Context(), req.Email, subject, body); err != nil {
			a.Logger.Warn().Err(err).Str("email", req.Email).Msg("confirmation email failed")
		}
	}

	a.json(w, http.StatusCreated, map[string]any{
		"status":          "success",
		"registration_id": registrationID,
		"meeting_link":    meetingLink,
		"session":         json.RawMessage(snapshot),
	})
}

func (a *App) RegistrationsCheck(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	email := chi.URLParam(r, "email")
	row := a.SQL.QueryRow(r.Context(), sqlinline.QCheckRegistration, email, sessionID)
	var registered bool
	if err := row.Scan(&registered); err != nil {
		a.Logger.Error().Err(err).Msg("check registration failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to check registration")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"status":     "success",
		"registered": registered,
	})
}

func (a *App) RegistrationsListBySession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListRegistrationsBySession, sessionID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list registrations failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load registrations")
		return
	}
	defer rows.Close()
	items := []map[string]any{}
	for rows.Next() {
		var registrationID, email, name, company, role, meetingLink string
		var createdAt time.Time
		if err := rows.Scan(&registrationID, &email, &name, &company, &role, &meetingLink, &createdAt); err != nil {
			continue
		}
		items = append(items, map[string]any{
			"registration_id": registrationID,
			"email":           email,
			"name":            name,
			"company":         company,
			"role":            role,
			"meeting_link":    meetingLink,
			"created_at":      createdAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{
		"status":        "success",
		"registrations": items,
	})
}
