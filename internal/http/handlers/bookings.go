package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"mentorhood/internal/mail"
	"mentorhood/internal/sqlinline"
)

type bookingCreateRequest struct {
	SessionID string `json:"session_id"`
	Email     string `json:"email"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Timezone  string `json:"timezone"`
}

func (a *App) BookingsCreate(w http.ResponseWriter, r *http.Request) {
	var req bookingCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.SessionID == "" || req.Email == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "session_id and email are required")
		return
	}

	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectSessionForDashboard, req.SessionID)
	var sessionID, mentorID, sessionName, description, duration, sessionType string
	if err := row.Scan(&sessionID, &mentorID, &sessionName, &description, &duration, &sessionType); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "session not found")
		return
	}

	link := a.Meetings.New()
	bookingID := uuid.NewString()
	row = a.SQL.QueryRow(r.Context(), sqlinline.QInsertBooking,
		bookingID, req.SessionID, req.Email, req.Date, req.Time, req.Timezone,
		link.MeetingID, link.URL)
	if err := row.Scan(&bookingID); err != nil {
		a.Logger.Error().Err(err).Msg("insert booking failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create booking")
		return
	}

	details := mail.SessionDetails{
		Title:       sessionName,
		Description: description,
		Date:        req.Date,
		Time:        req.Time,
		Timezone:    req.Timezone,
		Duration:    duration,
		MeetingLink: link.URL,
	}
	if subject, body, err := mail.BookingConfirmation(details); err == nil {
		if err := a.Mailer.Send(r.Context(), req.Email, subject, body); err != nil {
			a.Logger.Warn().Err(err).Str("email", req.Email).Msg("booking email failed")
		}
	}

	a.json(w, http.StatusCreated, map[string]any{
		"status":       "success",
		"booking_id":   bookingID,
		"meeting_link": link.URL,
	})
}

func (a *App) BookingsList(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListBookings, sessionID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list bookings failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load bookings")
		return
	}
	defer rows.Close()
	items := []map[string]any{}
	for rows.Next() {
		item, err := scanBooking(rows.Scan)
		if err != nil {
			continue
		}
		items = append(items, item)
	}
	a.json(w, http.StatusOK, map[string]any{
		"status":   "success",
		"bookings": items,
	})
}

func (a *App) BookingsGet(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "booking_id")
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectBookingByID, bookingID)
	item, err := scanBooking(row.Scan)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "booking not found")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"status":  "success",
		"booking": item,
	})
}

func (a *App) BookingsCheck(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	email := chi.URLParam(r, "email")
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListBookingsBySessionEmail, sessionID, email)
	if err != nil {
		a.Logger.Error().Err(err).Msg("check bookings failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load bookings")
		return
	}
	defer rows.Close()
	items := []map[string]any{}
	for rows.Next() {
		item, err := scanBooking(rows.Scan)
		if err != nil {
			continue
		}
		items = append(items, item)
	}
	a.json(w, http.StatusOK, map[string]any{
		"status":   "success",
		"booked":   len(items) > 0,
		"bookings": items,
	})
}

func scanBooking(scan func(dest ...any) error) (map[string]any, error) {
	var bookingID, sessionID, email, date, timeOfDay, timezone, meetingID, meetingLink string
	var createdAt time.Time
	err := scan(&bookingID, &sessionID, &email, &date, &timeOfDay, &timezone, &meetingID, &meetingLink, &createdAt)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"booking_id":   bookingID,
		"session_id":   sessionID,
		"email":        email,
		"date":         date,
		"time":         timeOfDay,
		"timezone":     timezone,
		"meeting_id":   meetingID,
		"meeting_link": meetingLink,
		"created_at":   createdAt,
	}, nil
}
