package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mentorhood/internal/sqlinline"
)

const dashboardMaxBookings = 5

var titleCaser = cases.Title(language.English)

// DashboardMentee aggregates a mentee's bookings into an upcoming/past view
// with session and mentor details attached. Lookups for dangling session or
// mentor references degrade to display defaults instead of failing the page.
func (a *App) DashboardMentee(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectUserByEmail, email)
	var userID, username, userEmail, passwordHash, role string
	var disabled bool
	if err := row.Scan(&userID, &username, &userEmail, &passwordHash, &role, &disabled); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "user not found")
		return
	}
	if username == "" {
		username = displayNameFromEmail(email)
	}

	rows, err := a.SQL.Query(r.Context(), sqlinline.QListBookingsByEmail, email)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list bookings failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load bookings")
		return
	}
	bookings := []map[string]any{}
	for rows.Next() {
		item, err := scanBooking(rows.Scan)
		if err != nil {
			continue
		}
		bookings = append(bookings, item)
	}
	rows.Close()

	today := time.Now().UTC().Format("2006-01-02")
	upcoming := []map[string]any{}
	past := []map[string]any{}
	mentors := map[string]bool{}
	for _, b := range bookings {
		enriched := a.enrichBooking(r, b, mentors)
		date, _ := b["date"].(string)
		if date >= today {
			if len(upcoming) < dashboardMaxBookings {
				upcoming = append(upcoming, enriched)
			}
		} else if len(past) < dashboardMaxBookings {
			past = append(past, enriched)
		}
	}

	a.json(w, http.StatusOK, map[string]any{
		"status":   "success",
		"username": username,
		"email":    email,
		"upcoming": upcoming,
		"past":     past,
		"stats": map[string]any{
			"total_bookings":     len(bookings),
			"completed_sessions": len(past),
			"upcoming_sessions":  len(upcoming),
			"mentors":            len(mentors),
		},
	})
}

func (a *App) enrichBooking(r *http.Request, booking map[string]any, mentors map[string]bool) map[string]any {
	sessionName := "Mentorship Session"
	mentorName := "MentorHood Mentor"

	sessionID, _ := booking["session_id"].(string)
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectSessionForDashboard, sessionID)
	var sid, mentorID, name, description, duration, sessionType string
	if err := row.Scan(&sid, &mentorID, &name, &description, &duration, &sessionType); err == nil {
		if name != "" {
			sessionName = name
		}
		booking["duration"] = duration
		booking["session_type"] = sessionType

		urow := a.SQL.QueryRow(r.Context(), sqlinline.QSelectUsernameByUserID, mentorID)
		var mentorUsername string
		if err := urow.Scan(&mentorUsername); err == nil && mentorUsername != "" {
			mentorName = titleCaser.String(mentorUsername)
			mentors[mentorID] = true
		}
	}

	booking["session_name"] = sessionName
	booking["mentor_name"] = mentorName
	return booking
}

func displayNameFromEmail(email string) string {
	local := email
	if i := strings.IndexByte(email, '@'); i > 0 {
		local = email[:i]
	}
	local = strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(local)
	return titleCaser.String(local)
}
