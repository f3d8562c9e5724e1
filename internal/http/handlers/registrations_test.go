package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"mentorhood/internal/mail"
	"mentorhood/internal/meeting"
	"mentorhood/internal/sqlinline"
)

type amaSessionRow struct {
	sessionID      string
	title          string
	mentor         []byte
	date           string
	timeOfDay      string
	duration       string
	registrants    int
	maxRegistrants int
}

// registrationTestSQL simulates the conditional seat-claim statement. When
// duplicate is set the claim fails with a unique violation; when the session
// is full the claim matches no rows.
type registrationTestSQL struct {
	session   *amaSessionRow
	duplicate bool
	claims    int
}

func (s *registrationTestSQL) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (s *registrationTestSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	switch query {
	case sqlinline.QSelectAMASessionForRegistration:
		if s.session == nil {
			return NewSimpleRow(nil)
		}
		sess := *s.session
		return NewSimpleRow(func(dest ...any) error {
			*(dest[0].(*string)) = sess.sessionID
			*(dest[1].(*string)) = sess.title
			*(dest[2].(*[]byte)) = sess.mentor
			*(dest[3].(*string)) = sess.date
			*(dest[4].(*string)) = sess.timeOfDay
			*(dest[5].(*string)) = sess.duration
			*(dest[6].(*int)) = sess.registrants
			*(dest[7].(*int)) = sess.maxRegistrants
			return nil
		})
	case sqlinline.QCreateRegistration:
		if s.duplicate {
			return errorRowFor(&pgconn.PgError{Code: "23505", ConstraintName: "registrations_email_session_uniq"})
		}
		if s.session == nil || s.session.registrants >= s.session.maxRegistrants {
			return NewSimpleRow(nil)
		}
		s.claims++
		s.session.registrants++
		registrationID := args[0].(string)
		meetingLink := args[7].(string)
		return NewSimpleRow(func(dest ...any) error {
			*(dest[0].(*string)) = registrationID
			*(dest[1].(*string)) = meetingLink
			*(dest[2].(*[]byte)) = []byte(`{"title":"` + s.session.title + `"}`)
			return nil
		})
	}
	return NewSimpleRow(func(...any) error {
		return fmt.Errorf("unexpected query: %s", query)
	})
}

func (s *registrationTestSQL) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, fmt.Errorf("query not expected in registration tests")
}

func errorRowFor(err error) pgx.Row {
	return NewSimpleRow(func(...any) error { return err })
}

func newRegistrationTestApp(sql *registrationTestSQL) *App {
	return &App{
		SQL:      sql,
		Logger:   zerolog.Nop(),
		Mailer:   mail.NopMailer{Logger: zerolog.Nop()},
		Meetings: meeting.NewGenerator("https://meet.mentorhood.com"),
	}
}

func openAMASession() *amaSessionRow {
	return &amaSessionRow{
		sessionID:      "sess-1",
		title:          "Breaking into Tech",
		mentor:         []byte(`{"name":"Dana","role":"Staff Engineer","company":"Acme"}`),
		date:           "2026-09-15",
		timeOfDay:      "18:00",
		duration:       "60 min",
		registrants:    3,
		maxRegistrants: 10,
	}
}

func TestRegistrationsCreate_Success(t *testing.T) {
	sql := &registrationTestSQL{session: openAMASession()}
	app := newRegistrationTestApp(sql)

	req := httptest.NewRequest("POST", "/api/registrations",
		strings.NewReader(`{"session_id":"sess-1","email":"mentee@example.com","name":"Sam"}`))
	rr := httptest.NewRecorder()
	app.RegistrationsCreate(rr, req)

	if rr.Code != 201 {
		t.Fatalf("unexpected status: got %d, want 201", rr.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	link, _ := body["meeting_link"].(string)
	if !strings.HasPrefix(link, "https://meet.mentorhood.com/") {
		t.Fatalf("unexpected meeting link: %q", link)
	}
	if sql.claims != 1 {
		t.Fatalf("expected one seat claim, got %d", sql.claims)
	}
	if sql.session.registrants != 4 {
		t.Fatalf("expected registrants 4, got %d", sql.session.registrants)
	}
}

func TestRegistrationsCreate_SessionNotFound(t *testing.T) {
	app := newRegistrationTestApp(&registrationTestSQL{})

	req := httptest.NewRequest("POST", "/api/registrations",
		strings.NewReader(`{"session_id":"missing","email":"mentee@example.com"}`))
	rr := httptest.NewRecorder()
	app.RegistrationsCreate(rr, req)

	if rr.Code != 404 {
		t.Fatalf("unexpected status: got %d, want 404", rr.Code)
	}
}

func TestRegistrationsCreate_FullSession(t *testing.T) {
	sess := openAMASession()
	sess.registrants = sess.maxRegistrants
	sql := &registrationTestSQL{session: sess}
	app := newRegistrationTestApp(sql)

	req := httptest.NewRequest("POST", "/api/registrations",
		strings.NewReader(`{"session_id":"sess-1","email":"mentee@example.com"}`))
	rr := httptest.NewRecorder()
	app.RegistrationsCreate(rr, req)

	if rr.Code != 400 {
		t.Fatalf("unexpected status: got %d, want 400", rr.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["code"] != "session_full" {
		t.Fatalf("unexpected error code: %#v", body["code"])
	}
	if sql.session.registrants != sql.session.maxRegistrants {
		t.Fatalf("counter must not move past capacity, got %d", sql.session.registrants)
	}
}

func TestRegistrationsCreate_DuplicateDoesNotBumpCounter(t *testing.T) {
	sql := &registrationTestSQL{session: openAMASession(), duplicate: true}
	app := newRegistrationTestApp(sql)

	req := httptest.NewRequest("POST", "/api/registrations",
		strings.NewReader(`{"session_id":"sess-1","email":"mentee@example.com"}`))
	rr := httptest.NewRecorder()
	app.RegistrationsCreate(rr, req)

	if rr.Code != 409 {
		t.Fatalf("unexpected status: got %d, want 409", rr.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["code"] != "already_registered" {
		t.Fatalf("unexpected error code: %#v", body["code"])
	}
	if sql.session.registrants != 3 {
		t.Fatalf("duplicate must not bump registrants, got %d", sql.session.registrants)
	}
}

func TestRegistrationsCheck(t *testing.T) {
	// The check endpoint only reflects what the exists query reports.
	app := &App{SQL: &existsTestSQL{registered: true}, Logger: zerolog.Nop()}

	req := httptest.NewRequest("GET", "/api/registrations/check/sess-1/mentee@example.com", nil)
	req = withURLParams(req, map[string]string{"session_id": "sess-1", "email": "mentee@example.com"})
	rr := httptest.NewRecorder()
	app.RegistrationsCheck(rr, req)

	if rr.Code != 200 {
		t.Fatalf("unexpected status: got %d, want 200", rr.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["registered"] != true {
		t.Fatalf("expected registered true, got %#v", body["registered"])
	}
}

type existsTestSQL struct {
	registered bool
}

func (s *existsTestSQL) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (s *existsTestSQL) QueryRow(_ context.Context, query string, _ ...any) pgx.Row {
	if query != sqlinline.QCheckRegistration {
		return errorRowFor(fmt.Errorf("unexpected query: %s", query))
	}
	return NewSimpleRow(func(dest ...any) error {
		*(dest[0].(*bool)) = s.registered
		return nil
	})
}

func (s *existsTestSQL) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, fmt.Errorf("query not expected")
}
