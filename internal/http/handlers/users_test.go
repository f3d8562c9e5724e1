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
	"golang.org/x/crypto/bcrypt"

	"mentorhood/internal/mail"
	"mentorhood/internal/middleware"
	"mentorhood/internal/sqlinline"
)

type userTestSQL struct {
	duplicate    bool
	passwordHash string
	disabled     bool
	ledgerSeeded bool
}

func (s *userTestSQL) Exec(_ context.Context, query string, _ ...any) (pgconn.CommandTag, error) {
	if query == sqlinline.QInsertTokenAccount {
		s.ledgerSeeded = true
	}
	return pgconn.CommandTag{}, nil
}

func (s *userTestSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	switch query {
	case sqlinline.QInsertUser:
		if s.duplicate {
			return errorRowFor(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
		}
		userID := args[0].(string)
		return NewSimpleRow(func(dest ...any) error {
			*(dest[0].(*string)) = userID
			return nil
		})
	case sqlinline.QUpdateUser:
		userID := args[0].(string)
		return NewSimpleRow(func(dest ...any) error {
			*(dest[0].(*string)) = userID
			*(dest[1].(*string)) = "sam"
			*(dest[2].(*string)) = "sam@example.com"
			*(dest[3].(*string)) = "mentee"
			*(dest[4].(*bool)) = false
			return nil
		})
	case sqlinline.QSelectUserByEmail:
		if s.passwordHash == "" {
			return NewSimpleRow(nil)
		}
		return NewSimpleRow(func(dest ...any) error {
			*(dest[0].(*string)) = "u1"
			*(dest[1].(*string)) = "sam"
			*(dest[2].(*string)) = "sam@example.com"
			*(dest[3].(*string)) = s.passwordHash
			*(dest[4].(*string)) = "mentee"
			*(dest[5].(*bool)) = s.disabled
			return nil
		})
	}
	return NewSimpleRow(func(...any) error {
		return fmt.Errorf("unexpected query: %s", query)
	})
}

func (s *userTestSQL) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, fmt.Errorf("query not expected in user tests")
}

func newUserTestApp(sql *userTestSQL) *App {
	return &App{
		SQL:       sql,
		Logger:    zerolog.Nop(),
		Mailer:    mail.NopMailer{Logger: zerolog.Nop()},
		JWTSecret: "test-secret",
	}
}

func TestUsersRegister_SeedsWelcomeGrant(t *testing.T) {
	sql := &userTestSQL{}
	app := newUserTestApp(sql)

	req := httptest.NewRequest("POST", "/api/users/register",
		strings.NewReader(`{"username":"sam","email":"sam@example.com","password":"hunter22"}`))
	rr := httptest.NewRecorder()
	app.UsersRegister(rr, req)

	if rr.Code != 201 {
		t.Fatalf("unexpected status: got %d, want 201", rr.Code)
	}
	if !sql.ledgerSeeded {
		t.Fatalf("registration must initialize the token ledger")
	}
	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["user_id"] == "" {
		t.Fatalf("expected generated user_id")
	}
}

func TestUsersRegister_DuplicateEmail(t *testing.T) {
	app := newUserTestApp(&userTestSQL{duplicate: true})

	req := httptest.NewRequest("POST", "/api/users/register",
		strings.NewReader(`{"username":"sam","email":"sam@example.com","password":"hunter22"}`))
	rr := httptest.NewRecorder()
	app.UsersRegister(rr, req)

	if rr.Code != 409 {
		t.Fatalf("unexpected status: got %d, want 409", rr.Code)
	}
}

func TestUsersLogin_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	app := newUserTestApp(&userTestSQL{passwordHash: string(hash)})

	req := httptest.NewRequest("POST", "/api/users/login",
		strings.NewReader(`{"email":"sam@example.com","password":"wrong"}`))
	rr := httptest.NewRecorder()
	app.UsersLogin(rr, req)

	if rr.Code != 401 {
		t.Fatalf("unexpected status: got %d, want 401", rr.Code)
	}
}

func TestUsersLogin_ReturnsToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	app := newUserTestApp(&userTestSQL{passwordHash: string(hash)})

	req := httptest.NewRequest("POST", "/api/users/login",
		strings.NewReader(`{"email":"sam@example.com","password":"correct horse"}`))
	rr := httptest.NewRecorder()
	app.UsersLogin(rr, req)

	if rr.Code != 200 {
		t.Fatalf("unexpected status: got %d, want 200", rr.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	token, _ := body["token"].(string)
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected a JWT, got %q", token)
	}
}

func TestUsersUpdate_ForbiddenForOtherUser(t *testing.T) {
	app := newUserTestApp(&userTestSQL{})

	req := httptest.NewRequest("PUT", "/api/users/u2", strings.NewReader(`{"username":"new"}`))
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), "u1"))
	req = withURLParams(req, map[string]string{"user_id": "u2"})
	rr := httptest.NewRecorder()
	app.UsersUpdate(rr, req)

	if rr.Code != 403 {
		t.Fatalf("unexpected status: got %d, want 403", rr.Code)
	}
}

func TestUsersUpdate_Self(t *testing.T) {
	app := newUserTestApp(&userTestSQL{})

	req := httptest.NewRequest("PUT", "/api/users/u1", strings.NewReader(`{"username":"new"}`))
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), "u1"))
	req = withURLParams(req, map[string]string{"user_id": "u1"})
	rr := httptest.NewRecorder()
	app.UsersUpdate(rr, req)

	if rr.Code != 200 {
		t.Fatalf("unexpected status: got %d, want 200", rr.Code)
	}
}

func TestUsersLogin_DisabledAccount(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	app := newUserTestApp(&userTestSQL{passwordHash: string(hash), disabled: true})

	req := httptest.NewRequest("POST", "/api/users/login",
		strings.NewReader(`{"email":"sam@example.com","password":"correct horse"}`))
	rr := httptest.NewRecorder()
	app.UsersLogin(rr, req)

	if rr.Code != 401 {
		t.Fatalf("unexpected status: got %d, want 401", rr.Code)
	}
}
