package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"mentorhood/internal/domain/ledger"
	"mentorhood/internal/mail"
	"mentorhood/internal/middleware"
	"mentorhood/internal/sqlinline"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userUpdateRequest struct {
	Username *string `json:"username"`
	Role     *string `json:"role"`
	Disabled *bool   `json:"disabled"`
}

func (a *App) UsersRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "username, email and password are required")
		return
	}
	role := req.Role
	if role == "" {
		role = "mentee"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to hash password")
		return
	}

	userID := uuid.NewString()
	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertUser, userID, req.Username, req.Email, string(hash), role)
	if err := row.Scan(&userID); err != nil {
		if isUniqueViolation(err) {
			a.error(w, http.StatusConflict, "conflict", "email already registered")
			return
		}
		a.Logger.Error().Err(err).Msg("insert user failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create user")
		return
	}

	if err := a.initializeLedger(r, userID); err != nil {
		a.Logger.Error().Err(err).Str("user_id", userID).Msg("welcome grant failed")
	}

	locale := middleware.LocaleFromContext(r.Context())
	if subject, body, err := mail.Welcome(req.Username, locale); err == nil {
		if err := a.Mailer.Send(r.Context(), req.Email, subject, body); err != nil {
			a.Logger.Warn().Err(err).Str("email", req.Email).Msg("welcome email failed")
		}
	}

	a.json(w, http.StatusCreated, map[string]any{
		"status":  "success",
		"user_id": userID,
	})
}

func (a *App) UsersLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectUserByEmail, req.Email)
	var userID, username, email, passwordHash, role string
	var disabled bool
	if err := row.Scan(&userID, &username, &email, &passwordHash, &role, &disabled); err != nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid email or password")
		return
	}
	if disabled {
		a.error(w, http.StatusUnauthorized, "unauthorized", "account disabled")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid email or password")
		return
	}
	token, err := middleware.SignJWT(a.JWTSecret, middleware.TokenClaims{
		Sub:      userID,
		Email:    email,
		Role:     role,
		Exp:      time.Now().Add(24 * time.Hour).Unix(),
		Issuer:   "mentorhood",
		Audience: "mentorhood-clients",
	})
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign jwt failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"status": "success",
		"token":  token,
		"user": map[string]any{
			"user_id":  userID,
			"username": username,
			"email":    email,
			"role":     role,
		},
	})
}

func (a *App) UsersGet(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectUserByUserID, userID)
	var id, username, email, role string
	var disabled bool
	var createdAt, updatedAt time.Time
	if err := row.Scan(&id, &username, &email, &role, &disabled, &createdAt, &updatedAt); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "user not found")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"status": "success",
		"user": map[string]any{
			"user_id":    id,
			"username":   username,
			"email":      email,
			"role":       role,
			"disabled":   disabled,
			"created_at": createdAt,
			"updated_at": updatedAt,
		},
	})
}

func (a *App) UsersUpdate(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if !a.mayManageUser(r, userID) {
		a.error(w, http.StatusForbidden, "forbidden", "not allowed to modify this user")
		return
	}
	var req userUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QUpdateUser, userID, req.Username, req.Role, req.Disabled)
	var id, username, email, role string
	var disabled bool
	if err := row.Scan(&id, &username, &email, &role, &disabled); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			a.error(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		a.Logger.Error().Err(err).Msg("update user failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update user")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"status": "success",
		"user": map[string]any{
			"user_id":  id,
			"username": username,
			"email":    email,
			"role":     role,
			"disabled": disabled,
		},
	})
}

func (a *App) UsersDelete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	if !a.mayManageUser(r, userID) {
		a.error(w, http.StatusForbidden, "forbidden", "not allowed to modify this user")
		return
	}
	tag, err := a.SQL.Exec(r.Context(), sqlinline.QDeleteUser, userID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("delete user failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete user")
		return
	}
	if tag.RowsAffected() == 0 {
		a.error(w, http.StatusNotFound, "not_found", "user not found")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"status": "success"})
}

// mayManageUser allows a user to modify their own record and admins to
// modify anyone's.
func (a *App) mayManageUser(r *http.Request, userID string) bool {
	actor := a.currentUserID(r)
	if actor == "" {
		return false
	}
	return actor == userID || middleware.RoleFromContext(r.Context()) == "admin"
}

// initializeLedger seeds the welcome-bonus account for a new user. Safe to
// call more than once, the insert is a no-op when the account exists.
func (a *App) initializeLedger(r *http.Request, userID string) error {
	acct := ledger.NewAccount(userID, time.Now().UTC())
	usage, txns, err := marshalLedgerState(acct)
	if err != nil {
		return err
	}
	_, err = a.SQL.Exec(r.Context(), sqlinline.QInsertTokenAccount,
		acct.UserID, acct.PlanID, acct.PlanType, acct.SubscriptionStatus,
		acct.PurchasedDate, acct.ExpiryDate,
		acct.PurchasedTokens, acct.UsedTokens, acct.RemainingTokens,
		usage, txns)
	return err
}

func marshalLedgerState(acct ledger.Account) (usage, txns []byte, err error) {
	usage, err = json.Marshal(acct.Usage)
	if err != nil {
		return nil, nil, err
	}
	txns, err = json.Marshal(acct.Transactions)
	if err != nil {
		return nil, nil, err
	}
	return usage, txns, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
