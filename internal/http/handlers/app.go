// Package handlers contains every HTTP handler of the mentorhood API. All
// handlers hang off App, which carries the shared dependencies.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"mentorhood/internal/infra"
	"mentorhood/internal/mail"
	"mentorhood/internal/meeting"
	"mentorhood/internal/middleware"
	"mentorhood/internal/storage"
)

type App struct {
	SQL       infra.SQLExecutor
	Logger    zerolog.Logger
	Mailer    mail.Mailer
	Meetings  *meeting.Generator
	Uploader  storage.Uploader
	JWTSecret string

	FrontendURL string
}

type errorBody struct {
	Status string `json:"status"`
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errcode, detail string) {
	a.json(w, code, errorBody{Status: "error", Code: errcode, Detail: detail})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
