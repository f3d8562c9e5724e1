package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"mentorhood/internal/sqlinline"
)

type questionnaireCreateRequest struct {
	Title      string           `json:"title"`
	Content    string           `json:"content"`
	CategoryID string           `json:"category_id"`
	SessionID  string           `json:"session_id"`
	Authors    []map[string]any `json:"authors"`
}

type answerCreateRequest struct {
	Content string         `json:"content"`
	Author  map[string]any `json:"author"`
}

func (a *App) QuestionnairesList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := q.Get("category_id")
	limit := parsePositiveInt(q.Get("limit"), 20)
	skip := parsePositiveInt(q.Get("skip"), 0)

	query := sqlinline.QListQuestionnairesByTime
	if q.Get("sort") == "upvotes" {
		query = sqlinline.QListQuestionnairesByUpvotes
	}
	rows, err := a.SQL.Query(r.Context(), query, category, limit, skip)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list questionnaires failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load questions")
		return
	}
	defer rows.Close()
	items := []map[string]any{}
	for rows.Next() {
		item, err := scanQuestionnaire(rows.Scan)
		if err != nil {
			continue
		}
		items = append(items, item)
	}
	a.json(w, http.StatusOK, map[string]any{
		"status":    "success",
		"questions": items,
	})
}

func (a *App) QuestionnairesCreate(w http.ResponseWriter, r *http.Request) {
	var req questionnaireCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Title == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "title is required")
		return
	}
	if req.Authors == nil {
		req.Authors = []map[string]any{}
	}
	authors, err := json.Marshal(req.Authors)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid authors")
		return
	}

	questionnaireID := uuid.NewString()
	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertQuestionnaire,
		questionnaireID, req.Title, req.Content, nullIfEmpty(req.CategoryID), nullIfEmpty(req.SessionID), authors)
	if err := row.Scan(&questionnaireID); err != nil {
		a.Logger.Error().Err(err).Msg("insert questionnaire failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create question")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"status":      "success",
		"question_id": questionnaireID,
	})
}

func (a *App) QuestionnairesGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectQuestionnaire, id)
	item, err := scanQuestionnaire(row.Scan)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "question not found")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"status":   "success",
		"question": item,
	})
}

func (a *App) QuestionnairesUpvote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	row := a.SQL.QueryRow(r.Context(), sqlinline.QUpvoteQuestionnaire, id)
	var upvotes int
	if err := row.Scan(&upvotes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			a.error(w, http.StatusNotFound, "not_found", "question not found")
			return
		}
		a.Logger.Error().Err(err).Msg("upvote failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to upvote")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"status":  "success",
		"upvotes": upvotes,
	})
}

func (a *App) QuestionnairesAnswer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req answerCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Content == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "content is required")
		return
	}
	if req.Author == nil {
		req.Author = map[string]any{}
	}
	author, err := json.Marshal(req.Author)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid author")
		return
	}

	answerID := uuid.NewString()
	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertAnswer, answerID, id, req.Content, author)
	if err := row.Scan(&answerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			a.error(w, http.StatusNotFound, "not_found", "question not found")
			return
		}
		a.Logger.Error().Err(err).Msg("insert answer failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to store answer")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"status":    "success",
		"answer_id": answerID,
	})
}

func (a *App) QuestionnairesAnswers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListAnswersByQuestion, id)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list answers failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load answers")
		return
	}
	defer rows.Close()
	items := []map[string]any{}
	for rows.Next() {
		var answerID, questionID, content string
		var author []byte
		var upvotes int
		var createdAt time.Time
		if err := rows.Scan(&answerID, &questionID, &content, &author, &upvotes, &createdAt); err != nil {
			continue
		}
		items = append(items, map[string]any{
			"answer_id":   answerID,
			"question_id": questionID,
			"content":     content,
			"author":      json.RawMessage(author),
			"upvotes":     upvotes,
			"created_at":  createdAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{
		"status":  "success",
		"answers": items,
	})
}

func scanQuestionnaire(scan func(dest ...any) error) (map[string]any, error) {
	var questionnaireID, title, content string
	var categoryID, sessionID *string
	var authors []byte
	var upvotes, answers int
	var createdAt time.Time
	err := scan(&questionnaireID, &title, &content, &categoryID, &sessionID,
		&authors, &upvotes, &answers, &createdAt)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"question_id": questionnaireID,
		"title":       title,
		"content":     content,
		"category_id": derefOrEmpty(categoryID),
		"session_id":  derefOrEmpty(sessionID),
		"authors":     json.RawMessage(authors),
		"upvotes":     upvotes,
		"answers":     answers,
		"created_at":  createdAt,
	}, nil
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
