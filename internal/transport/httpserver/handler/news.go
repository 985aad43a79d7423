package handler

import (
	"net/http"

	newsdomain "cendra-go/internal/domain/news"
)

type newsRequest struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Photo   *string `json:"photo"`
}

type updateNewsRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Photo   *string `json:"photo"`
}

type newsResponse struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Content        string  `json:"content"`
	Photo          *string `json:"photo"`
	AuthorID       int64   `json:"author_id"`
	AuthorName     string  `json:"author_name"`
	AuthorSurnames string  `json:"author_surnames"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

func (h *Handlers) ListNews(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, err := parseInt64Param(r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid id")
		return
	}

	records, err := h.News.List(r.Context(), p, newsdomain.ListFilter{ID: id})
	if err != nil {
		h.fail(w, "news.list", err, "user_id", p.UserID)
		return
	}

	response := make([]newsResponse, 0, len(records))
	for _, record := range records {
		response = append(response, h.toNewsResponse(r, record))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateNews(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req newsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	record, err := h.News.Create(r.Context(), p, newsdomain.CreateInput{Title: req.Title, Content: req.Content, Photo: req.Photo})
	if err != nil {
		h.fail(w, "news.create", err, "user_id", p.UserID)
		return
	}
	h.Dashboard.Invalidate(r.Context(), p)

	writeJSON(w, http.StatusCreated, h.toNewsResponse(r, *record))
}

func (h *Handlers) UpdateNews(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateNewsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	record, err := h.News.Update(r.Context(), p, id, newsdomain.UpdateInput{Title: req.Title, Content: req.Content, Photo: req.Photo})
	if err != nil {
		h.fail(w, "news.update", err, "user_id", p.UserID, "news_id", id)
		return
	}

	writeJSON(w, http.StatusOK, h.toNewsResponse(r, *record))
}

func (h *Handlers) DeleteNews(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.News.Delete(r.Context(), p, id); err != nil {
		h.fail(w, "news.delete", err, "user_id", p.UserID, "news_id", id)
		return
	}
	h.Dashboard.Invalidate(r.Context(), p)

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) toNewsResponse(r *http.Request, record newsdomain.Record) newsResponse {
	return newsResponse{
		ID:             record.ID,
		Title:          record.Title,
		Content:        record.Content,
		Photo:          h.mediaURL(r.Context(), record.Photo),
		AuthorID:       record.AuthorID,
		AuthorName:     record.AuthorName,
		AuthorSurnames: record.AuthorSurnames,
		CreatedAt:      record.CreatedAt.UTC().Format(timestampLayout),
		UpdatedAt:      record.UpdatedAt.UTC().Format(timestampLayout),
	}
}
