package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	censusdomain "cendra-go/internal/domain/census"
	"cendra-go/internal/export"
	"github.com/go-chi/chi/v5"
)

type generateCensusRequest struct {
	Year int `json:"year"`
}

type censusSummaryResponse struct {
	ID        int64  `json:"id"`
	Year      int    `json:"year"`
	CreatedAt string `json:"created_at"`
	Entries   int64  `json:"entries"`
}

type censusEntryResponse struct {
	ID           int64  `json:"id"`
	AffiliateID  *int64 `json:"affiliate_id"`
	JCFNumber    *int   `json:"jcf_number"`
	CensusNumber *int   `json:"census_number"`
	Commission   string `json:"commission"`
	Surnames     string `json:"surnames"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	City         string `json:"city"`
	PostalCode   string `json:"postal_code"`
	Phone        string `json:"phone"`
	Birthday     string `json:"birthday"`
	Gender       string `json:"gender"`
	DocumentID   string `json:"document_id"`
	Position     string `json:"position"`
	Reward       string `json:"reward"`
}

type censusDetailResponse struct {
	ID        int64                 `json:"id"`
	Year      int                   `json:"year"`
	CreatedAt string                `json:"created_at"`
	Entries   []censusEntryResponse `json:"entries"`
}

func (h *Handlers) ListCensuses(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	summaries, err := h.Census.ListCensuses(r.Context(), p)
	if err != nil {
		h.fail(w, "census.list", err, "user_id", p.UserID)
		return
	}

	response := make([]censusSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		response = append(response, censusSummaryResponse{
			ID:        summary.ID,
			Year:      summary.Year,
			CreatedAt: summary.CreatedAt.UTC().Format(timestampLayout),
			Entries:   summary.Entries,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GenerateCensus(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req generateCensusRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.Year == 0 {
		req.Year = time.Now().Year()
	}

	detail, err := h.Census.GenerateCensus(r.Context(), p, req.Year)
	if err != nil {
		h.fail(w, "census.generate", err, "user_id", p.UserID, "year", req.Year)
		return
	}

	writeJSON(w, http.StatusCreated, toCensusDetailResponse(detail))
}

func (h *Handlers) GetCensus(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	year, ok := pathYear(w, r)
	if !ok {
		return
	}

	detail, err := h.Census.GetCensus(r.Context(), p, year)
	if err != nil {
		h.fail(w, "census.get", err, "user_id", p.UserID, "year", year)
		return
	}

	writeJSON(w, http.StatusOK, toCensusDetailResponse(detail))
}

func (h *Handlers) ExportCensus(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	year, ok := pathYear(w, r)
	if !ok {
		return
	}

	entries, err := h.Census.ExportCensus(r.Context(), p, year)
	if err != nil {
		h.fail(w, "census.export", err, "user_id", p.UserID, "year", year)
		return
	}

	rows := make([]export.Row, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, export.Row{
			JCFNumber:    entry.JCFNumber,
			CensusNumber: entry.CensusNumber,
			Commission:   entry.Commission,
			Surnames:     entry.Surnames,
			Name:         entry.Name,
			Address:      entry.Address,
			City:         entry.City,
			PostalCode:   entry.PostalCode,
			Phone:        entry.Phone,
			Birthday:     entry.Birthday,
			Gender:       entry.Gender,
			DocumentID:   entry.DocumentID,
			Position:     entry.Position,
			Reward:       entry.Reward,
		})
	}

	h.writeWorkbook(w, "census.export", export.Filename(year), rows)
}

// writeWorkbook renders into memory first so a failure still yields a JSON
// error instead of a truncated file.
func (h *Handlers) writeWorkbook(w http.ResponseWriter, op, filename string, rows []export.Row) {
	var buf bytes.Buffer
	if err := export.WriteCensus(&buf, rows); err != nil {
		h.fail(w, op, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func pathYear(w http.ResponseWriter, r *http.Request) (int, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid year")
		return 0, false
	}
	return year, true
}

func toCensusDetailResponse(detail *censusdomain.Detail) censusDetailResponse {
	entries := make([]censusEntryResponse, 0, len(detail.Entries))
	for _, entry := range detail.Entries {
		entries = append(entries, censusEntryResponse{
			ID:           entry.ID,
			AffiliateID:  entry.AffiliateID,
			JCFNumber:    entry.JCFNumber,
			CensusNumber: entry.CensusNumber,
			Commission:   entry.Commission,
			Surnames:     entry.Surnames,
			Name:         entry.Name,
			Address:      entry.Address,
			City:         entry.City,
			PostalCode:   entry.PostalCode,
			Phone:        entry.Phone,
			Birthday:     formatDate(entry.Birthday),
			Gender:       entry.Gender,
			DocumentID:   entry.DocumentID,
			Position:     entry.Position,
			Reward:       entry.Reward,
		})
	}
	return censusDetailResponse{
		ID:        detail.ID,
		Year:      detail.Year,
		CreatedAt: detail.CreatedAt.UTC().Format(timestampLayout),
		Entries:   entries,
	}
}
