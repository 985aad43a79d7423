package handler

import (
	"net/http"

	directoratedomain "cendra-go/internal/domain/directorate"
)

type positionRequest struct {
	Name     string `json:"name"`
	Priority int    `json:"priority"`
}

type updatePositionRequest struct {
	Name     *string `json:"name"`
	Priority *int    `json:"priority"`
}

type directorateRequest struct {
	AffiliateID int64 `json:"affiliate_id"`
	PositionID  int64 `json:"position_id"`
}

type positionResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Priority int    `json:"priority"`
}

type directorateResponse struct {
	ID                int64  `json:"id"`
	AffiliateID       int64  `json:"affiliate_id"`
	PositionID        int64  `json:"position_id"`
	AffiliateName     string `json:"affiliate_name,omitempty"`
	AffiliateSurnames string `json:"affiliate_surnames,omitempty"`
	PositionName      string `json:"position_name,omitempty"`
}

func (h *Handlers) ListPositions(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	positions, err := h.Directorate.ListPositions(r.Context(), p)
	if err != nil {
		h.fail(w, "positions.list", err, "user_id", p.UserID)
		return
	}

	response := make([]positionResponse, 0, len(positions))
	for _, position := range positions {
		response = append(response, toPositionResponse(position))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreatePosition(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req positionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	position, err := h.Directorate.CreatePosition(r.Context(), p, directoratedomain.PositionInput{Name: req.Name, Priority: req.Priority})
	if err != nil {
		h.fail(w, "positions.create", err, "user_id", p.UserID)
		return
	}

	writeJSON(w, http.StatusCreated, toPositionResponse(*position))
}

func (h *Handlers) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updatePositionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	position, err := h.Directorate.UpdatePosition(r.Context(), p, id, directoratedomain.PositionUpdate{Name: req.Name, Priority: req.Priority})
	if err != nil {
		h.fail(w, "positions.update", err, "user_id", p.UserID, "position_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toPositionResponse(*position))
}

func (h *Handlers) DeletePosition(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Directorate.RemovePosition(r.Context(), p, id); err != nil {
		h.fail(w, "positions.delete", err, "user_id", p.UserID, "position_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListDirectorates(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	records, err := h.Directorate.ListDirectorates(r.Context(), p)
	if err != nil {
		h.fail(w, "directorate.list", err, "user_id", p.UserID)
		return
	}

	response := make([]directorateResponse, 0, len(records))
	for _, record := range records {
		response = append(response, directorateResponse{
			ID:                record.ID,
			AffiliateID:       record.AffiliateID,
			PositionID:        record.PositionID,
			AffiliateName:     record.AffiliateName,
			AffiliateSurnames: record.AffiliateSurnames,
			PositionName:      record.PositionName,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) AssignDirectorate(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req directorateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	directorate, err := h.Directorate.AssignDirectorate(r.Context(), p, directoratedomain.AssignInput{
		AffiliateID: req.AffiliateID,
		PositionID:  req.PositionID,
	})
	if err != nil {
		h.fail(w, "directorate.assign", err, "user_id", p.UserID, "affiliate_id", req.AffiliateID)
		return
	}

	writeJSON(w, http.StatusCreated, toDirectorateResponse(directorate))
}

func (h *Handlers) UpdateDirectorate(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req directorateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	directorate, err := h.Directorate.UpdateDirectorate(r.Context(), p, id, directoratedomain.AssignInput{
		AffiliateID: req.AffiliateID,
		PositionID:  req.PositionID,
	})
	if err != nil {
		h.fail(w, "directorate.update", err, "user_id", p.UserID, "directorate_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toDirectorateResponse(directorate))
}

func (h *Handlers) DeleteDirectorate(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Directorate.RemoveDirectorate(r.Context(), p, id); err != nil {
		h.fail(w, "directorate.delete", err, "user_id", p.UserID, "directorate_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toPositionResponse(position directoratedomain.Position) positionResponse {
	return positionResponse{ID: position.ID, Name: position.Name, Priority: position.Priority}
}

func toDirectorateResponse(directorate *directoratedomain.Directorate) directorateResponse {
	return directorateResponse{
		ID:          directorate.ID,
		AffiliateID: directorate.AffiliateID,
		PositionID:  directorate.PositionID,
	}
}
