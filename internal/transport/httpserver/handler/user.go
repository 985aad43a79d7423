package handler

import (
	"net/http"

	affiliatedomain "cendra-go/internal/domain/affiliate"
)

type profileResponse struct {
	ID                int64   `json:"id"`
	Email             string  `json:"email"`
	EntityID          *int64  `json:"entity_id"`
	EntityName        *string `json:"entity_name"`
	IsEntityAdmin     bool    `json:"is_entity_admin"`
	AffiliateID       *int64  `json:"affiliate_id"`
	AffiliateName     *string `json:"affiliate_name"`
	AffiliateSurnames *string `json:"affiliate_surnames"`
	AffiliatePhoto    *string `json:"affiliate_photo"`
	AffiliatePosition *string `json:"affiliate_position"`
	Onboarding        int     `json:"onboarding"`
}

type uploadResponse struct {
	ID        int64  `json:"id"`
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	profile, err := h.Users.Me(r.Context(), p)
	if err != nil {
		h.fail(w, "users.me", err, "user_id", p.UserID)
		return
	}

	var position *string
	if p.HasAffiliate() {
		label, err := h.Affiliates.ResolvePosition(r.Context(), p, *p.AffiliateID)
		if err != nil {
			h.fail(w, "users.me", err, "user_id", p.UserID)
			return
		}
		position = &label
	}

	writeJSON(w, http.StatusOK, profileResponse{
		ID:                profile.ID,
		Email:             profile.Email,
		EntityID:          profile.EntityID,
		EntityName:        profile.EntityName,
		IsEntityAdmin:     profile.IsEntityAdmin,
		AffiliateID:       profile.AffiliateID,
		AffiliateName:     profile.AffiliateName,
		AffiliateSurnames: profile.AffiliateSurnames,
		AffiliatePhoto:    h.mediaURL(r.Context(), profile.AffiliatePhoto),
		AffiliatePosition: position,
		Onboarding:        int(profile.Onboarding),
	})
}

// RegisterOwnAffiliate creates the affiliate record of the caller during
// onboarding.
func (h *Handlers) RegisterOwnAffiliate(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req affiliateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	input, fields := req.toInput()
	if fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	record, err := h.Affiliates.RegisterSelf(r.Context(), p, input)
	if err != nil {
		h.fail(w, "users.register_affiliate", err, "user_id", p.UserID)
		return
	}
	h.Dashboard.Invalidate(r.Context(), p)

	writeJSON(w, http.StatusCreated, h.toAffiliateResponse(r.Context(), affiliatedomain.NewFullView(*record)))
}

func (h *Handlers) UploadOwnPhoto(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	upload, err := h.Affiliates.SetPhoto(r.Context(), p, nil)
	if err != nil {
		h.fail(w, "users.photo", err, "user_id", p.UserID)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{ID: upload.AffiliateID, Key: upload.Key, UploadURL: upload.UploadURL})
}
