package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	affiliatedomain "cendra-go/internal/domain/affiliate"
	censusdomain "cendra-go/internal/domain/census"
	"cendra-go/internal/export"
)

// documentTypeField accepts the numeric code or its label ("DNI", "NIE").
// Unknown values decode to zero and fail validation.
type documentTypeField affiliatedomain.DocumentType

func (f *documentTypeField) UnmarshalJSON(data []byte) error {
	value := string(data)
	if value == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(value); err == nil {
		value = unquoted
	}
	documentType, _ := affiliatedomain.ParseDocumentType(value)
	*f = documentTypeField(documentType)
	return nil
}

type paymentChoiceRequest struct {
	PaymentType   int     `json:"payment_type"`
	AccountHolder *string `json:"account_holder"`
	AccountIBAN   *string `json:"account_iban"`
}

func (req paymentChoiceRequest) toInput() affiliatedomain.PaymentChoiceInput {
	return affiliatedomain.PaymentChoiceInput{
		PaymentType:   affiliatedomain.PaymentType(req.PaymentType),
		AccountHolder: req.AccountHolder,
		AccountIBAN:   req.AccountIBAN,
	}
}

type affiliateRequest struct {
	CensusNumber  *int                  `json:"census_number"`
	JCFNumber     *int                  `json:"jcf_number"`
	Name          string                `json:"name"`
	Surnames      string                `json:"surnames"`
	DocumentType  documentTypeField     `json:"document_type"`
	DocumentID    string                `json:"document_id"`
	Email         string                `json:"email"`
	Phone         string                `json:"phone"`
	Birthday      string                `json:"birthday"`
	Gender        string                `json:"gender"`
	Address       string                `json:"address"`
	PostalCode    string                `json:"postal_code"`
	City          string                `json:"city"`
	Province      string                `json:"province"`
	Country       string                `json:"country"`
	HasLegalTutor bool                  `json:"has_legal_tutor"`
	LegalTutorID  *int64                `json:"legal_tutor_id"`
	PaymentChoice *paymentChoiceRequest `json:"payment_choice"`
}

func (req affiliateRequest) toInput() (affiliatedomain.CreateInput, map[string]string) {
	input := affiliatedomain.CreateInput{
		CensusNumber:  req.CensusNumber,
		JCFNumber:     req.JCFNumber,
		Name:          req.Name,
		Surnames:      req.Surnames,
		DocumentType:  affiliatedomain.DocumentType(req.DocumentType),
		DocumentID:    req.DocumentID,
		Email:         req.Email,
		Phone:         req.Phone,
		Gender:        affiliatedomain.Gender(req.Gender),
		Address:       req.Address,
		PostalCode:    req.PostalCode,
		City:          req.City,
		Province:      req.Province,
		Country:       req.Country,
		HasLegalTutor: req.HasLegalTutor,
		LegalTutorID:  req.LegalTutorID,
	}
	if req.PaymentChoice != nil {
		choice := req.PaymentChoice.toInput()
		input.PaymentChoice = &choice
	}
	if req.Birthday != "" {
		birthday, err := parseDateRequired(req.Birthday)
		if err != nil {
			return input, map[string]string{"birthday": "must be a date formatted YYYY-MM-DD"}
		}
		input.Birthday = birthday
	}
	return input, nil
}

type updateAffiliateRequest struct {
	CensusNumber  *int               `json:"census_number"`
	JCFNumber     *int               `json:"jcf_number"`
	Name          *string            `json:"name"`
	Surnames      *string            `json:"surnames"`
	DocumentType  *documentTypeField `json:"document_type"`
	DocumentID    *string            `json:"document_id"`
	Email         *string            `json:"email"`
	Phone         *string            `json:"phone"`
	Birthday      *string            `json:"birthday"`
	Gender        *string            `json:"gender"`
	Address       *string            `json:"address"`
	PostalCode    *string            `json:"postal_code"`
	City          *string            `json:"city"`
	Province      *string            `json:"province"`
	Country       *string            `json:"country"`
	HasLegalTutor *bool              `json:"has_legal_tutor"`
	LegalTutorID  *int64             `json:"legal_tutor_id"`
	Active        *bool              `json:"active"`
}

func (req updateAffiliateRequest) toInput() (affiliatedomain.UpdateInput, map[string]string) {
	input := affiliatedomain.UpdateInput{
		CensusNumber:  req.CensusNumber,
		JCFNumber:     req.JCFNumber,
		Name:          req.Name,
		Surnames:      req.Surnames,
		DocumentID:    req.DocumentID,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		PostalCode:    req.PostalCode,
		City:          req.City,
		Province:      req.Province,
		Country:       req.Country,
		HasLegalTutor: req.HasLegalTutor,
		LegalTutorID:  req.LegalTutorID,
		Active:        req.Active,
	}
	if req.DocumentType != nil {
		documentType := affiliatedomain.DocumentType(*req.DocumentType)
		input.DocumentType = &documentType
	}
	if req.Gender != nil {
		gender := affiliatedomain.Gender(*req.Gender)
		input.Gender = &gender
	}
	birthday, err := parseDateParam(req.Birthday)
	if err != nil {
		return input, map[string]string{"birthday": "must be a date formatted YYYY-MM-DD"}
	}
	input.Birthday = birthday
	return input, nil
}

type paymentChoiceResponse struct {
	ID            int64   `json:"id"`
	AffiliateID   int64   `json:"affiliate_id"`
	PaymentType   int     `json:"payment_type"`
	AccountHolder *string `json:"account_holder"`
	AccountIBAN   *string `json:"account_iban"`
}

type affiliateResponse struct {
	ID            int64                  `json:"id"`
	EntityID      int64                  `json:"entity_id"`
	CensusNumber  *int                   `json:"census_number"`
	JCFNumber     *int                   `json:"jcf_number"`
	Name          string                 `json:"name"`
	Surnames      string                 `json:"surnames"`
	DocumentType  int                    `json:"document_type"`
	DocumentLabel string                 `json:"document_type_label"`
	DocumentID    string                 `json:"document_id"`
	Email         string                 `json:"email"`
	Phone         string                 `json:"phone"`
	Photo         string                 `json:"photo"`
	Birthday      string                 `json:"birthday"`
	Gender        string                 `json:"gender"`
	Address       string                 `json:"address"`
	PostalCode    string                 `json:"postal_code"`
	City          string                 `json:"city"`
	Province      string                 `json:"province"`
	Country       string                 `json:"country"`
	HasLegalTutor bool                   `json:"has_legal_tutor"`
	LegalTutorID  *int64                 `json:"legal_tutor_id"`
	Active        bool                   `json:"active"`
	Position      string                 `json:"position"`
	PaymentChoice *paymentChoiceResponse `json:"payment_choice"`
}

type limitedAffiliateResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Surnames string `json:"surnames"`
	Photo    string `json:"photo"`
	Position string `json:"position"`
}

func (h *Handlers) ListAffiliates(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	id, err := parseInt64Param(query.Get("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid id")
		return
	}
	includeInactive, err := parseBoolParam(query.Get("include_inactive"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid include_inactive")
		return
	}

	if id != nil {
		view, err := h.Affiliates.GetAffiliate(r.Context(), p, *id)
		if err != nil {
			h.fail(w, "affiliates.get", err, "user_id", p.UserID, "affiliate_id", *id)
			return
		}
		writeJSON(w, http.StatusOK, []interface{}{h.toViewResponse(r.Context(), view)})
		return
	}

	views, err := h.Affiliates.ListAffiliates(r.Context(), p, affiliatedomain.ListFilter{IncludeInactive: includeInactive})
	if err != nil {
		h.fail(w, "affiliates.list", err, "user_id", p.UserID)
		return
	}

	response := make([]interface{}, 0, len(views))
	for _, view := range views {
		response = append(response, h.toViewResponse(r.Context(), view))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateAffiliate(w http.ResponseWriter, r *http.Request) {
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

	record, err := h.Affiliates.CreateAffiliate(r.Context(), p, input)
	if err != nil {
		h.fail(w, "affiliates.create", err, "user_id", p.UserID)
		return
	}
	h.Dashboard.Invalidate(r.Context(), p)

	writeJSON(w, http.StatusCreated, h.toAffiliateResponse(r.Context(), affiliatedomain.NewFullView(*record)))
}

func (h *Handlers) UpdateAffiliate(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateAffiliateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	input, fields := req.toInput()
	if fields != nil {
		writeFieldErrors(w, fields)
		return
	}

	record, err := h.Affiliates.UpdateAffiliate(r.Context(), p, id, input)
	if err != nil {
		h.fail(w, "affiliates.update", err, "user_id", p.UserID, "affiliate_id", id)
		return
	}
	h.Dashboard.Invalidate(r.Context(), p)

	writeJSON(w, http.StatusOK, h.toAffiliateResponse(r.Context(), affiliatedomain.NewFullView(*record)))
}

func (h *Handlers) DeactivateAffiliate(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Affiliates.DeactivateAffiliate(r.Context(), p, id); err != nil {
		h.fail(w, "affiliates.deactivate", err, "user_id", p.UserID, "affiliate_id", id)
		return
	}
	h.Dashboard.Invalidate(r.Context(), p)

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) UploadAffiliatePhoto(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	upload, err := h.Affiliates.SetPhoto(r.Context(), p, &id)
	if err != nil {
		h.fail(w, "affiliates.photo", err, "user_id", p.UserID, "affiliate_id", id)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{ID: upload.AffiliateID, Key: upload.Key, UploadURL: upload.UploadURL})
}

// ExportAffiliates streams the active affiliates in the census sheet layout,
// classified as of today.
func (h *Handlers) ExportAffiliates(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	views, err := h.Affiliates.ExportAffiliates(r.Context(), p)
	if err != nil {
		h.fail(w, "affiliates.export", err, "user_id", p.UserID)
		return
	}

	now := time.Now()
	rows := make([]export.Row, 0, len(views))
	for _, view := range views {
		rows = append(rows, export.Row{
			JCFNumber:    view.JCFNumber,
			CensusNumber: view.CensusNumber,
			Commission:   censusdomain.Classify(view.Birthday, now.Year(), now),
			Surnames:     view.Surnames,
			Name:         view.Name,
			Address:      view.Address,
			City:         view.City,
			PostalCode:   view.PostalCode,
			Phone:        view.Phone,
			Birthday:     view.Birthday,
			Gender:       string(view.Gender),
			DocumentID:   view.DocumentID,
			Position:     view.Position,
		})
	}

	h.writeWorkbook(w, "affiliates.export", export.AffiliatesFilename, rows)
}

func (h *Handlers) GetPaymentChoice(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	choice, err := h.Affiliates.GetPaymentChoice(r.Context(), p, id)
	if err != nil {
		h.fail(w, "affiliates.payment_choice.get", err, "user_id", p.UserID, "affiliate_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toPaymentChoiceResponse(choice))
}

func (h *Handlers) SavePaymentChoice(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req paymentChoiceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	choice, err := h.Affiliates.SavePaymentChoice(r.Context(), p, id, req.toInput())
	if err != nil {
		h.fail(w, "affiliates.payment_choice.save", err, "user_id", p.UserID, "affiliate_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toPaymentChoiceResponse(choice))
}

func (h *Handlers) toViewResponse(ctx context.Context, view affiliatedomain.View) interface{} {
	switch v := view.(type) {
	case affiliatedomain.FullView:
		return h.toAffiliateResponse(ctx, v)
	case affiliatedomain.LimitedView:
		return limitedAffiliateResponse{
			ID:       v.ID,
			Name:     v.Name,
			Surnames: v.Surnames,
			Photo:    h.mediaURLValue(ctx, v.Photo),
			Position: v.Position,
		}
	}
	return limitedAffiliateResponse{ID: view.RecordID()}
}

func (h *Handlers) toAffiliateResponse(ctx context.Context, view affiliatedomain.FullView) affiliateResponse {
	response := affiliateResponse{
		ID:            view.ID,
		EntityID:      view.EntityID,
		CensusNumber:  view.CensusNumber,
		JCFNumber:     view.JCFNumber,
		Name:          view.Name,
		Surnames:      view.Surnames,
		DocumentType:  int(view.DocumentType),
		DocumentLabel: view.DocumentType.String(),
		DocumentID:    view.DocumentID,
		Email:         view.Email,
		Phone:         view.Phone,
		Photo:         h.mediaURLValue(ctx, view.Photo),
		Birthday:      formatDate(view.Birthday),
		Gender:        string(view.Gender),
		Address:       view.Address,
		PostalCode:    view.PostalCode,
		City:          view.City,
		Province:      view.Province,
		Country:       view.Country,
		HasLegalTutor: view.HasLegalTutor,
		LegalTutorID:  view.LegalTutorID,
		Active:        view.Active,
		Position:      view.Position,
	}
	if view.PaymentChoice != nil {
		choice := toPaymentChoiceResponse(view.PaymentChoice)
		response.PaymentChoice = &choice
	}
	return response
}

func toPaymentChoiceResponse(choice *affiliatedomain.PaymentChoice) paymentChoiceResponse {
	return paymentChoiceResponse{
		ID:            choice.ID,
		AffiliateID:   choice.AffiliateID,
		PaymentType:   int(choice.PaymentType),
		AccountHolder: choice.AccountHolder,
		AccountIBAN:   choice.AccountIBAN,
	}
}
