package handler

import (
	"net/http"

	entitydomain "cendra-go/internal/domain/entity"
)

type entityRequest struct {
	Name             string `json:"name"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	BusinessName     string `json:"business_name"`
	NIF              string `json:"nif"`
	RegistryNumber   string `json:"registry_number"`
	SocialAddress    string `json:"social_address"`
	PostalCode       string `json:"postal_code"`
	City             string `json:"city"`
	Province         string `json:"province"`
	Country          string `json:"country"`
	IsSameAddress    *bool  `json:"is_same_address"`
	FiscalAddress    string `json:"fiscal_address"`
	FiscalPostalCode string `json:"fiscal_postal_code"`
	FiscalCity       string `json:"fiscal_city"`
	FiscalProvince   string `json:"fiscal_province"`
	FiscalCountry    string `json:"fiscal_country"`
	JoinPassword     string `json:"join_password"`
}

type updateEntityRequest struct {
	Name             *string `json:"name"`
	Phone            *string `json:"phone"`
	Email            *string `json:"email"`
	BusinessName     *string `json:"business_name"`
	NIF              *string `json:"nif"`
	RegistryNumber   *string `json:"registry_number"`
	SocialAddress    *string `json:"social_address"`
	PostalCode       *string `json:"postal_code"`
	City             *string `json:"city"`
	Province         *string `json:"province"`
	Country          *string `json:"country"`
	IsSameAddress    *bool   `json:"is_same_address"`
	FiscalAddress    *string `json:"fiscal_address"`
	FiscalPostalCode *string `json:"fiscal_postal_code"`
	FiscalCity       *string `json:"fiscal_city"`
	FiscalProvince   *string `json:"fiscal_province"`
	FiscalCountry    *string `json:"fiscal_country"`
	JoinPassword     *string `json:"join_password"`
}

type joinEntityRequest struct {
	EntityID int64  `json:"entity_id"`
	Password string `json:"password"`
}

type publicEntityResponse struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Logo *string `json:"logo"`
}

type entityResponse struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Phone            string  `json:"phone"`
	Email            string  `json:"email"`
	Logo             *string `json:"logo"`
	BusinessName     string  `json:"business_name"`
	NIF              string  `json:"nif"`
	RegistryNumber   string  `json:"registry_number"`
	SocialAddress    string  `json:"social_address"`
	PostalCode       string  `json:"postal_code"`
	City             string  `json:"city"`
	Province         string  `json:"province"`
	Country          string  `json:"country"`
	IsSameAddress    bool    `json:"is_same_address"`
	FiscalAddress    string  `json:"fiscal_address"`
	FiscalPostalCode string  `json:"fiscal_postal_code"`
	FiscalCity       string  `json:"fiscal_city"`
	FiscalProvince   string  `json:"fiscal_province"`
	FiscalCountry    string  `json:"fiscal_country"`
}

func (h *Handlers) ListPublicEntities(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64Param(r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid id")
		return
	}

	entities, err := h.Entities.ListPublic(r.Context(), entitydomain.PublicFilter{ID: id})
	if err != nil {
		h.fail(w, "entities.list_public", err)
		return
	}

	response := make([]publicEntityResponse, 0, len(entities))
	for _, entity := range entities {
		response = append(response, publicEntityResponse{
			ID:   entity.ID,
			Name: entity.Name,
			Logo: h.mediaURL(r.Context(), entity.Logo),
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetEntity(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	entity, err := h.Entities.GetEntity(r.Context(), p)
	if err != nil {
		h.fail(w, "entities.get", err, "user_id", p.UserID)
		return
	}

	writeJSON(w, http.StatusOK, h.toEntityResponse(r, entity))
}

func (h *Handlers) CreateEntity(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req entityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	entity, err := h.Entities.CreateEntity(r.Context(), p, entitydomain.CreateInput{
		Name:             req.Name,
		Phone:            req.Phone,
		Email:            req.Email,
		BusinessName:     req.BusinessName,
		NIF:              req.NIF,
		RegistryNumber:   req.RegistryNumber,
		SocialAddress:    req.SocialAddress,
		PostalCode:       req.PostalCode,
		City:             req.City,
		Province:         req.Province,
		Country:          req.Country,
		IsSameAddress:    req.IsSameAddress,
		FiscalAddress:    req.FiscalAddress,
		FiscalPostalCode: req.FiscalPostalCode,
		FiscalCity:       req.FiscalCity,
		FiscalProvince:   req.FiscalProvince,
		FiscalCountry:    req.FiscalCountry,
		JoinPassword:     req.JoinPassword,
	})
	if err != nil {
		h.fail(w, "entities.create", err, "user_id", p.UserID)
		return
	}

	writeJSON(w, http.StatusCreated, h.toEntityResponse(r, entity))
}

func (h *Handlers) UpdateEntity(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req updateEntityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	entity, err := h.Entities.UpdateEntity(r.Context(), p, entitydomain.UpdateInput{
		Name:             req.Name,
		Phone:            req.Phone,
		Email:            req.Email,
		BusinessName:     req.BusinessName,
		NIF:              req.NIF,
		RegistryNumber:   req.RegistryNumber,
		SocialAddress:    req.SocialAddress,
		PostalCode:       req.PostalCode,
		City:             req.City,
		Province:         req.Province,
		Country:          req.Country,
		IsSameAddress:    req.IsSameAddress,
		FiscalAddress:    req.FiscalAddress,
		FiscalPostalCode: req.FiscalPostalCode,
		FiscalCity:       req.FiscalCity,
		FiscalProvince:   req.FiscalProvince,
		FiscalCountry:    req.FiscalCountry,
		JoinPassword:     req.JoinPassword,
	})
	if err != nil {
		h.fail(w, "entities.update", err, "user_id", p.UserID)
		return
	}

	writeJSON(w, http.StatusOK, h.toEntityResponse(r, entity))
}

func (h *Handlers) JoinEntity(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	var req joinEntityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	entity, err := h.Entities.JoinEntity(r.Context(), p, entitydomain.JoinInput{EntityID: req.EntityID, Password: req.Password})
	if err != nil {
		h.fail(w, "entities.join", err, "user_id", p.UserID, "entity_id", req.EntityID)
		return
	}

	writeJSON(w, http.StatusCreated, publicEntityResponse{
		ID:   entity.ID,
		Name: entity.Name,
		Logo: h.mediaURL(r.Context(), entity.Logo),
	})
}

func (h *Handlers) UploadEntityLogo(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}

	upload, err := h.Entities.SetLogo(r.Context(), p)
	if err != nil {
		h.fail(w, "entities.logo", err, "user_id", p.UserID)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{ID: upload.EntityID, Key: upload.Key, UploadURL: upload.UploadURL})
}

func (h *Handlers) toEntityResponse(r *http.Request, entity *entitydomain.Entity) entityResponse {
	return entityResponse{
		ID:               entity.ID,
		Name:             entity.Name,
		Phone:            entity.Phone,
		Email:            entity.Email,
		Logo:             h.mediaURL(r.Context(), entity.Logo),
		BusinessName:     entity.BusinessName,
		NIF:              entity.NIF,
		RegistryNumber:   entity.RegistryNumber,
		SocialAddress:    entity.SocialAddress,
		PostalCode:       entity.PostalCode,
		City:             entity.City,
		Province:         entity.Province,
		Country:          entity.Country,
		IsSameAddress:    entity.IsSameAddress,
		FiscalAddress:    entity.FiscalAddress,
		FiscalPostalCode: entity.FiscalPostalCode,
		FiscalCity:       entity.FiscalCity,
		FiscalProvince:   entity.FiscalProvince,
		FiscalCountry:    entity.FiscalCountry,
	}
}
