package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"cendra-go/internal/domain"
	"cendra-go/internal/domain/access"
	affiliatedomain "cendra-go/internal/domain/affiliate"
	censusdomain "cendra-go/internal/domain/census"
	dashboarddomain "cendra-go/internal/domain/dashboard"
	entitydomain "cendra-go/internal/domain/entity"
	treasurydomain "cendra-go/internal/domain/treasury"
	userdomain "cendra-go/internal/domain/user"
	"cendra-go/internal/storage"
	"cendra-go/internal/transport/httpserver/middleware"
	"cendra-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAffiliateRepo struct {
	nextID     int64
	affiliates map[int64]affiliatedomain.Affiliate
	choices    map[int64]affiliatedomain.PaymentChoice
	positions  map[int64]string
	links      map[int64]int64
}

func newFakeAffiliateRepo() *fakeAffiliateRepo {
	return &fakeAffiliateRepo{
		affiliates: make(map[int64]affiliatedomain.Affiliate),
		choices:    make(map[int64]affiliatedomain.PaymentChoice),
		positions:  make(map[int64]string),
		links:      make(map[int64]int64),
	}
}

func (f *fakeAffiliateRepo) Transaction(ctx context.Context, fn func(affiliatedomain.Repository) error) error {
	return fn(f)
}

func (f *fakeAffiliateRepo) List(ctx context.Context, scope access.Scope, filter affiliatedomain.ListFilter) ([]affiliatedomain.Record, error) {
	records := make([]affiliatedomain.Record, 0)
	for _, a := range f.affiliates {
		if a.EntityID != scope.EntityID() || (!filter.IncludeInactive && !a.Active) {
			continue
		}
		if filter.ID != nil && *filter.ID != a.ID {
			continue
		}
		record := affiliatedomain.Record{Affiliate: a}
		if choice, ok := f.choices[a.ID]; ok {
			record.PaymentChoice = &choice
		}
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

func (f *fakeAffiliateRepo) Get(ctx context.Context, scope access.Scope, id int64) (*affiliatedomain.Record, error) {
	a, ok := f.affiliates[id]
	if !ok || a.EntityID != scope.EntityID() {
		return nil, affiliatedomain.ErrAffiliateNotFound
	}
	record := affiliatedomain.Record{Affiliate: a}
	if choice, ok := f.choices[id]; ok {
		record.PaymentChoice = &choice
	}
	return &record, nil
}

func (f *fakeAffiliateRepo) Exists(ctx context.Context, scope access.Scope, id int64) (bool, error) {
	a, ok := f.affiliates[id]
	return ok && a.EntityID == scope.EntityID(), nil
}

func (f *fakeAffiliateRepo) Create(ctx context.Context, affiliate *affiliatedomain.Affiliate) error {
	f.nextID++
	affiliate.ID = f.nextID
	f.affiliates[affiliate.ID] = *affiliate
	return nil
}

func (f *fakeAffiliateRepo) Update(ctx context.Context, scope access.Scope, affiliate *affiliatedomain.Affiliate) error {
	f.affiliates[affiliate.ID] = *affiliate
	return nil
}

func (f *fakeAffiliateRepo) SetActive(ctx context.Context, scope access.Scope, id int64, active bool) error {
	a, ok := f.affiliates[id]
	if !ok || a.EntityID != scope.EntityID() {
		return affiliatedomain.ErrAffiliateNotFound
	}
	a.Active = active
	f.affiliates[id] = a
	return nil
}

func (f *fakeAffiliateRepo) SetPhoto(ctx context.Context, scope access.Scope, id int64, photo string) error {
	a := f.affiliates[id]
	a.Photo = photo
	f.affiliates[id] = a
	return nil
}

func (f *fakeAffiliateRepo) GetPositionName(ctx context.Context, scope access.Scope, id int64) (*string, error) {
	if _, err := f.Get(ctx, scope, id); err != nil {
		return nil, err
	}
	if name, ok := f.positions[id]; ok {
		return &name, nil
	}
	return nil, nil
}

func (f *fakeAffiliateRepo) GetPaymentChoice(ctx context.Context, affiliateID int64) (*affiliatedomain.PaymentChoice, error) {
	choice, ok := f.choices[affiliateID]
	if !ok {
		return nil, affiliatedomain.ErrPaymentChoiceNotFound
	}
	return &choice, nil
}

func (f *fakeAffiliateRepo) SavePaymentChoice(ctx context.Context, choice *affiliatedomain.PaymentChoice) error {
	f.choices[choice.AffiliateID] = *choice
	return nil
}

func (f *fakeAffiliateRepo) LinkPrincipal(ctx context.Context, userID, affiliateID int64, stage access.Stage) error {
	f.links[userID] = affiliateID
	return nil
}

type fakeEntityRepo struct {
	entities map[int64]entitydomain.Entity
	attached map[int64]attachment
}

type attachment struct {
	entityID int64
	admin    bool
	stage    access.Stage
}

func (f *fakeEntityRepo) Transaction(ctx context.Context, fn func(entitydomain.Repository) error) error {
	return fn(f)
}

func (f *fakeEntityRepo) ListPublic(ctx context.Context, filter entitydomain.PublicFilter) ([]entitydomain.PublicEntity, error) {
	var result []entitydomain.PublicEntity
	for _, e := range f.entities {
		result = append(result, entitydomain.PublicEntity{ID: e.ID, Name: e.Name, Logo: e.Logo})
	}
	return result, nil
}

func (f *fakeEntityRepo) GetByID(ctx context.Context, id int64) (*entitydomain.Entity, error) {
	e, ok := f.entities[id]
	if !ok {
		return nil, entitydomain.ErrEntityNotFound
	}
	return &e, nil
}

func (f *fakeEntityRepo) Get(ctx context.Context, scope access.Scope) (*entitydomain.Entity, error) {
	return f.GetByID(ctx, scope.EntityID())
}

func (f *fakeEntityRepo) Create(ctx context.Context, entity *entitydomain.Entity) error {
	entity.ID = int64(len(f.entities) + 1)
	f.entities[entity.ID] = *entity
	return nil
}

func (f *fakeEntityRepo) Update(ctx context.Context, scope access.Scope, entity *entitydomain.Entity) error {
	f.entities[entity.ID] = *entity
	return nil
}

func (f *fakeEntityRepo) SetLogo(ctx context.Context, scope access.Scope, logo string) error {
	e := f.entities[scope.EntityID()]
	e.Logo = &logo
	f.entities[e.ID] = e
	return nil
}

func (f *fakeEntityRepo) AttachUser(ctx context.Context, userID, entityID int64, admin bool, stage access.Stage) error {
	if _, ok := f.attached[userID]; ok {
		return entitydomain.ErrAlreadyMember
	}
	f.attached[userID] = attachment{entityID: entityID, admin: admin, stage: stage}
	return nil
}

type plainSecrets struct{}

func (plainSecrets) Hash(secret string) (string, error) {
	return "plain:" + secret, nil
}

func (plainSecrets) Verify(secret, hash string) (bool, error) {
	return hash == "plain:"+secret, nil
}

type fakeUserRepo struct {
	users map[int64]userdomain.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *userdomain.User) error {
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*userdomain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, userdomain.ErrUserNotFound
	}
	return &user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, userdomain.ErrUserNotFound
}

func (f *fakeUserRepo) GetProfile(ctx context.Context, id int64) (*userdomain.Profile, error) {
	user, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &userdomain.Profile{User: *user}, nil
}

type fakeTreasuryRepo struct {
	accounts map[int64]treasurydomain.Account
	totals   map[int64]treasurydomain.Totals
}

func (f *fakeTreasuryRepo) CreateAccount(ctx context.Context, account *treasurydomain.Account) error {
	account.ID = int64(len(f.accounts) + 1)
	f.accounts[account.ID] = *account
	return nil
}

func (f *fakeTreasuryRepo) ListAccounts(ctx context.Context, scope access.Scope) ([]treasurydomain.Account, error) {
	accounts := make([]treasurydomain.Account, 0)
	for _, account := range f.accounts {
		if account.EntityID == scope.EntityID() {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

func (f *fakeTreasuryRepo) GetAccount(ctx context.Context, scope access.Scope, id int64) (*treasurydomain.Account, error) {
	account, ok := f.accounts[id]
	if !ok || account.EntityID != scope.EntityID() {
		return nil, treasurydomain.ErrAccountNotFound
	}
	return &account, nil
}

func (f *fakeTreasuryRepo) Totals(ctx context.Context, accountIDs []int64) (map[int64]treasurydomain.Totals, error) {
	result := make(map[int64]treasurydomain.Totals)
	for _, id := range accountIDs {
		if totals, ok := f.totals[id]; ok {
			result[id] = totals
		}
	}
	return result, nil
}

func (f *fakeTreasuryRepo) AddMovement(ctx context.Context, movement *treasurydomain.Movement) error {
	return nil
}

func (f *fakeTreasuryRepo) ListMovements(ctx context.Context, accountID int64) ([]treasurydomain.Movement, error) {
	return nil, nil
}

func (f *fakeTreasuryRepo) CountMovements(ctx context.Context, scope access.Scope) (int64, error) {
	return 0, nil
}

type fakePresigner struct{}

func (fakePresigner) PresignUpload(ctx context.Context, key string) (string, error) {
	return "https://bucket.test/upload/" + key, nil
}

func (fakePresigner) PresignDownload(ctx context.Context, key string) (string, error) {
	return "https://bucket.test/" + key, nil
}

type fakeCensusRepo struct {
	nextID   int64
	censuses map[int64]censusdomain.Census
	entries  map[int64][]censusdomain.Entry
	members  []censusdomain.Member
}

func (r *fakeCensusRepo) Transaction(ctx context.Context, fn func(censusdomain.Repository) error) error {
	return fn(r)
}

func (r *fakeCensusRepo) DeleteByYear(ctx context.Context, scope access.Scope, year int) error {
	for id, c := range r.censuses {
		if c.EntityID == scope.EntityID() && c.Year == year {
			delete(r.censuses, id)
			delete(r.entries, id)
		}
	}
	return nil
}

func (r *fakeCensusRepo) Create(ctx context.Context, c *censusdomain.Census) error {
	r.nextID++
	c.ID = r.nextID
	c.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.censuses[c.ID] = *c
	return nil
}

func (r *fakeCensusRepo) CreateEntries(ctx context.Context, entries []censusdomain.Entry) error {
	for _, e := range entries {
		r.entries[e.CensusID] = append(r.entries[e.CensusID], e)
	}
	return nil
}

func (r *fakeCensusRepo) ActiveMembers(ctx context.Context, scope access.Scope) ([]censusdomain.Member, error) {
	return r.members, nil
}

func (r *fakeCensusRepo) List(ctx context.Context, scope access.Scope) ([]censusdomain.Summary, error) {
	result := make([]censusdomain.Summary, 0)
	for id, c := range r.censuses {
		if c.EntityID == scope.EntityID() {
			result = append(result, censusdomain.Summary{Census: c, Entries: int64(len(r.entries[id]))})
		}
	}
	return result, nil
}

func (r *fakeCensusRepo) GetByYear(ctx context.Context, scope access.Scope, year int) (*censusdomain.Census, error) {
	for _, c := range r.censuses {
		if c.EntityID == scope.EntityID() && c.Year == year {
			found := c
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeCensusRepo) ListEntries(ctx context.Context, censusID int64) ([]censusdomain.Entry, error) {
	return r.entries[censusID], nil
}

type fixture struct {
	affiliates *fakeAffiliateRepo
	census     *fakeCensusRepo
	entities   *fakeEntityRepo
	users      *fakeUserRepo
	treasury   *fakeTreasuryRepo
	handlers   *Handlers
}

func newFixture(files storage.Presigner) *fixture {
	affiliates := newFakeAffiliateRepo()
	entities := &fakeEntityRepo{
		entities: map[int64]entitydomain.Entity{
			1: {ID: 1, Name: "Falla Plaza", JoinPasswordHash: "plain:secreto"},
		},
		attached: make(map[int64]attachment),
	}
	users := &fakeUserRepo{users: make(map[int64]userdomain.User)}
	treasury := &fakeTreasuryRepo{
		accounts: make(map[int64]treasurydomain.Account),
		totals:   make(map[int64]treasurydomain.Totals),
	}

	census := &fakeCensusRepo{
		censuses: make(map[int64]censusdomain.Census),
		entries:  make(map[int64][]censusdomain.Entry),
	}

	handlers := New(Services{
		Users:      userdomain.NewService(users, plainSecrets{}, nil),
		Census:     censusdomain.NewService(census),
		Affiliates: affiliatedomain.NewService(affiliates, files),
		Entities:   entitydomain.NewService(entities, plainSecrets{}, files),
		Treasury:   treasurydomain.NewService(treasury),
		Dashboard:  dashboarddomain.NewService(nil, nil, nil, 0),
	}, files, logger.Nop())

	return &fixture{affiliates: affiliates, census: census, entities: entities, users: users, treasury: treasury, handlers: handlers}
}

func (f *fixture) seedAffiliate(entityID int64, name string, active bool) affiliatedomain.Affiliate {
	a := affiliatedomain.Affiliate{
		EntityID:     entityID,
		Name:         name,
		Surnames:     "García López",
		DocumentType: affiliatedomain.DocumentDNI,
		DocumentID:   "12345678Z",
		Email:        strings.ToLower(name) + "@example.com",
		Phone:        "600111222",
		Photo:        "affiliates/1/photo-abc",
		Birthday:     time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
		Gender:       affiliatedomain.GenderFemale,
		Address:      "Calle Mayor 1",
		PostalCode:   "46001",
		City:         "Valencia",
		Province:     "Valencia",
		Country:      "España",
		Active:       active,
	}
	_ = f.affiliates.Create(context.Background(), &a)
	return a
}

func withPrincipal(p access.Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithPrincipal(r.Context(), p)))
		})
	}
}

func (f *fixture) router(p access.Principal) http.Handler {
	r := chi.NewRouter()
	r.Use(withPrincipal(p))
	r.Get("/affiliates", f.handlers.ListAffiliates)
	r.Post("/affiliates", f.handlers.CreateAffiliate)
	r.Delete("/affiliates/{id}", f.handlers.DeactivateAffiliate)
	r.Put("/affiliates/{id}/payment-choice", f.handlers.SavePaymentChoice)
	r.Post("/entity/join", f.handlers.JoinEntity)
	r.Get("/user", f.handlers.Me)
	r.Post("/user/photo", f.handlers.UploadOwnPhoto)
	r.Get("/treasury/{id}", f.handlers.GetAccount)
	r.Post("/entity/census", f.handlers.GenerateCensus)
	return r
}

func do(t *testing.T, h http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func member(userID, entityID int64, admin bool) access.Principal {
	return access.Principal{UserID: userID, EntityID: &entityID, IsEntityAdmin: admin, Onboarding: access.StageCompleted}
}

func TestListAffiliatesProjection(t *testing.T) {
	f := newFixture(fakePresigner{})
	f.seedAffiliate(1, "Ana", true)
	f.seedAffiliate(1, "Luis", true)
	f.seedAffiliate(2, "Otro", true)

	rec := do(t, f.router(member(10, 1, false)), http.MethodGet, "/affiliates", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var limited []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &limited))
	require.Len(t, limited, 2)
	for _, item := range limited {
		for _, hidden := range []string{"document_id", "address", "phone", "email"} {
			assert.NotContains(t, item, hidden)
		}
		assert.Equal(t, "Vocal", item["position"])
		assert.Equal(t, "https://bucket.test/affiliates/1/photo-abc", item["photo"])
	}

	rec = do(t, f.router(member(11, 1, true)), http.MethodGet, "/affiliates", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var full []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &full))
	require.Len(t, full, 2)
	assert.Equal(t, "12345678Z", full[0]["document_id"])
	assert.Equal(t, "Calle Mayor 1", full[0]["address"])
	assert.Equal(t, "600111222", full[0]["phone"])
	assert.Equal(t, "ana@example.com", full[0]["email"])
	assert.Equal(t, "1990-05-17", full[0]["birthday"])
}

func TestListAffiliatesInvalidQuery(t *testing.T) {
	f := newFixture(fakePresigner{})

	rec := do(t, f.router(member(10, 1, true)), http.MethodGet, "/affiliates?id=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, f.router(member(10, 1, true)), http.MethodGet, "/affiliates?include_inactive=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeactivateThenDefaultListing(t *testing.T) {
	f := newFixture(fakePresigner{})
	ana := f.seedAffiliate(1, "Ana", true)
	f.seedAffiliate(1, "Luis", true)
	admin := f.router(member(11, 1, true))

	rec := do(t, admin, http.MethodDelete, "/affiliates/1", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	_, stillThere := f.affiliates.affiliates[ana.ID]
	assert.True(t, stillThere)

	rec = do(t, admin, http.MethodGet, "/affiliates", nil)
	var listed []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Luis", listed[0]["name"])

	rec = do(t, admin, http.MethodGet, "/affiliates?include_inactive=true", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed, 2)
}

func TestCreateAffiliateErrors(t *testing.T) {
	f := newFixture(fakePresigner{})

	rec := do(t, f.router(member(10, 1, false)), http.MethodPost, "/affiliates", map[string]interface{}{"name": "Ana"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin_required")

	rec = do(t, f.router(member(11, 1, true)), http.MethodPost, "/affiliates", map[string]interface{}{
		"surnames": "García",
		"birthday": "2000-01-01",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "invalid_request", envelope.Error.Code)
	assert.Contains(t, envelope.Error.Fields, "name")

	rec = do(t, f.router(member(11, 1, true)), http.MethodPost, "/affiliates", map[string]interface{}{"birthday": "17/05/1990"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Contains(t, envelope.Error.Fields, "birthday")

	rec = do(t, f.router(member(11, 1, true)), http.MethodPost, "/affiliates", map[string]interface{}{"unknown": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_json")

	assert.Empty(t, f.affiliates.affiliates)
}

func TestCreateAffiliate(t *testing.T) {
	f := newFixture(fakePresigner{})

	rec := do(t, f.router(member(11, 1, true)), http.MethodPost, "/affiliates", map[string]interface{}{
		"name":          "Marta",
		"surnames":      "Ruiz Pons",
		"document_type": 1,
		"document_id":   "12345678z",
		"birthday":      "2010-01-01",
		"gender":        "F",
		"address":       "Calle Colón 3",
		"postal_code":   "46004",
		"city":          "Valencia",
		"province":      "Valencia",
		"payment_choice": map[string]interface{}{
			"payment_type":   2,
			"account_holder": "Marta Ruiz",
			"account_iban":   "ES9121000418450200",
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created affiliateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int64(1), created.EntityID)
	assert.True(t, created.Active)
	assert.Equal(t, "12345678Z", created.DocumentID)
	assert.Equal(t, "/default_photo.png", created.Photo)
	require.NotNil(t, created.PaymentChoice)
	assert.Equal(t, 2, created.PaymentChoice.PaymentType)
}

func TestSavePaymentChoiceByOwner(t *testing.T) {
	f := newFixture(fakePresigner{})
	ana := f.seedAffiliate(1, "Ana", true)
	owner := member(10, 1, false)
	owner.AffiliateID = &ana.ID

	rec := do(t, f.router(owner), http.MethodPut, "/affiliates/1/payment-choice", map[string]interface{}{"payment_type": 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	other := f.seedAffiliate(1, "Luis", true)
	rec = do(t, f.router(owner), http.MethodPut, "/affiliates/2/payment-choice", map[string]interface{}{"payment_type": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	_, saved := f.affiliates.choices[other.ID]
	assert.False(t, saved)
}

func TestJoinEntity(t *testing.T) {
	f := newFixture(fakePresigner{})
	newcomer := access.Principal{UserID: 20, Onboarding: access.StageEntitySetup}

	rec := do(t, f.router(newcomer), http.MethodPost, "/entity/join", map[string]interface{}{"entity_id": 1, "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "incorrect_secret")
	assert.Empty(t, f.entities.attached)

	rec = do(t, f.router(newcomer), http.MethodPost, "/entity/join", map[string]interface{}{"entity_id": 99, "password": "secreto"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, f.router(newcomer), http.MethodPost, "/entity/join", map[string]interface{}{"entity_id": 1, "password": "secreto"})
	require.Equal(t, http.StatusCreated, rec.Code)
	got := f.entities.attached[20]
	assert.Equal(t, int64(1), got.entityID)
	assert.False(t, got.admin)
	assert.Equal(t, access.StageAffiliateSetup, got.stage)

	rec = do(t, f.router(member(21, 1, false)), http.MethodPost, "/entity/join", map[string]interface{}{"entity_id": 1, "password": "secreto"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUploadOwnPhoto(t *testing.T) {
	f := newFixture(storage.Disabled{})
	ana := f.seedAffiliate(1, "Ana", true)
	owner := member(10, 1, false)

	rec := do(t, f.router(owner), http.MethodPost, "/user/photo", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	owner.AffiliateID = &ana.ID
	rec = do(t, f.router(owner), http.MethodPost, "/user/photo", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "storage_unavailable")
}

func TestPrincipalRequired(t *testing.T) {
	f := newFixture(fakePresigner{})
	rec := httptest.NewRecorder()
	f.handlers.ListAffiliates(rec, httptest.NewRequest(http.MethodGet, "/affiliates", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListAffiliatesByID(t *testing.T) {
	f := newFixture(fakePresigner{})
	ana := f.seedAffiliate(1, "Ana", true)
	f.seedAffiliate(1, "Luis", true)
	gone := f.seedAffiliate(1, "Pepa", false)
	other := f.seedAffiliate(2, "Otro", true)

	rec := do(t, f.router(member(10, 1, false)), http.MethodGet, fmt.Sprintf("/affiliates?id=%d", ana.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Ana", items[0]["name"])
	assert.NotContains(t, items[0], "document_id")

	for _, id := range []int64{other.ID, gone.ID, 99} {
		rec = do(t, f.router(member(10, 1, false)), http.MethodGet, fmt.Sprintf("/affiliates?id=%d", id), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, "affiliate %d", id)
	}

	rec = do(t, f.router(member(11, 1, true)), http.MethodGet, fmt.Sprintf("/affiliates?id=%d", gone.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, false, items[0]["active"])
	assert.Equal(t, "DNI", items[0]["document_type_label"])
}

func TestCreateAffiliateAcceptsDocumentLabel(t *testing.T) {
	f := newFixture(fakePresigner{})
	body := map[string]interface{}{
		"name":          "Yolanda",
		"surnames":      "Mora",
		"document_type": "nie",
		"document_id":   "X1234567L",
		"birthday":      "1985-02-11",
		"gender":        "F",
		"address":       "Calle Ruzafa 8",
		"postal_code":   "46006",
		"city":          "Valencia",
		"province":      "Valencia",
	}

	rec := do(t, f.router(member(11, 1, true)), http.MethodPost, "/affiliates", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created affiliateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int(affiliatedomain.DocumentNIE), created.DocumentType)
	assert.Equal(t, "NIE", created.DocumentLabel)

	body["document_type"] = "carnet"
	rec = do(t, f.router(member(11, 1, true)), http.MethodPost, "/affiliates", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "document_type")
}

func TestMeIncludesPosition(t *testing.T) {
	f := newFixture(fakePresigner{})
	ana := f.seedAffiliate(1, "Ana", true)
	f.users.users[10] = userdomain.User{ID: 10, Email: "ana@example.com"}
	f.users.users[12] = userdomain.User{ID: 12, Email: "nadie@example.com"}

	owner := member(10, 1, false)
	owner.AffiliateID = &ana.ID

	rec := do(t, f.router(owner), http.MethodGet, "/user", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"affiliate_position":"Vocal"`)

	f.affiliates.positions[ana.ID] = "Presidenta"
	rec = do(t, f.router(owner), http.MethodGet, "/user", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"affiliate_position":"Presidenta"`)

	rec = do(t, f.router(member(12, 1, false)), http.MethodGet, "/user", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"affiliate_position":null`)
}

func TestGetAccount(t *testing.T) {
	f := newFixture(fakePresigner{})
	f.treasury.accounts[1] = treasurydomain.Account{ID: 1, EntityID: 1, Name: "Caixa", InitialAmount: decimal.RequireFromString("100")}
	f.treasury.accounts[2] = treasurydomain.Account{ID: 2, EntityID: 2, Name: "Ajena", InitialAmount: decimal.Zero}
	f.treasury.totals[1] = treasurydomain.Totals{Incomes: decimal.RequireFromString("50"), Outcomes: decimal.RequireFromString("30")}

	rec := do(t, f.router(member(10, 1, false)), http.MethodGet, "/treasury/1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var account accountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &account))
	assert.Equal(t, "Caixa", account.Name)
	assert.Equal(t, "100.00", account.InitialAmount)
	assert.Equal(t, "120.00", account.Balance)

	rec = do(t, f.router(member(10, 1, false)), http.MethodGet, "/treasury/2", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, f.router(member(10, 1, false)), http.MethodGet, "/treasury/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateCensusDefaultsToCurrentYear(t *testing.T) {
	f := newFixture(fakePresigner{})
	f.census.members = []censusdomain.Member{{
		AffiliateID: 5,
		Surnames:    "García López",
		Name:        "Ana",
		Birthday:    time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
		Gender:      "F",
		DocumentID:  "12345678Z",
		Position:    "Presidenta",
	}}
	admin := member(10, 1, true)

	rec := do(t, f.router(admin), http.MethodPost, "/entity/census", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var detail censusDetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, time.Now().Year(), detail.Year)
	require.Len(t, detail.Entries, 1)
	assert.Equal(t, "Presidenta", detail.Entries[0].Position)

	rec = do(t, f.router(admin), http.MethodPost, "/entity/census", map[string]interface{}{})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, time.Now().Year(), detail.Year)
	assert.Len(t, f.census.censuses, 1)

	rec = do(t, f.router(admin), http.MethodPost, "/entity/census", map[string]int{"year": 2023})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, 2023, detail.Year)

	rec = do(t, f.router(admin), http.MethodPost, "/entity/census", map[string]int{"year": 99})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
