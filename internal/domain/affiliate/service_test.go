package affiliate

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"cendra-go/internal/domain"
	"cendra-go/internal/domain/access"
)

type fakeAffiliateRepo struct {
	nextID     int64
	affiliates map[int64]*Affiliate
	positions  map[int64]string
	choices    map[int64]*PaymentChoice
	links      map[int64]int64
	stages     map[int64]access.Stage
}

func newFakeAffiliateRepo() *fakeAffiliateRepo {
	return &fakeAffiliateRepo{
		affiliates: make(map[int64]*Affiliate),
		positions:  make(map[int64]string),
		choices:    make(map[int64]*PaymentChoice),
		links:      make(map[int64]int64),
		stages:     make(map[int64]access.Stage),
	}
}

func (r *fakeAffiliateRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeAffiliateRepo) record(a *Affiliate) Record {
	record := Record{Affiliate: *a, PaymentChoice: r.choices[a.ID]}
	if name, ok := r.positions[a.ID]; ok {
		record.PositionName = &name
	}
	return record
}

func (r *fakeAffiliateRepo) List(ctx context.Context, scope access.Scope, filter ListFilter) ([]Record, error) {
	result := make([]Record, 0)
	for _, a := range r.affiliates {
		if a.EntityID != scope.EntityID() {
			continue
		}
		if !a.Active && !filter.IncludeInactive {
			continue
		}
		if filter.ID != nil && a.ID != *filter.ID {
			continue
		}
		result = append(result, r.record(a))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeAffiliateRepo) Get(ctx context.Context, scope access.Scope, id int64) (*Record, error) {
	a, ok := r.affiliates[id]
	if !ok || a.EntityID != scope.EntityID() {
		return nil, ErrAffiliateNotFound
	}
	record := r.record(a)
	return &record, nil
}

func (r *fakeAffiliateRepo) Exists(ctx context.Context, scope access.Scope, id int64) (bool, error) {
	a, ok := r.affiliates[id]
	return ok && a.EntityID == scope.EntityID(), nil
}

func (r *fakeAffiliateRepo) Create(ctx context.Context, affiliate *Affiliate) error {
	r.nextID++
	affiliate.ID = r.nextID
	copied := *affiliate
	r.affiliates[affiliate.ID] = &copied
	return nil
}

func (r *fakeAffiliateRepo) Update(ctx context.Context, scope access.Scope, affiliate *Affiliate) error {
	if _, err := r.Get(ctx, scope, affiliate.ID); err != nil {
		return err
	}
	copied := *affiliate
	r.affiliates[affiliate.ID] = &copied
	return nil
}

func (r *fakeAffiliateRepo) SetActive(ctx context.Context, scope access.Scope, id int64, active bool) error {
	if _, err := r.Get(ctx, scope, id); err != nil {
		return err
	}
	r.affiliates[id].Active = active
	return nil
}

func (r *fakeAffiliateRepo) SetPhoto(ctx context.Context, scope access.Scope, id int64, photo string) error {
	if _, err := r.Get(ctx, scope, id); err != nil {
		return err
	}
	r.affiliates[id].Photo = photo
	return nil
}

func (r *fakeAffiliateRepo) GetPositionName(ctx context.Context, scope access.Scope, id int64) (*string, error) {
	record, err := r.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	return record.PositionName, nil
}

func (r *fakeAffiliateRepo) GetPaymentChoice(ctx context.Context, affiliateID int64) (*PaymentChoice, error) {
	choice, ok := r.choices[affiliateID]
	if !ok {
		return nil, ErrPaymentChoiceNotFound
	}
	copied := *choice
	return &copied, nil
}

func (r *fakeAffiliateRepo) SavePaymentChoice(ctx context.Context, choice *PaymentChoice) error {
	copied := *choice
	r.choices[choice.AffiliateID] = &copied
	return nil
}

func (r *fakeAffiliateRepo) LinkPrincipal(ctx context.Context, userID, affiliateID int64, stage access.Stage) error {
	r.links[userID] = affiliateID
	r.stages[userID] = stage
	return nil
}

type fakeUploads struct {
	keys []string
}

func (u *fakeUploads) PresignUpload(ctx context.Context, key string) (string, error) {
	u.keys = append(u.keys, key)
	return "https://uploads.test/" + key, nil
}

func int64Ptr(v int64) *int64 { return &v }

func admin(entityID int64) access.Principal {
	return access.Principal{UserID: 1, EntityID: int64Ptr(entityID), IsEntityAdmin: true, Onboarding: access.StageCompleted}
}

func member(entityID, affiliateID int64) access.Principal {
	return access.Principal{UserID: 2, EntityID: int64Ptr(entityID), AffiliateID: int64Ptr(affiliateID), Onboarding: access.StageCompleted}
}

func validInput() CreateInput {
	return CreateInput{
		Name:         "Ana",
		Surnames:     "García López",
		DocumentType: DocumentDNI,
		DocumentID:   "12345678z",
		Email:        "ana@example.com",
		Phone:        "600111222",
		Birthday:     time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC),
		Gender:       GenderFemale,
		Address:      "Calle Mayor 1",
		PostalCode:   "46001",
		City:         "Valencia",
		Province:     "Valencia",
	}
}

func TestCreateAffiliateAssignsScopeAndDefaults(t *testing.T) {
	repo := newFakeAffiliateRepo()
	svc := NewService(repo, &fakeUploads{})

	record, err := svc.CreateAffiliate(context.Background(), admin(7), validInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if record.EntityID != 7 {
		t.Fatalf("expected entity 7, got %d", record.EntityID)
	}
	if !record.Active {
		t.Fatalf("expected affiliate to be active")
	}
	if record.DocumentID != "12345678Z" {
		t.Fatalf("expected normalized document id, got %q", record.DocumentID)
	}
	if record.Country != DefaultCountry {
		t.Fatalf("expected default country, got %q", record.Country)
	}
	if record.Position() != DefaultPosition {
		t.Fatalf("expected default position, got %q", record.Position())
	}
}

func TestCreateAffiliateRequiresAdmin(t *testing.T) {
	repo := newFakeAffiliateRepo()
	svc := NewService(repo, &fakeUploads{})

	_, err := svc.CreateAffiliate(context.Background(), member(7, 1), validInput())
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if len(repo.affiliates) != 0 {
		t.Fatalf("expected no affiliate to be stored")
	}
}

func TestCreateAffiliateValidation(t *testing.T) {
	svc := NewService(newFakeAffiliateRepo(), &fakeUploads{})

	input := validInput()
	input.Name = ""
	input.DocumentID = "12345678A"
	input.PostalCode = "460"
	input.PaymentChoice = &PaymentChoiceInput{PaymentType: PaymentDomiciliation}

	_, err := svc.CreateAffiliate(context.Background(), admin(7), input)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"name", "document_id", "postal_code", "account_iban"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Fatalf("expected %s to fail, got %v", field, verr.Fields)
		}
	}
}

func TestCreateAffiliateLegalTutorMustBeInScope(t *testing.T) {
	repo := newFakeAffiliateRepo()
	svc := NewService(repo, &fakeUploads{})
	ctx := context.Background()

	tutor, err := svc.CreateAffiliate(ctx, admin(8), validInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	input := validInput()
	input.HasLegalTutor = true
	input.LegalTutorID = &tutor.ID
	_, err = svc.CreateAffiliate(ctx, admin(7), input)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestDeactivateKeepsRowAndHidesFromDefaultList(t *testing.T) {
	repo := newFakeAffiliateRepo()
	svc := NewService(repo, &fakeUploads{})
	ctx := context.Background()
	p := admin(7)

	record, err := svc.CreateAffiliate(ctx, p, validInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := svc.DeactivateAffiliate(ctx, p, record.ID); err != nil {
			t.Fatalf("expected deactivate to succeed, got %v", err)
		}
	}

	stored, ok := repo.affiliates[record.ID]
	if !ok || stored.Active {
		t.Fatalf("expected row to be kept inactive")
	}

	views, err := svc.ListAffiliates(ctx, p, ListFilter{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("expected empty default listing, got %d", len(views))
	}

	views, err = svc.ListAffiliates(ctx, p, ListFilter{IncludeInactive: true})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected inactive affiliate for admin, got %d", len(views))
	}
}

func TestListAffiliatesProjection(t *testing.T) {
	repo := newFakeAffiliateRepo()
	svc := NewService(repo, &fakeUploads{})
	ctx := context.Background()

	record, err := svc.CreateAffiliate(ctx, admin(7), validInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	repo.positions[record.ID] = "Presidenta"

	views, err := svc.ListAffiliates(ctx, admin(7), ListFilter{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	full, ok := views[0].(FullView)
	if !ok {
		t.Fatalf("expected full view for admin, got %T", views[0])
	}
	if full.DocumentID != "12345678Z" || full.Position != "Presidenta" {
		t.Fatalf("unexpected full view %+v", full)
	}

	views, err = svc.ListAffiliates(ctx, member(7, record.ID), ListFilter{IncludeInactive: true})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	limited, ok := views[0].(LimitedView)
	if !ok {
		t.Fatalf("expected limited view for member, got %T", views[0])
	}
	if limited.Name != "Ana" || limited.Position != "Presidenta" {
		t.Fatalf("unexpected limited view %+v", limited)
	}
}

func TestGetAffiliateOutsideScope(t *testing.T) {
	repo := newFakeAffiliateRepo()
	svc := NewService(repo, &fakeUploads{})
	ctx := context.Background()

	record, err := svc.CreateAffiliate(ctx, admin(7), validInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, err = svc.GetAffiliate(ctx, admin(8), record.ID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	_, err = svc.UpdateAffiliate(ctx, admin(8), record.ID, UpdateInput{})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on update, got %v", err)
	}
}

func TestUpdateAffiliatePartial(t *testing.T) {
	repo := newFakeAffiliateRepo()
	svc := NewService(repo, &fakeUploads{})
	ctx := context.Background()

	record, err := svc.CreateAffiliate(ctx, admin(7), validInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	city := " Alicante "
	updated, err := svc.UpdateAffiliate(ctx, admin(7), record.ID, UpdateInput{City: &city})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.City != "Alicante" || updated.Name != "Ana" {
		t.Fatalf("unexpected update result %+v", updated.Affiliate)
	}

	docType := DocumentNIE
	_, err = svc.UpdateAffiliate(ctx, admin(7), record.ID, UpdateInput{DocumentType: &docType})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected document mismatch to fail, got %v", err)
	}
}

func TestResolvePosition(t *testing.T) {
	repo := newFakeAffiliateRepo()
	svc := NewService(repo, &fakeUploads{})
	ctx := context.Background()

	record, err := svc.CreateAffiliate(ctx, admin(7), validInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	position, err := svc.ResolvePosition(ctx, admin(7), record.ID)
	if err != nil || position != "Vocal" {
		t.Fatalf("expected Vocal, got %q (%v)", position, err)
	}

	repo.positions[record.ID] = "Tesorero"
	position, err = svc.ResolvePosition(ctx, admin(7), record.ID)
	if err != nil || position != "Tesorero" {
		t.Fatalf("expected Tesorero, got %q (%v)", position, err)
	}
}

func TestRegisterSelfCompletesOnboarding(t *testing.T) {
	repo := newFakeAffiliateRepo()
	svc := NewService(repo, &fakeUploads{})
	ctx := context.Background()

	p := access.Principal{UserID: 5, EntityID: int64Ptr(7), Onboarding: access.StageAffiliateSetup}
	record, err := svc.RegisterSelf(ctx, p, validInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.links[5] != record.ID {
		t.Fatalf("expected principal to be linked to affiliate %d", record.ID)
	}
	if repo.stages[5] != access.StageCompleted {
		t.Fatalf("expected onboarding completed, got %d", repo.stages[5])
	}

	p.AffiliateID = &record.ID
	_, err = svc.RegisterSelf(ctx, p, validInput())
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("expected already registered, got %v", err)
	}
}

func TestSavePaymentChoiceSelfService(t *testing.T) {
	repo := newFakeAffiliateRepo()
	svc := NewService(repo, &fakeUploads{})
	ctx := context.Background()

	own, err := svc.CreateAffiliate(ctx, admin(7), validInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	other, err := svc.CreateAffiliate(ctx, admin(7), validInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	iban := "es91 2100 0418 4502 00"
	choice, err := svc.SavePaymentChoice(ctx, member(7, own.ID), own.ID, PaymentChoiceInput{
		PaymentType: PaymentDomiciliation,
		AccountIBAN: &iban,
	})
	if err != nil {
		t.Fatalf("expected owner to save payment choice, got %v", err)
	}
	if choice.AccountIBAN == nil || *choice.AccountIBAN != "ES9121000418450200" {
		t.Fatalf("expected normalized iban, got %v", choice.AccountIBAN)
	}

	_, err = svc.SavePaymentChoice(ctx, member(7, own.ID), other.ID, PaymentChoiceInput{PaymentType: PaymentCash})
	if !errors.Is(err, access.ErrAdminRequired) {
		t.Fatalf("expected admin required for other affiliate, got %v", err)
	}

	updated, err := svc.SavePaymentChoice(ctx, admin(7), own.ID, PaymentChoiceInput{PaymentType: PaymentCash})
	if err != nil {
		t.Fatalf("expected admin to save payment choice, got %v", err)
	}
	if updated.AccountIBAN != nil || updated.PaymentType != PaymentCash {
		t.Fatalf("expected cash payment without iban, got %+v", updated)
	}
	if len(repo.choices) != 1 {
		t.Fatalf("expected a single payment choice, got %d", len(repo.choices))
	}
}

func TestGetPaymentChoiceMissing(t *testing.T) {
	repo := newFakeAffiliateRepo()
	svc := NewService(repo, &fakeUploads{})
	ctx := context.Background()

	record, err := svc.CreateAffiliate(ctx, admin(7), validInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, err = svc.GetPaymentChoice(ctx, admin(7), record.ID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetPhotoForOwnAffiliate(t *testing.T) {
	repo := newFakeAffiliateRepo()
	uploads := &fakeUploads{}
	svc := NewService(repo, uploads)
	ctx := context.Background()

	record, err := svc.CreateAffiliate(ctx, admin(7), validInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	upload, err := svc.SetPhoto(ctx, member(7, record.ID), nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.affiliates[record.ID].Photo != upload.Key {
		t.Fatalf("expected photo key to be stored")
	}
	if len(uploads.keys) != 1 || upload.UploadURL == "" {
		t.Fatalf("expected a presigned upload url")
	}

	_, err = svc.SetPhoto(ctx, access.Principal{UserID: 9, EntityID: int64Ptr(7)}, nil)
	if !errors.Is(err, ErrNoAffiliate) {
		t.Fatalf("expected no affiliate error, got %v", err)
	}
}

func TestValidateDocument(t *testing.T) {
	cases := []struct {
		docType DocumentType
		id      string
		valid   bool
	}{
		{DocumentDNI, "12345678Z", true},
		{DocumentDNI, "12345678A", false},
		{DocumentDNI, "1234567Z", false},
		{DocumentNIE, "X1234567L", true},
		{DocumentNIE, "X1234567T", false},
		{DocumentPassport, "AB123456", true},
		{DocumentPassport, "AB-1", false},
	}
	for _, tc := range cases {
		err := ValidateDocument(tc.docType, tc.id)
		if (err == nil) != tc.valid {
			t.Fatalf("document %s %q: expected valid=%v, got %v", tc.docType, tc.id, tc.valid, err)
		}
	}
}
