package census

import (
	"context"
	"errors"
	"testing"
	"time"

	"cendra-go/internal/domain"
	"cendra-go/internal/domain/access"
)

type fakeCensusRepo struct {
	nextID   int64
	censuses map[int64]*Census
	entries  map[int64][]Entry
	members  map[int64][]Member
}

func newFakeCensusRepo() *fakeCensusRepo {
	return &fakeCensusRepo{
		censuses: make(map[int64]*Census),
		entries:  make(map[int64][]Entry),
		members:  make(map[int64][]Member),
	}
}

func (r *fakeCensusRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeCensusRepo) DeleteByYear(ctx context.Context, scope access.Scope, year int) error {
	for id, census := range r.censuses {
		if census.EntityID == scope.EntityID() && census.Year == year {
			delete(r.censuses, id)
			delete(r.entries, id)
		}
	}
	return nil
}

func (r *fakeCensusRepo) Create(ctx context.Context, census *Census) error {
	r.nextID++
	census.ID = r.nextID
	copied := *census
	r.censuses[census.ID] = &copied
	return nil
}

func (r *fakeCensusRepo) CreateEntries(ctx context.Context, entries []Entry) error {
	for _, entry := range entries {
		r.entries[entry.CensusID] = append(r.entries[entry.CensusID], entry)
	}
	return nil
}

func (r *fakeCensusRepo) ActiveMembers(ctx context.Context, scope access.Scope) ([]Member, error) {
	return r.members[scope.EntityID()], nil
}

func (r *fakeCensusRepo) List(ctx context.Context, scope access.Scope) ([]Summary, error) {
	result := make([]Summary, 0)
	for id, census := range r.censuses {
		if census.EntityID == scope.EntityID() {
			result = append(result, Summary{Census: *census, Entries: int64(len(r.entries[id]))})
		}
	}
	return result, nil
}

func (r *fakeCensusRepo) GetByYear(ctx context.Context, scope access.Scope, year int) (*Census, error) {
	for _, census := range r.censuses {
		if census.EntityID == scope.EntityID() && census.Year == year {
			copied := *census
			return &copied, nil
		}
	}
	return nil, ErrCensusNotFound
}

func (r *fakeCensusRepo) ListEntries(ctx context.Context, censusID int64) ([]Entry, error) {
	return r.entries[censusID], nil
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func principal(entityID int64, admin bool) access.Principal {
	return access.Principal{UserID: 1, EntityID: &entityID, IsEntityAdmin: admin}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name        string
		birthday    time.Time
		year        int
		generatedAt time.Time
		want        string
	}{
		{"before march end", date(2010, time.January, 1), 2024, date(2024, time.February, 1), CommissionMinor},
		{"after march moves cutoff", date(2010, time.January, 1), 2024, date(2024, time.April, 1), CommissionMinor},
		{"sixteen on cutoff", date(2008, time.March, 1), 2024, date(2024, time.February, 1), CommissionMajor},
		{"sixteen the day after cutoff", date(2008, time.March, 2), 2024, date(2024, time.February, 1), CommissionMinor},
		{"sixteen on next cutoff", date(2009, time.February, 28), 2024, date(2024, time.May, 1), CommissionMajor},
		{"adult", date(1980, time.June, 15), 2024, date(2024, time.June, 1), CommissionMajor},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.birthday, tc.year, tc.generatedAt); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestGenerateCensusTwiceKeepsOne(t *testing.T) {
	repo := newFakeCensusRepo()
	repo.members[7] = []Member{
		{AffiliateID: 1, Name: "Ana", Birthday: date(2010, time.January, 1), Position: "Vocal"},
		{AffiliateID: 2, Name: "Luis", Birthday: date(1975, time.July, 20), Position: "Presidente"},
	}
	svc := NewService(repo)
	svc.now = func() time.Time { return date(2024, time.April, 1) }
	ctx := context.Background()
	p := principal(7, true)

	for i := 0; i < 2; i++ {
		if _, err := svc.GenerateCensus(ctx, p, 2024); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}

	summaries, err := svc.ListCensuses(ctx, p)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected one census, got %d", len(summaries))
	}
	if summaries[0].Entries != 2 {
		t.Fatalf("expected two entries, got %d", summaries[0].Entries)
	}

	detail, err := svc.GetCensus(ctx, p, 2024)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if detail.Entries[0].Commission != CommissionMinor || detail.Entries[1].Commission != CommissionMajor {
		t.Fatalf("unexpected commissions %s %s", detail.Entries[0].Commission, detail.Entries[1].Commission)
	}
}

func TestGenerateCensusRequiresAdmin(t *testing.T) {
	repo := newFakeCensusRepo()
	svc := NewService(repo)

	_, err := svc.GenerateCensus(context.Background(), principal(7, false), 2024)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if len(repo.censuses) != 0 {
		t.Fatalf("expected no census to be created")
	}
}

func TestGenerateCensusRejectsYear(t *testing.T) {
	svc := NewService(newFakeCensusRepo())

	_, err := svc.GenerateCensus(context.Background(), principal(7, true), 24)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestGetCensusMissing(t *testing.T) {
	svc := NewService(newFakeCensusRepo())

	_, err := svc.GetCensus(context.Background(), principal(7, true), 2020)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCensusEntriesKeepSnapshotValues(t *testing.T) {
	repo := newFakeCensusRepo()
	repo.members[7] = []Member{
		{AffiliateID: 1, Name: "Ana", Surnames: "Soler", Birthday: date(1990, time.May, 4), Position: "Presidenta"},
		{AffiliateID: 2, Name: "Luis", Surnames: "Peris", Birthday: date(1975, time.July, 20), Position: "Vocal"},
	}
	svc := NewService(repo)
	svc.now = func() time.Time { return date(2024, time.February, 1) }
	ctx := context.Background()
	p := principal(7, true)

	if _, err := svc.GenerateCensus(ctx, p, 2024); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Ana is renamed and loses her position, Luis is deactivated.
	repo.members[7] = []Member{
		{AffiliateID: 1, Name: "Ana María", Surnames: "Soler", Birthday: date(1990, time.May, 4), Position: "Vocal"},
	}

	detail, err := svc.GetCensus(ctx, p, 2024)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(detail.Entries) != 2 {
		t.Fatalf("expected the stored census to keep 2 entries, got %d", len(detail.Entries))
	}
	if detail.Entries[0].Name != "Ana" || detail.Entries[0].Position != "Presidenta" {
		t.Fatalf("expected snapshot values, got %+v", detail.Entries[0])
	}

	regenerated, err := svc.GenerateCensus(ctx, p, 2024)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(regenerated.Entries) != 1 || regenerated.Entries[0].Name != "Ana María" || regenerated.Entries[0].Position != "Vocal" {
		t.Fatalf("expected regeneration to pick up current members, got %+v", regenerated.Entries)
	}
}
