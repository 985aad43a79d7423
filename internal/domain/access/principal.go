package access

import (
	"fmt"

	"cendra-go/internal/domain"
)

// Stage is the onboarding progress of a principal.
type Stage int

const (
	StageEntitySetup    Stage = 0
	StageAffiliateSetup Stage = 1
	StageCompleted      Stage = 99
)

// Advance returns the later of s and next; onboarding never moves backwards.
func (s Stage) Advance(next Stage) Stage {
	if next > s {
		return next
	}
	return s
}

var (
	ErrNoEntity      = fmt.Errorf("principal has no entity: %w", domain.ErrUnauthorized)
	ErrAdminRequired = fmt.Errorf("entity admin required: %w", domain.ErrUnauthorized)
	ErrOutOfScope    = fmt.Errorf("record not found: %w", domain.ErrNotFound)
)

// Principal is the authenticated account acting on a request. It is passed
// explicitly into every domain operation.
type Principal struct {
	UserID        int64
	Email         string
	EntityID      *int64
	AffiliateID   *int64
	IsEntityAdmin bool
	Onboarding    Stage
}

func (p Principal) HasEntity() bool {
	return p.EntityID != nil && *p.EntityID != 0
}

func (p Principal) HasAffiliate() bool {
	return p.AffiliateID != nil && *p.AffiliateID != 0
}

// Scope returns the tenant scope of the principal. Repositories only accept
// a Scope for entity bound queries, so a principal without an entity can
// never reach tenant data.
func (p Principal) Scope() (Scope, error) {
	if !p.HasEntity() {
		return Scope{}, ErrNoEntity
	}
	return Scope{entityID: *p.EntityID}, nil
}

// OwnsAffiliate reports whether the principal is linked to affiliateID.
func (p Principal) OwnsAffiliate(affiliateID int64) bool {
	return p.HasAffiliate() && *p.AffiliateID == affiliateID
}

// Scope is the entity predicate injected into every tenant query.
type Scope struct {
	entityID int64
}

func (s Scope) EntityID() int64 {
	return s.entityID
}

func (s Scope) IsZero() bool {
	return s.entityID == 0
}
