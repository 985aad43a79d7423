package access

type Action int

const (
	ActionRead Action = iota
	ActionWrite
)

func (a Action) String() string {
	if a == ActionWrite {
		return "write"
	}
	return "read"
}

// Kind names the record type a Target refers to.
type Kind int

const (
	KindEntity Kind = iota
	KindAffiliate
	KindPaymentChoice
	KindPosition
	KindDirectorate
	KindCensus
	KindBankAccount
	KindLedgerEntry
	KindNewsItem
)

// Target is the entity bound record an action applies to. For KindEntity the
// EntityID is the entity itself. AffiliateID is only meaningful for
// KindPaymentChoice.
type Target struct {
	Kind        Kind
	EntityID    int64
	AffiliateID int64
}

func EntityTarget(entityID int64) Target {
	return Target{Kind: KindEntity, EntityID: entityID}
}

func RecordTarget(kind Kind, entityID int64) Target {
	return Target{Kind: kind, EntityID: entityID}
}

func PaymentChoiceTarget(entityID, affiliateID int64) Target {
	return Target{Kind: KindPaymentChoice, EntityID: entityID, AffiliateID: affiliateID}
}

type Decision int

const (
	Deny Decision = iota
	Allow
)

// Authorize is the access predicate. Reads need the principal to share the
// target's entity. Writes need entity admin on top of that, except payment
// choices, which their own affiliate may always write.
func Authorize(p Principal, action Action, target Target) Decision {
	if !p.HasEntity() || *p.EntityID != target.EntityID {
		return Deny
	}

	switch action {
	case ActionRead:
		return Allow
	case ActionWrite:
		if target.Kind == KindPaymentChoice && p.OwnsAffiliate(target.AffiliateID) {
			return Allow
		}
		if p.IsEntityAdmin {
			return Allow
		}
	}
	return Deny
}

// Require converts a Deny into a typed error. A target in another entity is
// reported as not found so callers cannot discover records of other tenants.
func Require(p Principal, action Action, target Target) error {
	if Authorize(p, action, target) == Allow {
		return nil
	}
	if !p.HasEntity() {
		return ErrNoEntity
	}
	if *p.EntityID != target.EntityID {
		return ErrOutOfScope
	}
	return ErrAdminRequired
}

// AdminScope returns the principal's scope when it may write kind records in
// its own entity.
func AdminScope(p Principal, kind Kind) (Scope, error) {
	scope, err := p.Scope()
	if err != nil {
		return Scope{}, err
	}
	if err := Require(p, ActionWrite, RecordTarget(kind, scope.EntityID())); err != nil {
		return Scope{}, err
	}
	return scope, nil
}
