package affiliate

// View is a projection of an affiliate record. The concrete type is either
// FullView or LimitedView.
type View interface {
	RecordID() int64
}

// FullView is what entity admins see.
type FullView struct {
	Affiliate
	Position      string
	PaymentChoice *PaymentChoice
}

func (v FullView) RecordID() int64 { return v.ID }

// LimitedView hides contact and identity data from regular members.
type LimitedView struct {
	ID       int64
	Name     string
	Surnames string
	Photo    string
	Position string
}

func (v LimitedView) RecordID() int64 { return v.ID }

// ViewFor picks the projection of record for a principal with the given
// admin flag.
func ViewFor(admin bool, record Record) View {
	if admin {
		return NewFullView(record)
	}
	return LimitedView{
		ID:       record.ID,
		Name:     record.Name,
		Surnames: record.Surnames,
		Photo:    record.Photo,
		Position: record.Position(),
	}
}

func NewFullView(record Record) FullView {
	return FullView{
		Affiliate:     record.Affiliate,
		Position:      record.Position(),
		PaymentChoice: record.PaymentChoice,
	}
}
