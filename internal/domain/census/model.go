package census

import "time"

const (
	CommissionMinor = "INF"
	CommissionMajor = "MAY"

	adultAge = 16
)

type Census struct {
	ID        int64     `gorm:"primaryKey"`
	EntityID  int64     `gorm:"not null;uniqueIndex:idx_census_entity_year"`
	Year      int       `gorm:"not null;uniqueIndex:idx_census_entity_year"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Census) TableName() string { return "yearly_censuses" }

// Entry is the copy of an affiliate taken when a census is generated. It
// does not change when the affiliate does.
type Entry struct {
	ID           int64  `gorm:"primaryKey"`
	CensusID     int64  `gorm:"not null;index"`
	AffiliateID  *int64 `gorm:"index"`
	JCFNumber    *int   `gorm:"column:jcf_number"`
	CensusNumber *int
	Commission   string    `gorm:"size:3;not null"`
	Surnames     string    `gorm:"size:100;not null"`
	Name         string    `gorm:"size:100;not null"`
	Address      string    `gorm:"size:100;not null"`
	City         string    `gorm:"size:100;not null"`
	PostalCode   string    `gorm:"size:5;not null"`
	Phone        string    `gorm:"size:9;not null"`
	Birthday     time.Time `gorm:"type:date;not null"`
	Gender       string    `gorm:"size:1;not null"`
	DocumentID   string    `gorm:"column:document_id;size:9;not null"`
	Position     string    `gorm:"size:100;not null"`
	Reward       string    `gorm:"size:100;not null;default:''"`
}

func (Entry) TableName() string { return "yearly_census_entries" }

// Member is an active affiliate as read for a snapshot, with its resolved
// position label.
type Member struct {
	AffiliateID  int64
	JCFNumber    *int
	CensusNumber *int
	Surnames     string
	Name         string
	Address      string
	City         string
	PostalCode   string
	Phone        string
	Birthday     time.Time
	Gender       string
	DocumentID   string
	Position     string
}

type Summary struct {
	Census
	Entries int64
}

type Detail struct {
	Census
	Entries []Entry
}
