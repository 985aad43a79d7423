package affiliate

import (
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPosition = "Vocal"
	DefaultPhoto    = "/default_photo.png"
	DefaultCountry  = "España"
)

type DocumentType int

const (
	DocumentDNI      DocumentType = 1
	DocumentNIE      DocumentType = 2
	DocumentPassport DocumentType = 3
)

// ParseDocumentType accepts the numeric code or the label used by clients.
func ParseDocumentType(value string) (DocumentType, bool) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "1", "DNI":
		return DocumentDNI, true
	case "2", "NIE":
		return DocumentNIE, true
	case "3", "PASAPORTE", "PASSPORT":
		return DocumentPassport, true
	}
	return 0, false
}

func (t DocumentType) String() string {
	switch t {
	case DocumentDNI:
		return "DNI"
	case DocumentNIE:
		return "NIE"
	case DocumentPassport:
		return "Pasaporte"
	}
	return strconv.Itoa(int(t))
}

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

type Affiliate struct {
	ID            int64        `gorm:"primaryKey"`
	EntityID      int64        `gorm:"not null;index"`
	CensusNumber  *int         `gorm:"column:census_number"`
	JCFNumber     *int         `gorm:"column:jcf_number"`
	Name          string       `gorm:"size:100;not null"`
	Surnames      string       `gorm:"size:100;not null"`
	DocumentType  DocumentType `gorm:"not null"`
	DocumentID    string       `gorm:"column:document_id;size:9;not null"`
	Email         string       `gorm:"not null;default:''"`
	Phone         string       `gorm:"size:9;not null;default:''"`
	Photo         string       `gorm:"not null"`
	Birthday      time.Time    `gorm:"type:date;not null"`
	Gender        Gender       `gorm:"size:1;not null"`
	Address       string       `gorm:"size:100;not null"`
	PostalCode    string       `gorm:"size:5;not null"`
	City          string       `gorm:"size:100;not null"`
	Province      string       `gorm:"size:100;not null"`
	Country       string       `gorm:"size:100;not null"`
	HasLegalTutor bool         `gorm:"not null"`
	LegalTutorID  *int64       `gorm:"index"`
	Active        bool         `gorm:"not null"`
	CreatedAt     time.Time    `gorm:"autoCreateTime"`
	UpdatedAt     time.Time    `gorm:"autoUpdateTime"`
}

// Record is an affiliate with its resolved directorate position and payment
// choice, as read from storage.
type Record struct {
	Affiliate
	PositionName  *string
	PaymentChoice *PaymentChoice
}

// Position is the label shown for the affiliate's role in the entity.
func (r Record) Position() string {
	return PositionLabel(r.PositionName)
}

// PositionLabel falls back to the default label for affiliates without a
// directorate assignment.
func PositionLabel(name *string) string {
	if name == nil || strings.TrimSpace(*name) == "" {
		return DefaultPosition
	}
	return *name
}

type PaymentType int

const (
	PaymentCash          PaymentType = 1
	PaymentDomiciliation PaymentType = 2
	PaymentTransfer      PaymentType = 3
)

// RequiresIBAN reports whether the payment goes through a bank account.
func (t PaymentType) RequiresIBAN() bool {
	return t == PaymentDomiciliation || t == PaymentTransfer
}

type PaymentChoice struct {
	ID            int64       `gorm:"primaryKey"`
	AffiliateID   int64       `gorm:"not null;uniqueIndex"`
	PaymentType   PaymentType `gorm:"not null"`
	AccountHolder *string     `gorm:"size:100"`
	AccountIBAN   *string     `gorm:"column:account_iban;size:100"`
}

type ListFilter struct {
	ID              *int64
	IncludeInactive bool
}

type CreateInput struct {
	CensusNumber  *int               `validate:"omitnil,min=0"`
	JCFNumber     *int               `validate:"omitnil,min=0"`
	Name          string             `validate:"required,max=100"`
	Surnames      string             `validate:"required,max=100"`
	DocumentType  DocumentType       `validate:"required,oneof=1 2 3"`
	DocumentID    string             `validate:"required,max=9"`
	Email         string             `validate:"omitempty,email"`
	Phone         string             `validate:"omitempty,numeric,max=9"`
	Birthday      time.Time          `validate:"required"`
	Gender        Gender             `validate:"required,oneof=M F"`
	Address       string             `validate:"required,max=100"`
	PostalCode    string             `validate:"required,len=5,numeric"`
	City          string             `validate:"required,max=100"`
	Province      string             `validate:"required,max=100"`
	Country       string             `validate:"omitempty,max=100"`
	HasLegalTutor bool
	LegalTutorID  *int64
	PaymentChoice *PaymentChoiceInput `validate:"-"`
}

type UpdateInput struct {
	CensusNumber  *int          `validate:"omitnil,min=0"`
	JCFNumber     *int          `validate:"omitnil,min=0"`
	Name          *string       `validate:"omitnil,min=1,max=100"`
	Surnames      *string       `validate:"omitnil,min=1,max=100"`
	DocumentType  *DocumentType `validate:"omitnil,oneof=1 2 3"`
	DocumentID    *string       `validate:"omitnil,min=1,max=9"`
	Email         *string       `validate:"omitempty,email"`
	Phone         *string       `validate:"omitempty,numeric,max=9"`
	Birthday      *time.Time
	Gender        *Gender `validate:"omitnil,oneof=M F"`
	Address       *string `validate:"omitnil,min=1,max=100"`
	PostalCode    *string `validate:"omitnil,len=5,numeric"`
	City          *string `validate:"omitnil,min=1,max=100"`
	Province      *string `validate:"omitnil,min=1,max=100"`
	Country       *string `validate:"omitnil,max=100"`
	HasLegalTutor *bool
	LegalTutorID  *int64
	Active        *bool
}

type PaymentChoiceInput struct {
	PaymentType   PaymentType `validate:"required,oneof=1 2 3"`
	AccountHolder *string     `validate:"omitnil,max=100"`
	AccountIBAN   *string     `validate:"omitempty,iban"`
}

// PhotoUpload is the storage reference assigned to an affiliate photo and the
// URL the client uploads the image to.
type PhotoUpload struct {
	AffiliateID int64
	Key         string
	UploadURL   string
}
