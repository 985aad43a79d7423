package entity

import "time"

const DefaultCountry = "España"

type Entity struct {
	ID               int64     `gorm:"primaryKey"`
	Name             string    `gorm:"size:100;not null"`
	Phone            string    `gorm:"size:9;not null;default:''"`
	Email            string    `gorm:"size:254;not null;default:''"`
	Logo             *string   `gorm:"size:255"`
	BusinessName     string    `gorm:"size:100;not null;default:''"`
	NIF              string    `gorm:"column:nif;size:9;not null;default:''"`
	RegistryNumber   string    `gorm:"size:50;not null;default:''"`
	SocialAddress    string    `gorm:"size:100;not null"`
	PostalCode       string    `gorm:"size:5;not null"`
	City             string    `gorm:"size:100;not null"`
	Province         string    `gorm:"size:100;not null"`
	Country          string    `gorm:"size:100;not null"`
	IsSameAddress    bool      `gorm:"not null"`
	FiscalAddress    string    `gorm:"size:100;not null;default:''"`
	FiscalPostalCode string    `gorm:"size:5;not null;default:''"`
	FiscalCity       string    `gorm:"size:100;not null;default:''"`
	FiscalProvince   string    `gorm:"size:100;not null;default:''"`
	FiscalCountry    string    `gorm:"size:100;not null;default:''"`
	JoinPasswordHash string    `gorm:"not null"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

// Normalize copies the social address into the fiscal one when both are
// declared equal. It runs before every save.
func (e *Entity) Normalize() {
	if e.Country == "" {
		e.Country = DefaultCountry
	}
	if !e.IsSameAddress {
		return
	}
	e.FiscalAddress = e.SocialAddress
	e.FiscalPostalCode = e.PostalCode
	e.FiscalCity = e.City
	e.FiscalProvince = e.Province
	e.FiscalCountry = e.Country
}

// PublicEntity is what unauthenticated clients can see of an entity.
type PublicEntity struct {
	ID   int64
	Name string
	Logo *string
}

type PublicFilter struct {
	ID *int64
}

type CreateInput struct {
	Name             string `validate:"required,max=100"`
	Phone            string `validate:"omitempty,numeric,max=9"`
	Email            string `validate:"omitempty,email,max=254"`
	BusinessName     string `validate:"max=100"`
	NIF              string `validate:"max=9"`
	RegistryNumber   string `validate:"max=50"`
	SocialAddress    string `validate:"required,max=100"`
	PostalCode       string `validate:"required,len=5,numeric"`
	City             string `validate:"required,max=100"`
	Province         string `validate:"required,max=100"`
	Country          string `validate:"max=100"`
	IsSameAddress    *bool
	FiscalAddress    string `validate:"max=100"`
	FiscalPostalCode string `validate:"omitempty,len=5,numeric"`
	FiscalCity       string `validate:"max=100"`
	FiscalProvince   string `validate:"max=100"`
	FiscalCountry    string `validate:"max=100"`
	JoinPassword     string `validate:"required,min=4,secret"`
}

type UpdateInput struct {
	Name             *string `validate:"omitnil,min=1,max=100"`
	Phone            *string `validate:"omitempty,numeric,max=9"`
	Email            *string `validate:"omitempty,email,max=254"`
	BusinessName     *string `validate:"omitnil,max=100"`
	NIF              *string `validate:"omitnil,max=9"`
	RegistryNumber   *string `validate:"omitnil,max=50"`
	SocialAddress    *string `validate:"omitnil,min=1,max=100"`
	PostalCode       *string `validate:"omitnil,len=5,numeric"`
	City             *string `validate:"omitnil,min=1,max=100"`
	Province         *string `validate:"omitnil,min=1,max=100"`
	Country          *string `validate:"omitnil,max=100"`
	IsSameAddress    *bool
	FiscalAddress    *string `validate:"omitnil,max=100"`
	FiscalPostalCode *string `validate:"omitempty,len=5,numeric"`
	FiscalCity       *string `validate:"omitnil,max=100"`
	FiscalProvince   *string `validate:"omitnil,max=100"`
	FiscalCountry    *string `validate:"omitnil,max=100"`
	JoinPassword     *string `validate:"omitnil,min=4,secret"`
}

type JoinInput struct {
	EntityID int64  `validate:"required"`
	Password string `validate:"required"`
}

// LogoUpload is the storage reference of a new logo and the URL to upload it to.
type LogoUpload struct {
	EntityID  int64
	Key       string
	UploadURL string
}
