package directorate

type Position struct {
	ID       int64  `gorm:"primaryKey"`
	EntityID int64  `gorm:"not null;index"`
	Name     string `gorm:"size:100;not null"`
	Priority int    `gorm:"not null;default:0"`
}

func (Position) TableName() string { return "directorate_positions" }

type Directorate struct {
	ID          int64 `gorm:"primaryKey"`
	EntityID    int64 `gorm:"not null;index"`
	AffiliateID int64 `gorm:"not null;uniqueIndex"`
	PositionID  int64 `gorm:"not null;index"`
}

func (Directorate) TableName() string { return "directorates" }

// Record is a directorate joined with its affiliate and position.
type Record struct {
	Directorate
	AffiliateName     string
	AffiliateSurnames string
	PositionName      string
	PositionPriority  int
}

type PositionInput struct {
	Name     string `validate:"required,max=100"`
	Priority int    `validate:"min=0"`
}

type PositionUpdate struct {
	Name     *string `validate:"omitnil,min=1,max=100"`
	Priority *int    `validate:"omitnil,min=0"`
}

type AssignInput struct {
	AffiliateID int64 `validate:"required"`
	PositionID  int64 `validate:"required"`
}
