package news

import "time"

type Item struct {
	ID        int64     `gorm:"primaryKey"`
	EntityID  int64     `gorm:"not null;index"`
	Title     string    `gorm:"size:100;not null"`
	Content   string    `gorm:"type:text;not null"`
	AuthorID  int64     `gorm:"not null;index"`
	Photo     *string   `gorm:"size:255"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Item) TableName() string { return "news_items" }

// Record is a news item with its author's display name.
type Record struct {
	Item
	AuthorName     string
	AuthorSurnames string
}

type ListFilter struct {
	ID *int64
}

type CreateInput struct {
	Title   string  `validate:"required,max=100"`
	Content string  `validate:"required"`
	Photo   *string `validate:"omitnil,max=255"`
}

type UpdateInput struct {
	Title   *string `validate:"omitnil,min=1,max=100"`
	Content *string `validate:"omitnil,min=1"`
	Photo   *string `validate:"omitnil,max=255"`
}
