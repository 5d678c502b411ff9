package domain

import "time"

const MaxTitleLen = 40

// Bb is a classified listing. CreatedAt is set once on insert and never
// updated afterwards.
type Bb struct {
	ID       uint    `gorm:"primaryKey"`
	RubricID uint    `gorm:"not null;index"`
	Rubric   *Rubric `gorm:"foreignKey:RubricID"`

	Title    string  `gorm:"type:varchar(40);not null"`
	Content  string  `gorm:"type:text;not null"`
	Price    float64 `gorm:"not null;default:0"`
	Contacts string  `gorm:"type:text;not null"`

	// Image is the primary image's blob key; empty when the listing has no
	// primary image.
	Image string `gorm:"type:text;not null;default:''"`

	AuthorID UserID `gorm:"type:uuid;not null;index"`

	IsActive  bool      `gorm:"not null;default:true;index"`
	CreatedAt time.Time `gorm:"not null;index"`
}

func (Bb) TableName() string { return "bbs" }

// AdditionalImage is an extra illustration attached to a listing. Its blob
// is removed best-effort when the row goes away.
type AdditionalImage struct {
	ID    uint   `gorm:"primaryKey"`
	BbID  uint   `gorm:"not null;index"`
	Image string `gorm:"type:text;not null"`
}

func (AdditionalImage) TableName() string { return "additional_images" }
