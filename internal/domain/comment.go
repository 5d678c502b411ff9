package domain

import "time"

// Comment is visitor feedback on a listing. Author is a display string only;
// even authenticated posters leave no identity link behind.
type Comment struct {
	ID      uint   `gorm:"primaryKey"`
	BbID    uint   `gorm:"not null;index"`
	Author  string `gorm:"type:varchar(30);not null"`
	Content string `gorm:"type:text;not null"`

	IsActive  bool      `gorm:"not null;default:true;index"`
	CreatedAt time.Time `gorm:"not null;index"`
}

func (Comment) TableName() string { return "comments" }
