package domain

import "fmt"

// Rubric is one row of the two-level category tree. A nil ParentID marks a
// top-level rubric; anything else is a sub-rubric. Depth beyond two levels
// is rejected at create time.
type Rubric struct {
	ID       uint    `gorm:"primaryKey"`
	Name     string  `gorm:"type:text;uniqueIndex:ux_rubrics_name;not null"`
	Order    int     `gorm:"column:position;not null;default:0;index"`
	ParentID *uint   `gorm:"index"`
	Parent   *Rubric `gorm:"foreignKey:ParentID"`
}

func (Rubric) TableName() string { return "rubrics" }

func (r *Rubric) IsTopLevel() bool { return r.ParentID == nil }

// Chain renders "Parent - Sub" for sub-rubrics, or just the name for
// top-level ones.
func (r *Rubric) Chain() string {
	if r.Parent != nil {
		return fmt.Sprintf("%s - %s", r.Parent.Name, r.Name)
	}
	return r.Name
}
