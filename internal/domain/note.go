package domain

// TargetKind tags which entity a Note points at. The set is closed so a
// dangling kind cannot be stored, but the id half of the pair is never
// checked against the target table.
type TargetKind string

const (
	KindUser            TargetKind = "user"
	KindRubric          TargetKind = "rubric"
	KindBb              TargetKind = "bb"
	KindAdditionalImage TargetKind = "additional_image"
	KindComment         TargetKind = "comment"
)

func (k TargetKind) Known() bool {
	switch k {
	case KindUser, KindRubric, KindBb, KindAdditionalImage, KindComment:
		return true
	}
	return false
}

// Note is a free-text annotation weakly attached to an arbitrary entity via
// a (kind, id) pair. TargetID is a string so it can carry both numeric ids
// and user UUIDs. Notes cannot be joined against the target's own columns;
// callers filter on the pair only.
type Note struct {
	ID         uint       `gorm:"primaryKey"`
	Content    string     `gorm:"type:text;not null"`
	TargetKind TargetKind `gorm:"type:text;not null;index:idx_notes_target,priority:1"`
	TargetID   string     `gorm:"type:text;not null;index:idx_notes_target,priority:2"`
}

func (Note) TableName() string { return "notes" }
