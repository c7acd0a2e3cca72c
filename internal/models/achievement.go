package models

import "time"

// AchievementType distinguishes student and faculty achievements.
type AchievementType string

const (
	AchievementStudent AchievementType = "STUDENT"
	AchievementFaculty AchievementType = "FACULTY"
)

// Valid reports whether the type is one of the enumerated values.
func (t AchievementType) Valid() bool {
	return t == AchievementStudent || t == AchievementFaculty
}

// Achievement is a self-reported accomplishment. Created by any authenticated
// user about themselves; deletable only by admin-level authority.
type Achievement struct {
	ID          string          `db:"id" json:"id"`
	Title       string          `db:"title" json:"title"`
	Description string          `db:"description" json:"description"`
	Type        AchievementType `db:"type" json:"type"`
	ImageKey    *string         `db:"image_key" json:"image_key,omitempty"`
	UserID      string          `db:"user_id" json:"user_id"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
