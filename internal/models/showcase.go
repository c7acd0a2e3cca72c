package models

import "time"

// ShowcaseProject is a lab showcase entry, distinct from student projects.
// Managed by admin-level authority, readable publicly.
type ShowcaseProject struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	GithubLink  string    `db:"github_link" json:"github_link"`
	ImageKey    *string   `db:"image_key" json:"image_key,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
