package models

import "time"

// Overlord is an allowlisted external identity permitted to sign in despite not
// matching the institutional email domain. Managed only by super-admins; its
// lifecycle is independent from any User it may have produced.
type Overlord struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
