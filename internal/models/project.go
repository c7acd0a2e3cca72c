package models

import (
	"time"

	"github.com/lib/pq"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	// StatusPartial is the initial state after creation.
	StatusPartial ProjectStatus = "PARTIAL"
	// StatusSubmitted is reached when the leader supplies summary and photo together.
	StatusSubmitted ProjectStatus = "SUBMITTED"
)

// Valid reports whether the status is one of the enumerated values.
func (s ProjectStatus) Valid() bool {
	return s == StatusPartial || s == StatusSubmitted
}

// Project is a student project. The leader is set at creation and never reassigned.
type Project struct {
	ID                string         `db:"id" json:"id"`
	Title             string         `db:"title" json:"title"`
	LeaderID          string         `db:"leader_id" json:"leader_id"`
	TeamMembers       pq.StringArray `db:"team_members" json:"team_members"`
	Components        string         `db:"components" json:"components"`
	Status            ProjectStatus  `db:"status" json:"status"`
	AssignedTeacherID *string        `db:"assigned_teacher_id" json:"assigned_teacher_id,omitempty"`
	AssignedAdminID   *string        `db:"assigned_admin_id" json:"assigned_admin_id,omitempty"`
	Summary           *string        `db:"summary" json:"summary,omitempty"`
	PhotoKey          *string        `db:"photo_key" json:"photo_key,omitempty"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
}

// ReviewProject is a project joined with leader contact fields for reviewer views.
type ReviewProject struct {
	Project
	LeaderName  string `db:"leader_name" json:"leader_name"`
	LeaderEmail string `db:"leader_email" json:"leader_email"`
	LeaderRegID string `db:"leader_reg_id" json:"leader_reg_id"`
}

// ProjectFilter captures filtering criteria for admin project listings.
type ProjectFilter struct {
	Status   *ProjectStatus
	Search   string
	Page     int
	PageSize int
}
