package models

import "time"

// AdminLogCategory classifies audit records.
type AdminLogCategory string

const (
	LogProjectCreation AdminLogCategory = "PROJECT_CREATION"
	LogProjectDeletion AdminLogCategory = "PROJECT_DELETION"
	LogProjectUpdate   AdminLogCategory = "PROJECT_UPDATE"
	LogUserManagement  AdminLogCategory = "USER_MANAGEMENT"
	LogSystem          AdminLogCategory = "SYSTEM"
	LogOther           AdminLogCategory = "OTHER"
)

// Valid reports whether the category is one of the enumerated values.
func (c AdminLogCategory) Valid() bool {
	switch c {
	case LogProjectCreation, LogProjectDeletion, LogProjectUpdate, LogUserManagement, LogSystem, LogOther:
		return true
	}
	return false
}

// AdminLog is one append-only audit record. Never updated or deleted through
// the application surface.
type AdminLog struct {
	ID        string           `db:"id" json:"id"`
	Category  AdminLogCategory `db:"category" json:"category"`
	Message   string           `db:"message" json:"message"`
	Metadata  []byte           `db:"metadata" json:"metadata,omitempty"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// AdminLogWindow is a relative date window for audit queries.
type AdminLogWindow string

const (
	WindowToday  AdminLogWindow = "today"
	Window7Days  AdminLogWindow = "7d"
	Window30Days AdminLogWindow = "30d"
)

// AdminLogFilter captures the audit-log query surface: most recent N records,
// optionally narrowed by message search, category, and a relative date window.
type AdminLogFilter struct {
	Search   string
	Category *AdminLogCategory
	Window   *AdminLogWindow
	Limit    int
}
