package models

import (
	"database/sql"
	"time"
)

type Status struct {
	ID             string
	OrganizationID string
	Name           string
	Category       string
	IsDefault      bool
	SortOrder      int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Issue struct {
	ID             string
	OrganizationID string
	MachineID      string
	StatusID       string
	Priority       string
	Severity       string
	Consistency    string
	Title          string
	Description    string
	ReporterID     sql.NullString
	ReporterName   sql.NullString
	AssigneeID     sql.NullString
	ResolvedAt     sql.NullTime
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Comment struct {
	ID             string
	OrganizationID string
	IssueID        string
	AuthorID       string
	Content        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      sql.NullTime
}

type Activity struct {
	ID             string
	OrganizationID string
	IssueID        string
	ActorID        sql.NullString
	Action         string
	Changes        []byte
	Rollback       []byte
	CreatedAt      time.Time
}
