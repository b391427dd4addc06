package models

import (
	"database/sql"
	"time"
)

type Notification struct {
	ID             string
	OrganizationID string
	UserID         string
	Topic          string
	IssueID        string
	Title          string
	Message        string
	ReadAt         sql.NullTime
	CreatedAt      time.Time
}
