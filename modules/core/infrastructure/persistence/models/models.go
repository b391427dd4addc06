package models

import (
	"database/sql"
	"time"
)

type Organization struct {
	ID        string
	Name      string
	Subdomain string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type User struct {
	ID         string
	FirstName  string
	LastName   string
	Email      string
	UILanguage string
	Password   sql.NullString
	LastLogin  sql.NullTime
	LastAction sql.NullTime
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Session struct {
	Token     string
	UserID    string
	IP        string
	UserAgent string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type Permission struct {
	ID       string
	Name     string
	Resource string
	Action   string
	Modifier string
}

type Role struct {
	ID             string
	OrganizationID string
	Name           string
	Slug           string
	IsSystem       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Membership struct {
	ID             string
	OrganizationID string
	UserID         string
	RoleID         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Invitation struct {
	ID             string
	OrganizationID string
	Email          string
	RoleID         string
	Token          string
	Status         string
	ExpiresAt      time.Time
	AcceptedAt     sql.NullTime
	CreatedAt      time.Time
}
