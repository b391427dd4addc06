package models

import (
	"database/sql"
	"time"
)

type Model struct {
	ID           string
	Name         string
	Manufacturer string
	Year         int
	MachineType  string
	OPDBID       sql.NullString
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Location struct {
	ID             string
	OrganizationID string
	Name           string
	Street         string
	City           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Machine struct {
	ID             string
	OrganizationID string
	ModelID        string
	LocationID     string
	OwnerID        sql.NullString
	QRToken        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
