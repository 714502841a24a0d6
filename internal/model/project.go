package model

import "time"

// Client is an external customer that projects and client-facing
// reports are scoped to.
type Client struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Project groups notes and time entries, optionally under a client.
type Project struct {
	ID        string    `json:"id" db:"id"`
	ClientID  *string   `json:"client_id,omitempty" db:"client_id"`
	Name      string    `json:"name" db:"name"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Holiday is a non-working day excluded from report expectations.
type Holiday struct {
	ID   string    `json:"id" db:"id"`
	Date time.Time `json:"date" db:"date"`
	Name string    `json:"name" db:"name"`
}

// TimeOff is a planned absence spanning one or more days.
type TimeOff struct {
	ID        string    `json:"id" db:"id"`
	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date" db:"end_date"`
	Kind      string    `json:"kind" db:"kind"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
