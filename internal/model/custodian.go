package model

import "time"

// Contact is an external person who can be the custodian of a work
// order without having a login.
type Contact struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Project is a production that equipment can be checked out against.
type Project struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Code      string     `json:"code,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}
