package models

import "time"

// Package is a registered tenant. Every log entry belongs to exactly one
// package, identified by its client-chosen, globally unique name.
// Raw passwords are never stored; only the bcrypt hash is.
type Package struct {
	Name         string    `db:"name"          json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at"    json:"created_at"`
}
