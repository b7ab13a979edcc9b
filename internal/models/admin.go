package models

import (
	"database/sql"
	"time"
)

// Admin represents an administrator of the reports panel.
type Admin struct {
	ID           int          `db:"id" json:"id"`
	Email        string       `db:"email" json:"email"`
	PasswordHash string       `db:"password_hash" json:"-"`
	LastVerified sql.NullTime `db:"last_verified" json:"lastVerified,omitempty"`
	CreatedAt    time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updatedAt"`
}
