package models

import "time"

// Topic is a named curriculum unit. A topic has no intrinsic ordering;
// it gains temporal meaning only through the lesson appointments that
// reference it.
type Topic struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// RenameScopeType selects which appointments a rename touches.
type RenameScopeType string

const (
	RenameScopeAll   RenameScopeType = "all"
	RenameScopePlan  RenameScopeType = "plan"
	RenameScopeBlock RenameScopeType = "block"
)
