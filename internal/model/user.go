// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// WHY ID int64?
// The users table uses INTEGER PRIMARY KEY AUTOINCREMENT, so SQLite assigns
// the ID and we read it back with LastInsertId() — which returns int64.
// Using int64 end-to-end avoids casts at the storage boundary.
//
// WHY Password string (and not a hash type)?
// The password is stored verbatim — a known defect inherited from the
// original data model, preserved for behavioural parity. The comparison is
// isolated behind auth.Verifier so a hashed scheme can be swapped in without
// touching this struct or any caller. The `json:"-"` tag keeps the stored
// password out of every API response regardless.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // Stored verbatim; never serialized
	CreatedAt time.Time `json:"createdAt"`
}
