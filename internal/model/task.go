package model

import "time"

// DefaultCategory is assigned when a task is created without a category.
const DefaultCategory = "Personal"

// Categories is the set of categories the UI offers. The column itself is an
// open TEXT field — the set is a presentation convention, not a constraint.
var Categories = []string{"Personal", "School", "Work", "House hold"}

// Task represents a single to-do item belonging to exactly one user.
//
// WHY *string FOR DueDate AND Description?
// Both columns are nullable, and "absent" is meaningful: a task without a
// due date is not the same as a task due on the empty string. A nil pointer
// maps cleanly to SQL NULL in both directions and serializes to JSON null.
// DueDate stays a string (ISO-8601 "2006-01-02") rather than a time.Time —
// it is a calendar date with no time-of-day or zone, and round-tripping it
// through time.Time invites exactly the zone bugs a bare date avoids.
//
// Completed is stored as INTEGER 0/1 and normalized to bool when rows are
// scanned; no caller ever sees the raw integer.
type Task struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	DueDate     *string   `json:"dueDate"`
	Category    string    `json:"category"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CategoryCount pairs a category name with the number of tasks in it.
// Used by the categories overview.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
