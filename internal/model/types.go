package model

import (
	"time"

	"github.com/go-openapi/strfmt"
)

// User is the root aggregate. AuthSubject links the profile 1:1 to an external
// authentication identity.
type User struct {
	ID          int64     `json:"id" db:"id"`
	AuthSubject *string   `json:"auth_subject,omitempty" db:"auth_subject"`
	Name        string    `json:"name" db:"name"`
	Age         *int      `json:"age,omitempty" db:"age"`
	Slug        string    `json:"slug" db:"slug"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Category is a user-scoped label. Slug is unique per user.
type Category struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Habit is a recurring activity tracked per calendar day.
type Habit struct {
	ID           int64     `json:"id" db:"id"`
	UserID       int64     `json:"user_id" db:"user_id"`
	CategoryID   *int64    `json:"category_id" db:"category_id"`
	Name         string    `json:"name" db:"name"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
	Archived     bool      `json:"archived" db:"archived"`
	Slug         string    `json:"slug" db:"slug"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// DateRecord is one day's completion record for one habit. A nil Quantity means
// the habit is boolean for that day.
type DateRecord struct {
	ID        int64       `json:"id" db:"id"`
	UserID    int64       `json:"user_id" db:"user_id"`
	HabitID   int64       `json:"habit_id" db:"habit_id"`
	HabitDate strfmt.Date `json:"habit_date" db:"habit_date"`
	IsDone    bool        `json:"is_done" db:"is_done"`
	Quantity  *int        `json:"quantity" db:"quantity"`
	Name      string      `json:"name" db:"name"`
	Slug      string      `json:"slug" db:"slug"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

// Achievement is a named badge shared by many users.
type Achievement struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Slug        string    `json:"slug" db:"slug"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// DayStatus is one slot of a reconstructed calendar. RecordID and Quantity are
// nil for synthetic placeholders.
type DayStatus struct {
	Date     strfmt.Date `json:"date"`
	IsDone   bool        `json:"is_done"`
	RecordID *int64      `json:"record_id"`
	Quantity *int        `json:"quantity"`
}

// DailyTotal is the completion rollup for one date across a user's habits.
type DailyTotal struct {
	Date           strfmt.Date `json:"date"`
	CompletedCount int         `json:"completed_count"`
}

// HabitWeek embeds a week of DayStatus values into a habit.
type HabitWeek struct {
	Habit
	Week []DayStatus `json:"week"`
}

// ListRecordsRequest captures filters used when listing date records.
// Nil bounds are open.
type ListRecordsRequest struct {
	UserID  int64
	HabitID *int64
	Start   *strfmt.Date
	End     *strfmt.Date
}

// ListOptions carries free-text search and ordering for list endpoints.
type ListOptions struct {
	Query        string
	SearchFields []string
	OrderBy      []string
}

// SlugKind names the namespace a slug lives in.
type SlugKind string

const (
	SlugUser        SlugKind = "user"
	SlugCategory    SlugKind = "category"
	SlugHabit       SlugKind = "habit"
	SlugRecord      SlugKind = "record"
	SlugAchievement SlugKind = "achievement"
)

// SlugScope identifies a uniqueness scope. UserID is only meaningful for
// categories, whose slugs are unique per user.
type SlugScope struct {
	Kind   SlugKind
	UserID int64
}
