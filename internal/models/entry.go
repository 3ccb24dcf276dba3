package models

import (
	"regexp"
	"time"
)

// EntryType classifies records written to the data collection
type EntryType string

const (
	EntryTypeNote EntryType = "note"
	EntryTypeTask EntryType = "task"
)

// TaskTimeLayout is the wall-clock layout of a persisted task time (YYYY-MM-DD HH:mm).
const TaskTimeLayout = "2006-01-02 15:04"

var taskTimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}$`)

// ValidTaskTime reports whether s is a real date and time written exactly as
// YYYY-MM-DD HH:mm. time.Parse alone accepts one-digit hours.
func ValidTaskTime(s string) bool {
	if !taskTimePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(TaskTimeLayout, s)
	return err == nil
}

// Entry is a note or task destined for the data collection.
type Entry struct {
	Description string    `json:"description" validate:"required"`
	Type        EntryType `json:"type" validate:"required,oneof=note task"`
	// Time is a task's local wall-clock time. Empty for notes.
	Time string `json:"time,omitempty" validate:"required_if=Type task,omitempty,tasktime"`
}

// Task is the structured reply of the task extraction prompt.
type Task struct {
	Description     string `json:"description"`
	Time            string `json:"time"`
	HasExplicitDate bool   `json:"has_explicit_date"`
}

// DataEntry is a dashboard submission. Time is an ISO-8601 date-time.
type DataEntry struct {
	Description string `json:"description" validate:"required"`
	Type        string `json:"type" validate:"required"`
	Time        string `json:"time" validate:"required"`
}

// ToRecord renders the entry in the field order used by the data collection.
func (e Entry) ToRecord() Record {
	r := NewRecord(
		F("description", String(e.Description)),
		F("type", String(string(e.Type))),
	)
	if e.Time != "" {
		r.Set("time", String(e.Time))
	}
	return r
}

// ToRecord renders a dashboard entry with its parsed time and creation timestamp.
func (e DataEntry) ToRecord(at, createdAt time.Time) Record {
	return NewRecord(
		F("description", String(e.Description)),
		F("type", String(e.Type)),
		F("time", Timestamp(at)),
		F("created_at", Timestamp(createdAt)),
	)
}
