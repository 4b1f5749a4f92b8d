package domain

import "time"

// ActivityAction names a todo mutation recorded in the activity trail.
type ActivityAction string

const (
	ActivityCreated ActivityAction = "created"
	ActivityUpdated ActivityAction = "updated"
	ActivityToggled ActivityAction = "toggled"
	ActivityDeleted ActivityAction = "deleted"
)

// TodoActivity is one entry of a user's audit trail.
type TodoActivity struct {
	UserID    int64
	TodoID    int64
	Action    ActivityAction
	Completed bool
	At        time.Time
}
