package model

import "time"

// Cleaner is the slice of the cleaner profile the booking flow needs:
// identity plus the completed-job count driving the earnings split.
type Cleaner struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	CleanerID string    `json:"cleaner_id" bson:"cleaner_id"`
	FullName  string    `json:"full_name" bson:"full_name"`
	TotalJobs int       `json:"total_jobs" bson:"total_jobs"`
	IsActive  bool      `json:"is_active" bson:"is_active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
