package models

import "time"

// JobStatus is the lifecycle state of a server-side translation batch.
type JobStatus string

const (
	JobPending   JobStatus = "PENDING"
	JobRunning   JobStatus = "RUNNING"
	JobCompleted JobStatus = "COMPLETED"
	JobPartial   JobStatus = "PARTIAL"
	JobCanceled  JobStatus = "CANCELED"
)

type TranslationJob struct {
	Base
	MenuID      string             `json:"menu_id" gorm:"index;not null"`
	OwnerID     string             `json:"owner_id" gorm:"index;not null"`
	Status      JobStatus          `json:"status" gorm:"not null;default:'PENDING'"`
	Languages   StringList         `json:"languages"`
	Total       int                `json:"total"`
	Completed   int                `json:"completed"`
	Failed      int                `json:"failed"`
	MaxInFlight int                `json:"max_in_flight"`
	Summary     string             `json:"summary"`
	StartedAt   *time.Time         `json:"started_at,omitempty"`
	FinishedAt  *time.Time         `json:"finished_at,omitempty"`
	History     []JobStatusHistory `json:"history,omitempty" gorm:"foreignKey:JobID"`
}

// JobStatusHistory tracks every status change of a job
type JobStatusHistory struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	JobID      string    `json:"job_id" gorm:"index;not null"`
	FromStatus JobStatus `json:"from_status"`
	ToStatus   JobStatus `json:"to_status" gorm:"not null"`
	Note       string    `json:"note"`
	CreatedAt  time.Time `json:"created_at"`
}
