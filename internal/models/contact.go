package models

import (
	"time"

	"github.com/google/uuid"
)

type SubmissionStatus string

const (
	SubmissionNew       SubmissionStatus = "new"
	SubmissionRead      SubmissionStatus = "read"
	SubmissionResponded SubmissionStatus = "responded"
	SubmissionArchived  SubmissionStatus = "archived"
)

type ContactSubmission struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Subject   string           `json:"subject"`
	Message   string           `json:"message"`
	Status    SubmissionStatus `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}
