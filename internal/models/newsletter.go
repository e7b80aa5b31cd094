package models

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubscriptionActive       SubscriptionStatus = "active"
	SubscriptionUnsubscribed SubscriptionStatus = "unsubscribed"
)

type Subscription struct {
	ID            uuid.UUID          `json:"id"`
	Email         string             `json:"email"`
	Status        SubscriptionStatus `json:"status"`
	LastEmailSent *time.Time         `json:"lastEmailSent,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}
