package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BillingCycle string

const (
	BillingOneTime BillingCycle = "one-time"
	BillingMonthly BillingCycle = "monthly"
	BillingYearly  BillingCycle = "yearly"
)

type Price struct {
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	BillingCycle BillingCycle    `json:"billingCycle,omitempty"`
}

// Service offered on the site (consulting, development and so on)
type Service struct {
	ID                  uuid.UUID `json:"id"`
	Title               string    `json:"title"`
	Slug                string    `json:"slug"`
	Description         string    `json:"description"`
	DetailedDescription string    `json:"detailedDescription,omitempty"`
	Icon                string    `json:"icon"`
	Features            []string  `json:"features,omitempty"`
	Price               *Price    `json:"price,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}
