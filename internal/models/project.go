package models

import (
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectInactive ProjectStatus = "inactive"
)

// Single technology entry with an optional icon, stored as jsonb
type TechStackEntry struct {
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

type Project struct {
	ID                  uuid.UUID        `json:"id"`
	Title               string           `json:"title"`
	Slug                string           `json:"slug"`
	Category            string           `json:"category"`
	Description         string           `json:"description"`
	DetailedDescription string           `json:"detailedDescription,omitempty"`
	Technologies        []string         `json:"technologies"`
	TechStack           []TechStackEntry `json:"techStack,omitempty"`
	Image               string           `json:"image,omitempty"`
	Gallery             []string         `json:"gallery,omitempty"`
	Featured            bool             `json:"featured"`
	ProjectDate         time.Time        `json:"projectDate"`
	Tags                []string         `json:"tags,omitempty"`
	GithubURL           string           `json:"githubUrl,omitempty"`
	LiveURL             string           `json:"liveUrl,omitempty"`
	IsOpenSource        bool             `json:"isOpenSource"`
	Status              ProjectStatus    `json:"status"`
	CreatedAt           time.Time        `json:"createdAt"`
	UpdatedAt           time.Time        `json:"updatedAt"`
}
