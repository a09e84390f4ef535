// Package models holds the library records that workout plans reference by id.
package models

import (
	"strings"
	"time"
)

// Client is a person plans are written for.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Exercise is an entry in the exercise library.
type Exercise struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category,omitempty"`
	DefaultToolID *string `json:"defaultToolId,omitempty"`
}

// Tool is a piece of equipment an exercise row can use.
type Tool struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PlanSummary is a plan listing entry without the document body.
type PlanSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	ClientID      string    `json:"clientId"`
	ClientName    string    `json:"clientName"`
	Goal          string    `json:"goal"`
	DurationWeeks int       `json:"durationWeeks"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Validate reports the first missing required field, or "".
func (c Client) Validate() string {
	if strings.TrimSpace(c.Name) == "" {
		return "name is required"
	}
	return ""
}

// Validate reports the first missing required field, or "".
func (e Exercise) Validate() string {
	if strings.TrimSpace(e.Name) == "" {
		return "name is required"
	}
	return ""
}

// Validate reports the first missing required field, or "".
func (t Tool) Validate() string {
	if strings.TrimSpace(t.Name) == "" {
		return "name is required"
	}
	return ""
}
