// Package plan stores trips saved to a user's account.
package plan

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/evcraddock/litetravel/internal/trip"
)

const maxTitleLen = 255

var (
	// ErrNotFound is returned when a plan does not exist or belongs to another user.
	ErrNotFound = errors.New("plan not found")
	// ErrInvalid wraps validation failures on create and update.
	ErrInvalid = errors.New("invalid plan")
)

// Plan is a saved trip.
type Plan struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Title       string       `json:"title"`
	Description *string      `json:"description,omitempty"`
	Content     trip.Content `json:"content"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Summary is the list view of a plan.
type Summary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	City        string    `json:"city"`
	Dates       [2]string `json:"dates"`
	DaysCount   int       `json:"days_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Input is the body of a create request.
type Input struct {
	Title       string       `json:"title"`
	Description *string      `json:"description,omitempty"`
	Content     trip.Content `json:"content"`
}

// Update holds the fields of a partial update. Nil fields are unchanged.
type Update struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	Content     *trip.Content `json:"content,omitempty"`
}

func validateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n == 0 || n > maxTitleLen {
		return fmt.Errorf("%w: title must be 1-%d characters", ErrInvalid, maxTitleLen)
	}
	return nil
}

func validateContent(c trip.Content) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}
