// Package favorite stores places a user saved for later.
package favorite

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/evcraddock/litetravel/internal/geo"
	"github.com/evcraddock/litetravel/internal/trip"
)

const (
	maxNameLen    = 255
	maxAddressLen = 500
)

var (
	// ErrNotFound is returned when a favorite does not exist or belongs to another user.
	ErrNotFound = errors.New("favorite not found")
	// ErrDuplicate is returned when the user already saved a place with the same name and type.
	ErrDuplicate = errors.New("favorite already exists")
	// ErrInvalid wraps validation failures.
	ErrInvalid = errors.New("invalid favorite")
)

// Favorite is a saved place.
type Favorite struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Type      trip.NodeType `json:"type"`
	Name      string        `json:"name"`
	Address   *string       `json:"address,omitempty"`
	Location  geo.Location  `json:"location"`
	CreatedAt time.Time     `json:"created_at"`
}

// Input is the body of a create request.
type Input struct {
	Type     trip.NodeType `json:"type"`
	Name     string        `json:"name"`
	Address  *string       `json:"address,omitempty"`
	Location geo.Location  `json:"location"`
}

// Grouped is the by-type listing.
type Grouped struct {
	Spot   []*Favorite `json:"spot"`
	Hotel  []*Favorite `json:"hotel"`
	Dining []*Favorite `json:"dining"`
}

// Validate checks the input fields.
func (in Input) Validate() error {
	if !trip.ValidNodeType(string(in.Type)) {
		return fmt.Errorf("%w: unknown type %q", ErrInvalid, in.Type)
	}
	if n := utf8.RuneCountInString(in.Name); n == 0 || n > maxNameLen {
		return fmt.Errorf("%w: name must be 1-%d characters", ErrInvalid, maxNameLen)
	}
	if in.Address != nil && utf8.RuneCountInString(*in.Address) > maxAddressLen {
		return fmt.Errorf("%w: address must be at most %d characters", ErrInvalid, maxAddressLen)
	}
	return nil
}

// TripItem converts a favorite into the trip store's shape.
func (f *Favorite) TripItem() trip.FavoriteItem {
	item := trip.FavoriteItem{
		ID:       f.ID,
		Name:     f.Name,
		Location: f.Location,
		Type:     f.Type,
		AddedAt:  f.CreatedAt.UnixMilli(),
	}
	if f.Address != nil {
		item.Address = *f.Address
	}
	return item
}
