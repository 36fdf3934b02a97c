package shelf

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Platform is the hardware platform code of a game (e.g. "PS5", "SWITCH").
// The empty value means the platform is unset.
type Platform string

// StoreCode identifies where a game was bought (e.g. "amz", "psn").
// The empty value means the store is unset.
type StoreCode string

// Condition describes the physical state of a game copy.
type Condition string

const (
	ConditionNew     Condition = "New"
	ConditionUsed    Condition = "Used"
	ConditionUnknown Condition = "Unknown"
)

// ParseCondition converts a raw condition string into a Condition.
// Matching is case-insensitive and the empty string maps to ConditionUnknown.
func ParseCondition(raw string) (Condition, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "new":
		return ConditionNew, nil
	case "used":
		return ConditionUsed, nil
	case "", "unknown":
		return ConditionUnknown, nil
	default:
		return "", fmt.Errorf("%w: unknown condition %q", ErrInvalidGame, raw)
	}
}

// UnmarshalJSON accepts any casing of the known conditions so that files
// exported by older versions of the library import cleanly.
func (c *Condition) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding condition: %w", err)
	}
	if raw == nil {
		*c = ConditionUnknown
		return nil
	}
	parsed, err := ParseCondition(*raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Game is a single item of a user's collection.
//
// ID is assigned by the record store when the game is first persisted and is
// zero until then. It is never part of the stored payload; it is filled in
// from the owning Record on every read.
type Game struct {
	ID          int64     `json:"id,omitempty"`
	Title       string    `json:"title"`
	Price       *float64  `json:"price,omitempty"`
	Store       StoreCode `json:"store,omitempty"`
	Platform    Platform  `json:"platform,omitempty"`
	Condition   Condition `json:"condition"`
	Platinum    bool      `json:"platinum"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
}

// Validate checks the invariants a game must satisfy before it is stored.
func (g *Game) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidGame)
	}
	if g.Price != nil {
		if math.IsNaN(*g.Price) || math.IsInf(*g.Price, 0) {
			return fmt.Errorf("%w: price must be a finite number", ErrInvalidGame)
		}
		if *g.Price < 0 {
			return fmt.Errorf("%w: price must not be negative", ErrInvalidGame)
		}
	}
	if g.Platform != "" && !IsKnownPlatform(g.Platform) {
		return fmt.Errorf("%w: unknown platform %q", ErrInvalidGame, g.Platform)
	}
	if g.Store != "" && !IsKnownStore(g.Store) {
		return fmt.Errorf("%w: unknown store %q", ErrInvalidGame, g.Store)
	}
	switch g.Condition {
	case ConditionNew, ConditionUsed, ConditionUnknown, "":
	default:
		return fmt.Errorf("%w: unknown condition %q", ErrInvalidGame, g.Condition)
	}
	return nil
}

// normalized returns a copy of g ready to be stored: no id, trimmed title and
// an explicit condition.
func (g Game) normalized() Game {
	g.ID = 0
	g.Title = strings.TrimSpace(g.Title)
	if g.Condition == "" {
		g.Condition = ConditionUnknown
	}
	if g.Price != nil {
		p := *g.Price
		g.Price = &p
	}
	return g
}

// PriceValue returns the price, treating an unset price as zero.
func (g *Game) PriceValue() float64 {
	if g.Price == nil {
		return 0
	}
	return *g.Price
}

// PriceOf is a helper for building games with a set price.
func PriceOf(v float64) *float64 {
	return &v
}
