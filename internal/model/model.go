package model

import (
	"fmt"

	"chronos/internal/chronodate"
)

// Kind is the entity kind selected by a line's sigil.
type Kind int

const (
	KindEvent Kind = iota
	KindPeriod
	KindPoint
	// KindMarker lines produce a Marker instead of an Item.
	KindMarker
)

var kindNames = map[Kind]string{
	KindEvent:  "event",
	KindPeriod: "period",
	KindPoint:  "point",
	KindMarker: "marker",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	n, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("model: unknown kind %d", int(k))
	}
	return []byte(n), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	for kind, n := range kindNames {
		if n == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("model: unknown kind %q", b)
}

// Item is one timeline entry produced from a single DSL line.
type Item struct {
	Content string           `json:"content"`
	Start   chronodate.Date  `json:"start"`
	End     *chronodate.Date `json:"end,omitempty"`
	Kind    Kind             `json:"kind"`
	// Group references Group.ID. Nil means the line named no group; after
	// assembly it is only nil when the result has no groups at all.
	Group       *int   `json:"group,omitempty"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
	// Link is an opaque reference for the host to resolve, e.g. "[[Note]]".
	Link string `json:"link,omitempty"`
	Line int    `json:"line"`
}

// IsRange reports whether the item spans a start and an end.
func (it Item) IsRange() bool {
	return it.End != nil
}

// Marker is a labelled vertical reference line.
type Marker struct {
	Start chronodate.Date `json:"start"`
	Label string          `json:"content"`
	Line  int             `json:"line"`
}

// Group is a lane that items can be assigned to.
type Group struct {
	ID    int    `json:"id"`
	Label string `json:"content"`
}

// ViewWindow is the initial visible range requested by DEFAULTVIEW.
type ViewWindow struct {
	Start chronodate.Date `json:"start"`
	End   chronodate.Date `json:"end"`
}

// Flags are display settings from flag lines. The parser only validates
// their syntax; the renderer interprets them.
type Flags struct {
	OrderBy     []string    `json:"orderBy,omitempty"`
	DefaultView *ViewWindow `json:"defaultView,omitempty"`
	NoToday     bool        `json:"noToday,omitempty"`
	// Height in pixels; zero means unset.
	Height int `json:"height,omitempty"`
}

// ParseResult is the output contract handed to a renderer.
type ParseResult struct {
	Items   []Item   `json:"items"`
	Markers []Marker `json:"markers"`
	Groups  []Group  `json:"groups"`
	Flags   Flags    `json:"flags"`
}
