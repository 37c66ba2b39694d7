// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package location holds the configured locations and the rotator that selects the active one.
package location

import (
	"errors"
	"strings"
	"sync"
)

// ErrEmptyLocationSet is returned when a Rotator is created without any location.
var ErrEmptyLocationSet = errors.New("location set must not be empty")

// Location is a named place. It is comparable and used as cache key.
type Location struct {
	Name    string
	Country string
}

// New returns a Location with surrounding whitespace removed from name and country.
func New(name, country string) Location {
	return Location{Name: strings.TrimSpace(name), Country: strings.TrimSpace(country)}
}

// Key returns the "name,country" form used for cache keys and API queries.
func (l Location) Key() string {
	if l.Country == "" {
		return l.Name
	}
	return l.Name + "," + l.Country
}

func (l Location) String() string {
	if l.Country == "" {
		return l.Name
	}
	return l.Name + ", " + l.Country
}

// Rotator holds an ordered, non-empty set of locations and the index of the active one.
type Rotator struct {
	mu        sync.RWMutex
	locations []Location
	index     int
}

// NewRotator returns a Rotator positioned at the first of locs.
func NewRotator(locs []Location) (*Rotator, error) {
	if len(locs) == 0 {
		return nil, ErrEmptyLocationSet
	}
	cp := make([]Location, len(locs))
	copy(cp, locs)
	return &Rotator{locations: cp}, nil
}

// Current returns the active location.
func (r *Rotator) Current() Location {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.locations[r.index]
}

// Next advances to the following location, wrapping to the first one, and returns it.
func (r *Rotator) Next() Location {
	return r.move(1)
}

// Previous moves back to the preceding location, wrapping to the last one, and returns it.
func (r *Rotator) Previous() Location {
	return r.move(-1)
}

// Index returns the position of the active location.
func (r *Rotator) Index() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.index
}

// Len returns the number of locations.
func (r *Rotator) Len() int {
	return len(r.locations)
}

func (r *Rotator) move(step int) Location {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.locations)
	r.index = ((r.index+step)%n + n) % n
	return r.locations[r.index]
}
