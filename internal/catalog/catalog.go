// Package catalog holds the static dealer-to-showroom mapping. The catalog is
// read-only configuration loaded at startup; it is never persisted by the
// backend, and showroom membership is advisory (client-selected), not a
// foreign-key constraint.
package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
)

//go:embed dealers.json
var dealersFS embed.FS

// Catalog maps each dealer to its showrooms.
type Catalog struct {
	showrooms map[string][]string
	dealers   []string
}

// Load parses the embedded dealer catalog.
func Load() (*Catalog, error) {
	data, err := dealersFS.ReadFile("dealers.json")
	if err != nil {
		return nil, fmt.Errorf("reading dealer catalog: %w", err)
	}

	var m map[string][]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing dealer catalog: %w", err)
	}

	dealers := make([]string, 0, len(m))
	for d := range m {
		dealers = append(dealers, d)
	}
	sort.Strings(dealers)

	return &Catalog{showrooms: m, dealers: dealers}, nil
}

// Dealers returns all dealer names in stable order.
func (c *Catalog) Dealers() []string {
	out := make([]string, len(c.dealers))
	copy(out, c.dealers)
	return out
}

// Showrooms returns the showrooms for a dealer, or nil if the dealer is unknown.
func (c *Catalog) Showrooms(dealer string) []string {
	rooms, ok := c.showrooms[dealer]
	if !ok {
		return nil
	}
	out := make([]string, len(rooms))
	copy(out, rooms)
	return out
}

// HasDealer reports whether the dealer exists in the catalog.
func (c *Catalog) HasDealer(dealer string) bool {
	_, ok := c.showrooms[dealer]
	return ok
}

// HasShowroom reports whether the showroom belongs to the given dealer.
func (c *Catalog) HasShowroom(dealer, showroom string) bool {
	for _, s := range c.showrooms[dealer] {
		if s == showroom {
			return true
		}
	}
	return false
}

// All returns the full dealer-to-showrooms mapping for serialization.
func (c *Catalog) All() map[string][]string {
	out := make(map[string][]string, len(c.showrooms))
	for d, rooms := range c.showrooms {
		cp := make([]string, len(rooms))
		copy(cp, rooms)
		out[d] = cp
	}
	return out
}
