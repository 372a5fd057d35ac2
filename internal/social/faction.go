// Package social provides factions, cultures, diplomatic relations, and holdings.
package social

import "github.com/talgya/narivia/internal/world"

// Faction is a polity that occupies regions and fields armies.
// Wealth and Alive are simulation state and never come from a catalog file.
type Faction struct {
	ID          string       `yaml:"id" json:"id"`
	Name        string       `yaml:"name" json:"name"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Colour      world.Colour `yaml:"colour" json:"colour"`
	CultureID   string       `yaml:"culture_id" json:"culture_id"`

	Wealth int  `yaml:"-" json:"wealth"`
	Alive  bool `yaml:"-" json:"alive"`
}

// Culture groups factions that share naming and art conventions.
type Culture struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	TextureSet  string   `yaml:"texture_set,omitempty" json:"texture_set,omitempty"`
	PlaceNames  []string `yaml:"place_names,omitempty" json:"place_names,omitempty"`
}
