// Package economy provides the per-turn income, upkeep, and recruitment rules.
package economy

// Resource is a tradeable good listed in the world catalog. Resources carry
// no gameplay effect yet.
type Resource struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Type        string `yaml:"type,omitempty" json:"type,omitempty"`
}
