// Package military provides unit templates and the per-faction army roster.
package military

// Unit is a troop template. Units are not owned; factions hold armies of them.
type Unit struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Type        string `yaml:"type,omitempty" json:"type,omitempty"`
	Power       int    `yaml:"power" json:"power"`
	Health      int    `yaml:"health" json:"health"`
	Price       int    `yaml:"price" json:"price"`
	Maintenance int    `yaml:"maintenance" json:"maintenance"` // Upkeep per troop per turn
}

// ArmyKey identifies an army entry. There is at most one entry per key.
type ArmyKey struct {
	FactionID string
	UnitID    string
}

// Army is the number of troops of one unit type belonging to one faction.
type Army struct {
	FactionID string `json:"faction_id"`
	UnitID    string `json:"unit_id"`
	Size      int    `json:"size"`
}

// Key returns the army's composite identifier.
func (a Army) Key() ArmyKey {
	return ArmyKey{FactionID: a.FactionID, UnitID: a.UnitID}
}

// Power returns the army's effective strength for the given template.
func (a Army) Power(u Unit) int {
	return a.Size * u.Power
}
