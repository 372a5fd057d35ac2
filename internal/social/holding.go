package social

import "fmt"

// HoldingType is the development level of a holding slot.
type HoldingType uint8

const (
	HoldingEmpty  HoldingType = iota // Unbuilt slot, ignored by the economy
	HoldingCastle                    // Military seat
	HoldingCity                      // Trade centre
	HoldingTemple                    // Religious site
)

var holdingTypeNames = [...]string{"empty", "castle", "city", "temple"}

func (t HoldingType) String() string {
	if int(t) < len(holdingTypeNames) {
		return holdingTypeNames[t]
	}
	return fmt.Sprintf("HoldingType(%d)", uint8(t))
}

// ParseHoldingType parses a lower-case holding type name.
func ParseHoldingType(s string) (HoldingType, error) {
	if s == "" {
		return HoldingEmpty, nil
	}
	for i, name := range holdingTypeNames {
		if name == s {
			return HoldingType(i), nil
		}
	}
	return HoldingEmpty, fmt.Errorf("unknown holding type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t HoldingType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *HoldingType) UnmarshalText(b []byte) error {
	v, err := ParseHoldingType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Holding is a building slot inside a region. Its income goes to whoever
// currently occupies the region.
type Holding struct {
	ID          string      `yaml:"id" json:"id"`
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	RegionID    string      `yaml:"region_id" json:"region_id"`
	Type        HoldingType `yaml:"type" json:"type"`
}
