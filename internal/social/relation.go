package social

// Relation bounds.
const (
	MinRelation = -100
	MaxRelation = 100
)

// Relation is the diplomatic score one faction holds towards another.
// Relations are stored in both directions with equal values.
type Relation struct {
	SourceID string `json:"source_faction_id"`
	TargetID string `json:"target_faction_id"`
	Value    int    `json:"value"`
}

// ClampRelation limits v to [MinRelation, MaxRelation].
func ClampRelation(v int) int {
	if v < MinRelation {
		return MinRelation
	}
	if v > MaxRelation {
		return MaxRelation
	}
	return v
}
