package social_test

import (
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/talgya/narivia/internal/social"
)

func TestHoldingType_YAML(t *testing.T) {
	t.Parallel()

	var hs []social.Holding
	src := `
- id: h1
  name: Highkeep
  region_id: r1
  type: castle
- id: h2
  name: Empty slot
  region_id: r1
`
	if err := yaml.Unmarshal([]byte(src), &hs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if hs[0].Type != social.HoldingCastle {
		t.Errorf("h1 type = %s, want castle", hs[0].Type)
	}
	if hs[1].Type != social.HoldingEmpty {
		t.Errorf("h2 type = %s, want empty", hs[1].Type)
	}

	if err := yaml.Unmarshal([]byte("- id: h3\n  type: palace\n"), &hs); err == nil {
		t.Error("expected error for unknown holding type")
	}
}

func TestClampRelation(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want int }{
		{0, 0},
		{-100, -100},
		{-250, -100},
		{100, 100},
		{101, 100},
		{42, 42},
	}
	for _, tc := range tests {
		if got := social.ClampRelation(tc.in); got != tc.want {
			t.Errorf("ClampRelation(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
