package loader

import "fmt"

// LoadError reports why a world definition could not be loaded. No partial
// world is ever returned alongside it.
type LoadError struct {
	WorldID string
	Op      string // e.g. "meta", "catalog", "raster", "classify", "assemble"
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load world %q: %s: %v", e.WorldID, e.Op, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
