package domain

import "slices"

// FileCollection is a named set of candidate source files.
type FileCollection struct {
	Name string
	// Files are absolute paths in discovery order.
	Files []string
	// Tools restricts bidding to the named configurations. Empty allows all of them.
	Tools []string
	// Required makes a file that no configuration claims a configuration error.
	Required bool
}

// Allows reports whether the collection lets the named configuration bid.
func (c FileCollection) Allows(tool string) bool {
	return len(c.Tools) == 0 || slices.Contains(c.Tools, tool)
}
