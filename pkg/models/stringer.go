package models

// String methods for all custom string types.
// These are required for toon serialization, which uses fmt.Stringer.

// Grade
func (g Grade) String() string { return string(g) }

// ImportOutcome
func (o ImportOutcome) String() string { return string(o) }

// Theme
func (t Theme) String() string { return string(t) }
