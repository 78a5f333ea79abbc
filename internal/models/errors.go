package models

import "fmt"

// ValidationError reports invalid annotation input (unknown enum value,
// growth pattern on a level that does not allow one, confidence out of range).
// The annotation store is never touched when a ValidationError is returned.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// FormatError reports malformed serialized annotation data encountered during
// import or restore. Importers skip the offending record and continue.
type FormatError struct {
	Key    string
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("malformed field %s (%q): %s", e.Key, e.Value, e.Reason)
	}
	return fmt.Sprintf("malformed field %s: %s", e.Key, e.Reason)
}
