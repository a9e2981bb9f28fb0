package domain

import "bytes"

// Tristate is a three-valued boolean used wherever an inconclusive signal
// must stay distinguishable from a negative one (certificate validity,
// allow-list membership). The zero value is Unknown so a forgotten
// assignment can never read as success.
type Tristate int

const (
	// Unknown means the signal could not be determined.
	Unknown Tristate = iota
	// False means the signal was determined and is negative.
	False
	// True means the signal was determined and is positive.
	True
)

// TristateOf converts a definite boolean into a Tristate.
func TristateOf(b bool) Tristate {
	if b {
		return True
	}

	return False
}

// IsTrue reports whether the value is definitely true. Unknown is not true.
func (t Tristate) IsTrue() bool { return t == True }

// String returns "unknown", "false" or "true".
func (t Tristate) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes True/False as JSON booleans and Unknown as null.
func (t Tristate) MarshalJSON() ([]byte, error) {
	switch t {
	case True:
		return []byte("true"), nil
	case False:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes JSON true/false/null into the matching Tristate.
func (t *Tristate) UnmarshalJSON(b []byte) error {
	switch {
	case bytes.Equal(b, []byte("true")):
		*t = True
	case bytes.Equal(b, []byte("false")):
		*t = False
	default:
		*t = Unknown
	}

	return nil
}
