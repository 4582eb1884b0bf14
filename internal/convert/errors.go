package convert

import (
	"errors"
	"fmt"
)

// NoMatchError reports that the input matched none of the known formats.
type NoMatchError struct {
	// Input is the trimmed input as given by the caller.
	Input string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("could not parse %q to a date", e.Input)
}

// IsNoMatch reports whether err is, or wraps, a *NoMatchError.
func IsNoMatch(err error) bool {
	var nm *NoMatchError
	return errors.As(err, &nm)
}
