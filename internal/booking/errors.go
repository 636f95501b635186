package booking

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrSuperseded reports that a slot query's response arrived after a newer
	// date selection and was discarded.
	ErrSuperseded = errors.New("slot query superseded by a newer date selection")

	// ErrNotCollecting reports a mutation attempted outside CollectingDetails.
	ErrNotCollecting = errors.New("booking is not collecting details")

	// ErrConfirmed reports a mutation attempted on a confirmed booking; a new
	// booking needs a fresh workflow.
	ErrConfirmed = errors.New("booking already confirmed")
)

// ValidationFailedError carries the field-keyed error map that blocked a
// submission. It never crosses the network.
type ValidationFailedError struct {
	Fields map[string]string
}

func (e *ValidationFailedError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}
