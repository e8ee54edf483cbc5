package sparql

import (
	"fmt"
)

// QueryError reports a malformed query. Fragment is the input around the
// failure point; a parse failure never degrades to an empty result.
type QueryError struct {
	Fragment string
	Reason   string
}

func (e *QueryError) Error() string {
	if e.Fragment == "" {
		return fmt.Sprintf("query error: %s", e.Reason)
	}
	return fmt.Sprintf("query error near %q: %s", e.Fragment, e.Reason)
}

// AsQueryError unwraps err to a *QueryError if it is one.
func AsQueryError(err error) (*QueryError, bool) {
	qe, ok := err.(*QueryError)
	return qe, ok
}
