package wizardapi

import (
	"fmt"

	"github.com/mmcdole/grimoire/internal/domain"
)

// StatusError is returned for any non-2xx response other than 404
type StatusError struct {
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.StatusCode)
}

func (e *StatusError) Unwrap() error { return domain.ErrUnexpectedStatus }

// DecodeError is returned when a response body is not valid JSON or a
// decoded record fails validation. Index is the offending array element,
// or -1 for whole-body and single-record failures.
type DecodeError struct {
	Resource string
	Index    int
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("decode %s[%d]: %v", e.Resource, e.Index, e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Resource, e.Err)
}

// Is lets errors.Is match both domain.ErrDecode and the underlying cause
func (e *DecodeError) Is(target error) bool { return target == domain.ErrDecode }

func (e *DecodeError) Unwrap() error { return e.Err }
