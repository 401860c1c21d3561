package issues

import "fmt"

// NotFoundError reports that an id has no corresponding remote record.
type NotFoundError struct {
	Resource string // "issue" or "milestone"
	Number   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.Number)
}

// RemoteWriteError reports that the remote store rejected a create or update,
// for example an unknown assignee or milestone, or an auth failure.
type RemoteWriteError struct {
	Op      string // the operation that failed, e.g. "create issue"
	Status  int    // HTTP status when known, 0 otherwise
	Message string
	Err     error
}

func (e *RemoteWriteError) Error() string {
	if e.Message != "" {
		if e.Status > 0 {
			return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
		}
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s failed", e.Op)
}

func (e *RemoteWriteError) Unwrap() error {
	return e.Err
}
