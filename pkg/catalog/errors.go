package catalog

// GroundingError is returned when the event catalog could not be read.
// No partial catalog accompanies it.
type GroundingError struct {
	Err error
}

func (e *GroundingError) Error() string {
	if e.Err == nil {
		return "failed to fetch events"
	}
	return "failed to fetch events: " + e.Err.Error()
}

func (e *GroundingError) Unwrap() error {
	return e.Err
}

// NotFoundError is returned when an event doesn't exist in the catalog.
type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	if e.ID == "" {
		return "event not found"
	}
	return "event not found: " + e.ID
}
