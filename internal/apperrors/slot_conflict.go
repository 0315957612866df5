package apperrors

import "fmt"

// SlotConflictError reports which resource made a requested time slot
// unavailable, so callers can surface a precise message.
type SlotConflictError struct {
	Resource string // "student", "coach" or "table"
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("time slot already occupied for %s", e.Resource)
}

// Is makes SlotConflictError match ErrConflict under errors.Is.
func (e *SlotConflictError) Is(target error) bool {
	return target == ErrConflict
}

// NewSlotConflict creates a SlotConflictError for the given resource kind.
func NewSlotConflict(resource string) *SlotConflictError {
	return &SlotConflictError{Resource: resource}
}
