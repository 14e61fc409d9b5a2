package schedule

import "fmt"

// CycledSystemLinksError is returned when registering a system would close a
// cycle in the dependency graph. The graph is left unchanged.
type CycledSystemLinksError struct {
	System string
}

func (e CycledSystemLinksError) Error() string {
	return fmt.Sprintf("system links of %q form a cycle", e.System)
}

type SystemExistsError struct {
	System string
}

func (e SystemExistsError) Error() string {
	return fmt.Sprintf("system %q is already registered", e.System)
}

type SystemNotFoundError struct {
	System string
}

func (e SystemNotFoundError) Error() string {
	return fmt.Sprintf("system %q is not registered", e.System)
}

type InvalidSystemError struct {
	System string
	Reason string
}

func (e InvalidSystemError) Error() string {
	return fmt.Sprintf("invalid system %q: %s", e.System, e.Reason)
}

type ArenaFullError struct {
	Capacity int
}

func (e ArenaFullError) Error() string {
	return fmt.Sprintf("arena at maximum capacity (%d)", e.Capacity)
}

// PanicError carries a panic recovered from a system handler.
type PanicError struct {
	System string
	Value  any
}

func (e PanicError) Error() string {
	return fmt.Sprintf("system %q panicked: %v", e.System, e.Value)
}
