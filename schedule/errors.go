package schedule

import (
	"errors"
	"strconv"
)

// Sentinel errors for the schedule package.
var (
	// ErrReentrant is matched by a ReentrancyError.
	ErrReentrant = errors.New("schedule: frame requested while another is pending")

	// ErrTimerForbidden is raised by every call to SetTimeout or SetInterval.
	ErrTimerForbidden = errors.New("schedule: timers are forbidden; drive animation with RequestAnimationFrame")
)

// ReentrancyError reports a frame request made while a previously requested
// frame callback has not run yet.
type ReentrancyError struct {
	Pending int
}

func (e *ReentrancyError) Error() string {
	return "schedule: calling RequestAnimationFrame while another call is pending is prohibited (pending=" +
		strconv.Itoa(e.Pending) + ")"
}

// Is reports whether target is ErrReentrant.
func (e *ReentrancyError) Is(target error) bool {
	return target == ErrReentrant
}

// TimerError reports use of a disabled timer primitive.
type TimerError struct {
	Func string
}

func (e *TimerError) Error() string {
	return "schedule: " + e.Func + " is forbidden; drive animation with RequestAnimationFrame"
}

// Is reports whether target is ErrTimerForbidden.
func (e *TimerError) Is(target error) bool {
	return target == ErrTimerForbidden
}
