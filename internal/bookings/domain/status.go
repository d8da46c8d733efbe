// Package domain holds the booking state machine.
package domain

// Status is a booking's lifecycle state.
type Status string

const (
	// StatusTentative is a booking created before a quote exists.
	StatusTentative Status = "tentative"
	// StatusQuoted is a booking carrying a generated price band.
	StatusQuoted Status = "quoted"
	// StatusConfirmed is a committed booking occupying its calendar slot.
	StatusConfirmed Status = "confirmed"
	// StatusCancelled is terminal.
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusTentative, StatusQuoted, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s Status) Terminal() bool { return s == StatusCancelled }

// transitions maps each status to the statuses it may move to.
var transitions = map[Status][]Status{
	StatusTentative: {StatusQuoted, StatusCancelled},
	StatusQuoted:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled},
	StatusCancelled: {},
}

// CanTransition reports whether a booking may move from one status to
// another. Re-quoting a confirmed or cancelled booking is not a transition
// this table allows; callers surface that as a conflict.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Active reports whether the booking occupies calendar capacity.
func (s Status) Active() bool { return s != StatusCancelled }
