package orderstatus

import "strings"

type Status struct {
	Name string
}

func (s Status) Code() string {
	return s.Name
}

func (s Status) Label() string {
	parts := strings.Split(s.Name, "-")
	for i := range parts {
		if len(parts[i]) > 0 {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, " ")
}

// Terminal reports whether no further transition is permitted from s.
func (s Status) Terminal() bool {
	return s == Statuses.Served || s == Statuses.Cancelled
}

// Next returns the following step on the canonical path. It returns false
// for the last step and for statuses off the path (cancelled, unknown).
func (s Status) Next() (Status, bool) {
	idx := Index(s)
	if idx < 0 || idx >= len(Sequence)-1 {
		return Status{}, false
	}
	return Sequence[idx+1], true
}

type Enum struct {
	Pending   Status
	Confirmed Status
	Preparing Status
	Ready     Status
	Served    Status
	Cancelled Status
}

var Statuses = Enum{
	Pending:   Status{Name: "pending"},
	Confirmed: Status{Name: "confirmed"},
	Preparing: Status{Name: "preparing"},
	Ready:     Status{Name: "ready"},
	Served:    Status{Name: "served"},
	Cancelled: Status{Name: "cancelled"},
}

var All = []Status{
	Statuses.Pending,
	Statuses.Confirmed,
	Statuses.Preparing,
	Statuses.Ready,
	Statuses.Served,
	Statuses.Cancelled,
}

// Sequence is the canonical forward path an order follows. Cancellation is a
// side exit and is not part of the sequence.
var Sequence = []Status{
	Statuses.Pending,
	Statuses.Confirmed,
	Statuses.Preparing,
	Statuses.Ready,
	Statuses.Served,
}

// ByName returns the status for a given name, or nil if not found
func ByName(name string) *Status {
	for _, s := range All {
		if s.Name == name {
			return &s
		}
	}
	return nil
}

// Index returns the position of s on the canonical path, or -1 for statuses
// off the path.
func Index(s Status) int {
	for i, step := range Sequence {
		if step == s {
			return i
		}
	}
	return -1
}

// CanTransition reports whether moving from one status to another is legal.
// Terminal statuses accept nothing. Any non-terminal status may be cancelled.
// Otherwise the move must be strictly forward on the canonical path; skipping
// intermediate steps is allowed (staff jump pending straight to preparing).
func CanTransition(from, to Status) bool {
	if from.Terminal() {
		return false
	}
	if to == Statuses.Cancelled {
		return true
	}
	fromIdx, toIdx := Index(from), Index(to)
	if fromIdx < 0 || toIdx < 0 {
		return false
	}
	return toIdx > fromIdx
}
