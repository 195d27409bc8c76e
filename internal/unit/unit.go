package unit

import "time"

// Extension is the file extension that marks a loadable unit.
const Extension = ".hcl"

// Visibility tags the root a unit was discovered under.
type Visibility string

const (
	// Public units live under a committed modules directory.
	Public Visibility = "public"
	// Private units live under a gitignored private directory.
	Private Visibility = "private"
)

// State tracks a unit through the rebuild pipeline.
type State string

const (
	// Unloaded is the state of a freshly scanned unit.
	Unloaded State = "unloaded"
	// Valid means the unit parsed cleanly but has not been executed yet.
	Valid State = "valid"
	// Loaded means the unit's top-level statements ran and its tools were
	// extracted.
	Loaded State = "loaded"
	// Rejected means validation or load failed; Reason carries the cause.
	Rejected State = "rejected"
)

// Unit is a discovered source artifact. The logical name is the file stem,
// stable across reloads; the path is absolute and has been verified to
// resolve inside one of the configured roots.
type Unit struct {
	Name       string
	Path       string
	Visibility Visibility
	State      State
	Reason     string
}

// Reject moves the unit to the rejected state with the given cause.
func (u *Unit) Reject(reason string) {
	u.State = Rejected
	u.Reason = reason
}

// RejectedRecord describes a unit that failed validation or load, retained
// until the unit next rebuilds successfully or leaves the scan set.
type RejectedRecord struct {
	Name   string    `json:"name"`
	Path   string    `json:"path"`
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}
