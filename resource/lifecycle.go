package resource

// Status is the ComputeResource lifecycle state.
type Status string

const (
	StatusProvisioning   Status = "Provisioning"
	StatusActive         Status = "Active"
	StatusMaintenance    Status = "Maintenance"
	StatusDecommissioned Status = "Decommissioned"
)

func (s Status) String() string { return string(s) }

// transitions is the allowed-transition relation from §4.3. Same-state
// transitions are always permitted and idempotent; Decommissioned is
// terminal and absorbing.
var transitions = map[Status]map[Status]bool{
	StatusProvisioning: {
		StatusProvisioning:   true,
		StatusActive:         true,
		StatusDecommissioned: true,
	},
	StatusActive: {
		StatusActive:         true,
		StatusMaintenance:    true,
		StatusDecommissioned: true,
	},
	StatusMaintenance: {
		StatusMaintenance:    true,
		StatusActive:         true,
		StatusDecommissioned: true,
	},
	StatusDecommissioned: {
		StatusDecommissioned: true,
	},
}

// CanTransitionTo reports whether the state machine permits from -> to. It
// is a pure, total, decidable function consulted by command handlers before
// emitting StatusChanged.
func (s Status) CanTransitionTo(to Status) bool {
	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	return allowed[to]
}
