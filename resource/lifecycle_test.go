package resource

import "testing"

func TestStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusProvisioning, StatusActive, true},
		{StatusProvisioning, StatusDecommissioned, true},
		{StatusProvisioning, StatusProvisioning, true},
		{StatusProvisioning, StatusMaintenance, false},
		{StatusActive, StatusMaintenance, true},
		{StatusActive, StatusDecommissioned, true},
		{StatusActive, StatusProvisioning, false},
		{StatusMaintenance, StatusActive, true},
		{StatusMaintenance, StatusProvisioning, false},
		{StatusDecommissioned, StatusDecommissioned, true},
		{StatusDecommissioned, StatusActive, false},
		{StatusDecommissioned, StatusMaintenance, false},
	}

	for _, tc := range cases {
		got := tc.from.CanTransitionTo(tc.to)
		if got != tc.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}
