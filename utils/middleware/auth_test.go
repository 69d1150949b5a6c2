package middleware

import "testing"

func TestMatchSchoolCode(t *testing.T) {
	tenant := &TenantContext{SchoolID: 1, SchoolCode: "DPS-01", SchoolName: "Delhi Public School"}

	cases := []struct {
		clientCode string
		want       bool
	}{
		{"", true}, // older clients send no code
		{"DPS-01", true},
		{"dps-01", true},
		{"DPS-02", false},
	}

	for _, c := range cases {
		if got := MatchSchoolCode(tenant, c.clientCode); got != c.want {
			t.Errorf("MatchSchoolCode(%q) = %v, want %v", c.clientCode, got, c.want)
		}
	}
}
