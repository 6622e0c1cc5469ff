package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanAccess(t *testing.T) {
	cases := []struct {
		role       string
		permission string
		want       bool
	}{
		{"admin", PermManageDrivers, true},
		{"admin", PermManageRewards, true},
		{"admin", PermImportPoints, true},
		{"admin", PermGrantPoints, true},
		{"driver", PermManageDrivers, false},
		{"driver", PermImportPoints, false},
		{"driver", PermGrantPoints, false},
		{"", PermManageDrivers, false},
		{"superuser", PermManageDrivers, false}, // unknown roles hold nothing
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanAccess(tc.role, tc.permission),
			"role=%q permission=%q", tc.role, tc.permission)
	}
}
