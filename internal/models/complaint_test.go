package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Valid(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusPending, true},
		{StatusInProgress, true},
		{StatusResolved, true},
		{"resolved", false},
		{"Resolved ", false},
		{"", false},
		{"Closed", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Valid())
		})
	}
}

func TestComplaint_IsPublic(t *testing.T) {
	for _, s := range Statuses() {
		c := &Complaint{Status: s}
		assert.Equal(t, s == StatusResolved, c.IsPublic(), "status %q", s)
	}

	// Совпадение только точное
	assert.False(t, (&Complaint{Status: "RESOLVED"}).IsPublic())
}
