package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrationURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"postgres scheme", "postgres://u:p@localhost:5432/civicflow?sslmode=disable", "pgx5://u:p@localhost:5432/civicflow?sslmode=disable"},
		{"postgresql scheme", "postgresql://localhost/civicflow", "pgx5://localhost/civicflow"},
		{"already pgx5", "pgx5://localhost/civicflow", "pgx5://localhost/civicflow"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MigrationURL(tt.in))
		})
	}
}
