package domain_test

import (
	"path/filepath"
	"testing"

	"go.trai.ch/catalyst/internal/core/domain"
)

func TestLayoutPaths(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{
			name:     "DefaultCatalystPath",
			got:      domain.DefaultCatalystPath(),
			expected: ".catalyst",
		},
		{
			name:     "DefaultSessionsPath",
			got:      domain.DefaultSessionsPath(),
			expected: filepath.Join(".catalyst", "sessions"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s() = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}
}
