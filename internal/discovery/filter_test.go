package discovery

import (
	"testing"
)

func TestFilter_FilterByName(t *testing.T) {
	filter := NewFilter()

	tests := []struct {
		name     string
		tests    []string
		pattern  string
		expected int // Expected number of matches
	}{
		{
			name:     "empty pattern returns all",
			tests:    []string{"load.test.js", "spike.test.js", "api.test.ts"},
			pattern:  "",
			expected: 3,
		},
		{
			name:     "wildcard pattern matches suffix",
			tests:    []string{"load.test.js", "spike.test.js", "api.test.ts"},
			pattern:  "*spike.test.js",
			expected: 1,
		},
		{
			name:     "wildcard pattern matches substring",
			tests:    []string{"load.test.js", "api.test.ts", "api-auth.test.ts", "spike.test.js"},
			pattern:  "*api*",
			expected: 2,
		},
		{
			name:     "simple contains match",
			tests:    []string{"load.test.js", "spike.test.js", "api.test.ts"},
			pattern:  "spike",
			expected: 1,
		},
		{
			name:     "no matches",
			tests:    []string{"load.test.js", "spike.test.js"},
			pattern:  "*soak*",
			expected: 0,
		},
		{
			name:     "full path with wildcard",
			tests:    []string{"/path/to/load.test.js", "/path/to/spike.test.js"},
			pattern:  "*load.test.js",
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filter.FilterByName(tt.tests, tt.pattern)
			if len(result) != tt.expected {
				t.Errorf("expected %d matches, got %d", tt.expected, len(result))
			}
		})
	}
}

func TestFilter_FilterByName_EdgeCases(t *testing.T) {
	filter := NewFilter()

	t.Run("empty test list", func(t *testing.T) {
		result := filter.FilterByName([]string{}, "*.test.js")
		if len(result) != 0 {
			t.Errorf("expected empty result, got %d items", len(result))
		}
	})

	t.Run("pattern with multiple wildcards", func(t *testing.T) {
		tests := []string{"api-users.test.ts", "api-orders.test.ts", "spike.test.js"}
		result := filter.FilterByName(tests, "*api*test.ts")
		if len(result) != 2 {
			t.Errorf("expected 2 matches, got %d", len(result))
		}
	})

	t.Run("lone wildcard matches everything", func(t *testing.T) {
		tests := []string{"a.test.js", "b.test.js"}
		if result := filter.FilterByName(tests, "*"); len(result) != 2 {
			t.Errorf("expected 2 matches, got %d", len(result))
		}
	})
}
