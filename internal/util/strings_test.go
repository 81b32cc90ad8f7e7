package util

import "testing"

func TestJoinWithEqualSpacing(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		items    []string
		expected string
	}{
		{"no items", 10, nil, ""},
		{"no width", 0, []string{"a"}, ""},
		{"single item", 10, []string{"abc"}, "abc"},
		{"two items", 10, []string{"ab", "cd"}, "ab      cd"},
		{"uneven spacing", 10, []string{"a", "b", "c"}, "a    b   c"},
		{"exact fit", 4, []string{"ab", "cd"}, "abcd"},
		{"truncated", 5, []string{"abc", "def"}, "abcde"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			CmpStr(t, tt.expected, JoinWithEqualSpacing(tt.width, tt.items...))
		})
	}
}
