package extract

import "testing"

func TestFirstField(t *testing.T) {
	tests := []struct {
		record string
		key    string
		ok     bool
	}{
		{"a 1", "a", true},
		{"hello", "hello", true},
		{"one two three", "one", true},
		{"  lead 5", "lead", true},
		{"\tword\t2", "word", true},
		{"Word word", "Word", true},
		{"a,b c", "a,b", true},
		{"", "", false},
		{"   ", "", false},
		{"\t\t", "", false},
	}
	for _, tt := range tests {
		key, ok := FirstField(tt.record)
		if key != tt.key || ok != tt.ok {
			t.Errorf("FirstField(%q) = %q, %v; want %q, %v", tt.record, key, ok, tt.key, tt.ok)
		}
	}
}
