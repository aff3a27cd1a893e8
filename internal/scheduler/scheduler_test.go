package scheduler

import "testing"

func TestCronSpec(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"07:00", "0 7 * * *"},
		{"06:30", "30 6 * * *"},
		{"18:05", "5 18 * * *"},
		{"00:00", "0 0 * * *"},
		{"23:59", "59 23 * * *"},
	}
	for _, tt := range tests {
		got, err := cronSpec(tt.in)
		if err != nil {
			t.Errorf("cronSpec(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("cronSpec(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCronSpecRejectsInvalid(t *testing.T) {
	for _, in := range []string{"", "7", "24:00", "12:60", "ab:cd", "12:5x"} {
		if _, err := cronSpec(in); err == nil {
			t.Errorf("cronSpec(%q) should fail", in)
		}
	}
}
