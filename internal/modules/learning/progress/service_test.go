package progress

import "testing"

func TestPercentage(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      int
	}{
		{"empty course", 0, 0, 0},
		{"negative total", 3, -1, 0},
		{"nothing done", 0, 10, 0},
		{"all done", 10, 10, 100},
		{"over-complete caps at 100", 12, 10, 100},
		{"half done", 5, 10, 50},
		{"rounds up", 1, 3, 33},
		{"rounds to nearest", 2, 3, 67},
		{"one of seven", 1, 7, 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentage(tt.completed, tt.total); got != tt.want {
				t.Errorf("Percentage(%d, %d) = %d, want %d", tt.completed, tt.total, got, tt.want)
			}
		})
	}
}
