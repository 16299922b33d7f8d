package rating_test

import (
	"testing"

	"github.com/BhushanMasters/AI-Powered-Customer-Review-Insights/internal/rating"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"★★★★☆ (4 stars)", 4},
		{"★★★", 3},
		{"⭐⭐⭐⭐⭐", 5},
		{"★★★★★★★", 5}, // clamped
		{"*****", 5},
		{"** ", 2},
		{"3 stars", 3},
		{"1 star", 1},
		{"three stars", 3},
		{"(4 stars)", 4},
		{"4.5", 4.5},
		{"4,5", 4.5},
		{"5", 5},
		{"0", 0},
		{"8", 4},    // 10-point scale
		{"100", 5},  // 100-point scale
		{"8/10", 4},
		{"10/10", 5},
		{"4/5", 4},
		{"0/5", 0},
		{"4.5/5", 4.5},
		{"90%", 4.5},
		{"excellent", 5},
		{"Good", 4},
		{"very good", 4},
		{"terrible", 1},
		{"five", 5},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got := rating.Normalize(c.in)
			if got == nil {
				t.Fatalf("Normalize(%q) = nil, want %v", c.in, c.want)
			}
			if *got != c.want {
				t.Fatalf("Normalize(%q) = %v, want %v", c.in, *got, c.want)
			}
		})
	}
}

func TestNormalizeUnrecognized(t *testing.T) {
	for _, in := range []string{"", "   ", "N/A", "no rating", "-2", "???", "101", "9999", "a/b"} {
		if got := rating.Normalize(in); got != nil {
			t.Errorf("Normalize(%q) = %v, want nil", in, *got)
		}
	}
}

func TestNormalizeBounds(t *testing.T) {
	inputs := []string{
		"★★★★★★★★★★", "**********", "500%", "99/100", "10/2", "5.0000001",
		"excellent stars", "0.0001", "10", "1/3", "weird ★ text ★ here ★",
	}
	for _, in := range inputs {
		got := rating.Normalize(in)
		if got == nil {
			continue
		}
		if *got < rating.Min || *got > rating.Max {
			t.Errorf("Normalize(%q) = %v, outside [%v,%v]", in, *got, rating.Min, rating.Max)
		}
	}
}
