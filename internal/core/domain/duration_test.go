package domain_test

import (
	"testing"

	"github.com/driftbuild/drift/internal/core/domain"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{5, "5.00 s"},
		{599, "599.00 s"},
		{600, "10.00 m"},
		{3600, "60.00 m"},
		{2 * 3600, "2.00 h"},
		{36 * 3600, "36.00 h"},
		{2 * 86400, "2.00 d"},
		{10 * 86400, "10.00 d"},
	}
	for _, tc := range cases {
		if got := domain.FormatDuration(tc.seconds); got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}
