package frontend

import "testing"

func TestClampFrame(t *testing.T) {
	cases := []struct {
		i, n, want int
	}{
		{-5, 10, 0},
		{0, 10, 0},
		{9, 10, 9},
		{15, 10, 9},
		{3, 10, 3},
	}
	for _, c := range cases {
		if got := clampFrame(c.i, c.n); got != c.want {
			t.Errorf("clampFrame(%d, %d) = %d, want %d", c.i, c.n, got, c.want)
		}
	}
}
