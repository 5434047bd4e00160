package render

import "testing"

func TestFadeAlphaEnvelope(t *testing.T) {
	const window, fade = 2.0, 0.25

	cases := []struct {
		elapsed float64
		want    float64
	}{
		{-0.1, 0},
		{0, 0},
		{0.125, 0.5},
		{0.25, 1},
		{1.0, 1},
		{1.75, 1},
		{1.875, 0.5},
		{2.0, 0},
		{2.5, 0},
	}
	for _, c := range cases {
		got := fadeAlpha(c.elapsed, window, fade)
		if diff := got - c.want; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("fadeAlpha(%v) = %v, want %v", c.elapsed, got, c.want)
		}
	}
}

func TestFadeAlphaShortWindowClampsFade(t *testing.T) {
	// Window shorter than twice the fade: midpoint must still hit full
	// opacity.
	if got := fadeAlpha(0.1, 0.2, 0.25); got != 1 {
		t.Fatalf("midpoint alpha = %v, want 1", got)
	}
}

func TestFadeAlphaZeroWindow(t *testing.T) {
	if got := fadeAlpha(0, 0, 0.25); got != 1 {
		t.Fatalf("zero window alpha = %v, want 1", got)
	}
}
