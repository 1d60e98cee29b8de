package geo_test

import (
	"math"
	"testing"

	"github.com/quest-of-seoul/go-docent/pkg/geo"
)

func TestDistance(t *testing.T) {
	t.Run("identical points are zero", func(t *testing.T) {
		d := geo.Distance(37.5665, 126.9780, 37.5665, 126.9780)
		if d != 0 {
			t.Errorf("expected 0, got %f", d)
		}
	})

	t.Run("one degree of latitude", func(t *testing.T) {
		d := geo.Distance(37.0, 126.9780, 38.0, 126.9780)
		want := 111.19
		if math.Abs(d-want)/want > 0.005 {
			t.Errorf("expected ~%f km (within 0.5%%), got %f", want, d)
		}
	})

	t.Run("symmetric", func(t *testing.T) {
		a := geo.Distance(37.5665, 126.9780, 37.5796, 126.9770)
		b := geo.Distance(37.5796, 126.9770, 37.5665, 126.9780)
		if a != b {
			t.Errorf("expected symmetric distance, got %f and %f", a, b)
		}
	})

	t.Run("known pair", func(t *testing.T) {
		// City Hall to Gyeongbokgung, roughly 1.5 km
		d := geo.Distance(37.5665, 126.9780, 37.5796, 126.9770)
		if d < 1.0 || d > 2.0 {
			t.Errorf("expected distance between 1 and 2 km, got %f", d)
		}
	})
}
