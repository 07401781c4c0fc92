package scene

import "fmt"

// Vec3 is a world-space location.
type Vec3 [3]float64

// Add returns v+o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }

// Sub returns v-o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }

// Scale returns v*f.
func (v Vec3) Scale(f float64) Vec3 { return Vec3{v[0] * f, v[1] * f, v[2] * f} }

func toVec3(xs []float64) (Vec3, error) {
	switch len(xs) {
	case 0:
		return Vec3{}, nil
	case 3:
		return Vec3{xs[0], xs[1], xs[2]}, nil
	default:
		return Vec3{}, fmt.Errorf("want 3 components, got %d", len(xs))
	}
}
