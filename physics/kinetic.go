package physics

import "math"

// Vertical integrates height above the track plane under gravity
type Vertical struct {
	Height   float64
	Velocity float64
	Grounded bool
}

// LaunchVelocity is the take-off speed that peaks at height under gravity g (g < 0)
func LaunchVelocity(height, g float64) float64 {
	return math.Sqrt(height * -2 * g)
}

// Step advances one tick
// Grounded bodies with downward velocity are held at settle instead of accumulating gravity
func (v *Vertical) Step(dt, g, settle float64) {
	if v.Grounded && v.Velocity < 0 {
		v.Velocity = settle
	} else if !v.Grounded {
		v.Velocity += g * dt
	}

	v.Height += v.Velocity * dt
	if v.Height <= 0 {
		v.Height = 0
		v.Grounded = true
		if v.Velocity > 0 {
			v.Grounded = false
		}
	} else {
		v.Grounded = false
	}
}

// Launch leaves the ground with the given upward velocity
func (v *Vertical) Launch(velocity float64) {
	v.Velocity = velocity
	v.Grounded = false
}
