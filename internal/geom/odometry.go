package geom

import (
	"math"
	"time"
)

// DiffDriveOdometry integrates absolute left/right wheel positions
// (radians) into a 2D pose (x, y, heading) for a differential-drive
// vehicle. A vehicle with heading zero faces +X, with +Y to its left;
// driving the right wheel while holding the left fixed turns the
// vehicle counter-clockwise.
type DiffDriveOdometry struct {
	windowSize int

	initialized bool
	lastTime    time.Time
	lastLeft    float64
	lastRight   float64

	x       float64
	y       float64
	heading float64

	wheelSeparation  float64
	leftWheelRadius  float64
	rightWheelRadius float64

	linearVelocity  MovingAverage
	angularVelocity MovingAverage
}

// NewDiffDriveOdometry constructs an odometry integrator whose velocity
// estimates are smoothed over windowSize samples.
func NewDiffDriveOdometry(windowSize int) *DiffDriveOdometry {
	if windowSize <= 0 {
		windowSize = 10
	}
	return &DiffDriveOdometry{
		windowSize:       windowSize,
		wheelSeparation:  1,
		leftWheelRadius:  1,
		rightWheelRadius: 1,
		linearVelocity:   NewMovingAverage(windowSize),
		angularVelocity:  NewMovingAverage(windowSize),
	}
}

// SetWheelParams configures wheel geometry used to convert wheel-angle
// deltas into linear distance.
func (o *DiffDriveOdometry) SetWheelParams(separation, leftRadius, rightRadius float64) {
	o.wheelSeparation = separation
	o.leftWheelRadius = leftRadius
	o.rightWheelRadius = rightRadius
}

// Init resets integration state to start at t with pose at the origin.
func (o *DiffDriveOdometry) Init(t time.Time) {
	o.lastTime = t
	o.x, o.y, o.heading = 0, 0, 0
	o.lastLeft, o.lastRight = 0, 0
	o.initialized = true
	o.linearVelocity = NewMovingAverage(o.windowSize)
	o.angularVelocity = NewMovingAverage(o.windowSize)
}

// Update integrates new absolute wheel positions (radians) observed at
// t. It reports false (no-op) if the elapsed time since the last
// update is non-positive. If Init has not been called yet, it calls
// Init(t), takes leftPos and rightPos as the starting wheel positions,
// and reports false.
func (o *DiffDriveOdometry) Update(leftPos, rightPos float64, t time.Time) bool {
	if !o.initialized {
		o.Init(t)
		o.lastLeft, o.lastRight = leftPos, rightPos
		return false
	}
	dt := t.Sub(o.lastTime).Seconds()
	if dt <= 0 {
		return false
	}

	deltaLeft := (leftPos - o.lastLeft) * o.leftWheelRadius
	deltaRight := (rightPos - o.lastRight) * o.rightWheelRadius
	o.lastLeft, o.lastRight = leftPos, rightPos
	o.lastTime = t

	deltaLinear := (deltaLeft + deltaRight) / 2
	deltaAngular := (deltaRight - deltaLeft) / o.wheelSeparation

	// Integrate using the heading at the midpoint of the step, a
	// second-order approximation of the exact arc for a
	// constant-curvature segment.
	midHeading := o.heading + deltaAngular/2
	o.x += deltaLinear * math.Cos(midHeading)
	o.y += deltaLinear * math.Sin(midHeading)
	o.heading += deltaAngular

	o.linearVelocity.Push(deltaLinear / dt)
	o.angularVelocity.Push(deltaAngular / dt)
	return true
}

// Heading returns the integrated heading in radians.
func (o *DiffDriveOdometry) Heading() float64 { return o.heading }

// X returns the integrated X position in meters.
func (o *DiffDriveOdometry) X() float64 { return o.x }

// Y returns the integrated Y position in meters.
func (o *DiffDriveOdometry) Y() float64 { return o.y }

// LinearVelocity returns the smoothed linear velocity in meters/second.
func (o *DiffDriveOdometry) LinearVelocity() float64 { return o.linearVelocity.Average() }

// AngularVelocity returns the smoothed angular velocity in radians/second.
func (o *DiffDriveOdometry) AngularVelocity() float64 { return o.angularVelocity.Average() }

// Pose returns the integrated pose as an SE3 value, suitable for a
// direct FrameGraph.SetLocalPose call.
func (o *DiffDriveOdometry) Pose() Pose3 {
	return NewPose3(o.x, o.y, 0, 0, 0, o.heading)
}
