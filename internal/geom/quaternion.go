package geom

import "math"

// DefaultEpsilon is the tolerance used by Equal across the geom package.
// SE3 composition routes rotations through trigonometric functions, so
// exact floating-point equality is the wrong tool even when the
// mathematical result is exact.
const DefaultEpsilon = 1e-9

// Quaternion is a unit quaternion (w, x, y, z) representing a 3D rotation.
type Quaternion struct {
	W, X, Y, Z float64
}

// IdentityQuaternion is the no-rotation quaternion.
var IdentityQuaternion = Quaternion{W: 1}

// QuaternionFromEuler builds a unit quaternion from roll (about X),
// pitch (about Y), and yaw (about Z), applied about the fixed axes in
// roll-then-pitch-then-yaw order, equivalently intrinsic
// yaw-then-pitch-then-roll (the aerospace ZYX convention).
func QuaternionFromEuler(roll, pitch, yaw float64) Quaternion {
	cr, sr := math.Cos(roll*0.5), math.Sin(roll*0.5)
	cp, sp := math.Cos(pitch*0.5), math.Sin(pitch*0.5)
	cy, sy := math.Cos(yaw*0.5), math.Sin(yaw*0.5)

	return Quaternion{
		W: cr*cp*cy + sr*sp*sy,
		X: sr*cp*cy - cr*sp*sy,
		Y: cr*sp*cy + sr*cp*sy,
		Z: cr*cp*sy - sr*sp*cy,
	}
}

// Euler recovers (roll, pitch, yaw) from the quaternion, inverting
// QuaternionFromEuler.
func (q Quaternion) Euler() (roll, pitch, yaw float64) {
	roll = math.Atan2(2*(q.W*q.X+q.Y*q.Z), 1-2*(q.X*q.X+q.Y*q.Y))

	sinp := 2 * (q.W*q.Y - q.Z*q.X)
	sinp = math.Max(-1, math.Min(1, sinp))
	pitch = math.Asin(sinp)

	yaw = math.Atan2(2*(q.W*q.Z+q.X*q.Y), 1-2*(q.Y*q.Y+q.Z*q.Z))
	return roll, pitch, yaw
}

// Mul returns q composed with o: rotating by o first, then by q.
func (q Quaternion) Mul(o Quaternion) Quaternion {
	return Quaternion{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

// Inverse returns the inverse rotation. q is assumed to be unit-length,
// so the inverse is just the conjugate.
func (q Quaternion) Inverse() Quaternion {
	return Quaternion{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

// Rotate applies q to v.
func (q Quaternion) Rotate(v Vector3) Vector3 {
	qv := Vector3{q.X, q.Y, q.Z}
	t := qv.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(qv.Cross(t))
}

func (q Quaternion) EqualEpsilon(o Quaternion, eps float64) bool {
	same := math.Abs(q.W-o.W) <= eps && math.Abs(q.X-o.X) <= eps &&
		math.Abs(q.Y-o.Y) <= eps && math.Abs(q.Z-o.Z) <= eps
	if same {
		return true
	}
	// q and -q represent the same rotation.
	return math.Abs(q.W+o.W) <= eps && math.Abs(q.X+o.X) <= eps &&
		math.Abs(q.Y+o.Y) <= eps && math.Abs(q.Z+o.Z) <= eps
}

func (q Quaternion) Equal(o Quaternion) bool {
	return q.EqualEpsilon(o, DefaultEpsilon)
}
