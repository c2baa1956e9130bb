package geom

import "fmt"

// Pose3 is a rigid-body transform in 3D: a position plus an orientation.
// It is the SE3 value the frame graph composes and inverts; everything
// else in this package exists to support it.
type Pose3 struct {
	Pos Vector3
	Rot Quaternion
}

// IdentityPose3 is the identity transform I.
var IdentityPose3 = Pose3{Pos: Vector3{}, Rot: IdentityQuaternion}

// NewPose3 builds a pose from position and roll/pitch/yaw Euler angles,
// matching the literal (x, y, z, roll, pitch, yaw) tuples used throughout
// the graph's test scenarios.
func NewPose3(x, y, z, roll, pitch, yaw float64) Pose3 {
	return Pose3{
		Pos: Vector3{X: x, Y: y, Z: z},
		Rot: QuaternionFromEuler(roll, pitch, yaw),
	}
}

// Compose returns a ⊕ b: apply b in a's frame. If a is the pose of a
// child C expressed in its parent P, and b is a pose expressed in C's
// frame, Compose(a, b) expresses b in P's frame.
func Compose(a, b Pose3) Pose3 {
	return Pose3{
		Pos: a.Pos.Add(a.Rot.Rotate(b.Pos)),
		Rot: a.Rot.Mul(b.Rot),
	}
}

// Inverse returns the pose that undoes a: Compose(a, Inverse(a)) == I.
func Inverse(a Pose3) Pose3 {
	invRot := a.Rot.Inverse()
	invPos := invRot.Rotate(a.Pos).Scale(-1)
	return Pose3{Pos: invPos, Rot: invRot}
}

func (p Pose3) EqualEpsilon(o Pose3, eps float64) bool {
	return p.Pos.EqualEpsilon(o.Pos, eps) && p.Rot.EqualEpsilon(o.Rot, eps)
}

// Equal compares p and o using the package default epsilon.
func (p Pose3) Equal(o Pose3) bool {
	return p.EqualEpsilon(o, DefaultEpsilon)
}

// String renders the pose as "[x y z roll pitch yaw]", matching the
// debug-printer format the frame graph emits per frame.
func (p Pose3) String() string {
	roll, pitch, yaw := p.Rot.Euler()
	return fmt.Sprintf("[%g %g %g %g %g %g]", p.Pos.X, p.Pos.Y, p.Pos.Z, roll, pitch, yaw)
}
