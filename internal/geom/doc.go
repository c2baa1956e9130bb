// Package geom provides the small rigid-body numerics the frame graph
// builds on: 3D vectors, quaternions, and SE3 poses, plus two leaf
// utilities: differential-drive odometry, which produces pose updates
// for the graph to consume, and MovingWindow, which tracks whether
// positions fall inside an axis-aligned box.
package geom
