package server

import "github.com/danmuck/framegraph/internal/geom"

// poseDTO is the wire form of geom.Pose3: position plus roll/pitch/yaw
// Euler angles, matching the (x, y, z, roll, pitch, yaw) tuples the
// admin API accepts and returns.
type poseDTO struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

func poseToDTO(p geom.Pose3) poseDTO {
	roll, pitch, yaw := p.Rot.Euler()
	return poseDTO{X: p.Pos.X, Y: p.Pos.Y, Z: p.Pos.Z, Roll: roll, Pitch: pitch, Yaw: yaw}
}

func (d poseDTO) toPose() geom.Pose3 {
	return geom.NewPose3(d.X, d.Y, d.Z, d.Roll, d.Pitch, d.Yaw)
}

type addFrameRequest struct {
	Parent string  `json:"parent" binding:"required"`
	Name   string  `json:"name" binding:"required"`
	Pose   poseDTO `json:"pose"`
}

type setPoseRequest struct {
	Pose poseDTO `json:"pose"`
}

type frameDTO struct {
	Path      string   `json:"path"`
	LocalPose poseDTO  `json:"local_pose"`
	Children  []string `json:"children"`
}

type geofenceBoxRequest struct {
	Min        poseVecDTO `json:"min"`
	Max        poseVecDTO `json:"max"`
	Hysteresis float64    `json:"hysteresis"`
}

type poseVecDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (d poseVecDTO) toVector() geom.Vector3 {
	return geom.NewVector3(d.X, d.Y, d.Z)
}
