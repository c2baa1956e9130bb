package plugins

import (
	"time"

	"github.com/danmuck/framegraph/internal/geom"
)

// OdometrySource adapts a DiffDriveOdometry integrator into a
// PoseSource, reporting its latest pose once at least one successful
// Update has landed.
type OdometrySource struct {
	name     string
	odometry *geom.DiffDriveOdometry
	ready    bool
}

// NewOdometrySource wraps odometry under name, the frame it should
// drive.
func NewOdometrySource(name string, odometry *geom.DiffDriveOdometry) *OdometrySource {
	return &OdometrySource{name: name, odometry: odometry}
}

func (s *OdometrySource) Name() string { return s.name }

// Update feeds new wheel readings into the wrapped integrator.
func (s *OdometrySource) Update(leftPos, rightPos float64, t time.Time) {
	if s.odometry.Update(leftPos, rightPos, t) {
		s.ready = true
	}
}

func (s *OdometrySource) Sample() (geom.Pose3, bool) {
	if !s.ready {
		return geom.Pose3{}, false
	}
	return s.odometry.Pose(), true
}
