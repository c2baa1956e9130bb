// Package plugins lets external pose producers (odometry integrators,
// geofence trackers, simulators) drive frames in a FrameGraph without
// the graph knowing anything about where poses come from.
package plugins

import "github.com/danmuck/framegraph/internal/geom"

// PoseSource is anything that can report a pose for the frame it
// drives. Name returns the absolute path of that frame, which must
// already exist in the graph the source is pumped into. Sample
// returns false when it has nothing to report yet (e.g. an odometry
// integrator that has not yet seen a successful Update).
type PoseSource interface {
	Name() string
	Sample() (geom.Pose3, bool)
}
