package observability

import (
	"testing"
	"time"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()

	RecordHTTPRequest("GET", "/health", 200, 12*time.Millisecond)
	RecordGraphOp("set_local_pose", "ok")
	RecordGraphOp("pose", "unknown_frame")
	RecordPoseQuery(3 * time.Millisecond)
}
