package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/danmuck/framegraph/internal/framegraph"
	"github.com/danmuck/framegraph/internal/geom"
	"github.com/danmuck/framegraph/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/debug/tree", s.handleDebugTree)

	s.router.GET("/frames/*path", s.handleGetFrame)
	s.router.POST("/frames", s.authMiddleware(), s.handleAddFrame)
	s.router.DELETE("/frames/*path", s.authMiddleware(), s.handleDeleteFrame)
	s.router.PUT("/frames/*path", s.authMiddleware(), s.handleSetLocalPose)

	s.router.GET("/pose", s.handlePoseQuery)

	s.router.POST("/geofence", s.authMiddleware(), s.handleConfigureGeofence)
	s.router.POST("/geofence/watch/*path", s.authMiddleware(), s.handleGeofenceWatch)
	s.router.DELETE("/geofence/watch/*path", s.authMiddleware(), s.handleGeofenceUnwatch)
	s.router.GET("/geofence", s.handleGeofenceCheck)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"uptime":    time.Since(s.startedAt).String(),
		"component": "framegraphd",
	})
}

func (s *Server) handleDebugTree(c *gin.Context) {
	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/plain; charset=utf-8")
	if err := s.graph.Print(c.Writer); err != nil {
		s.logger.Error().Err(err).Msg("debug tree write failed")
	}
}

func (s *Server) handleGetFrame(c *gin.Context) {
	path := c.Param("path")
	ref, err := s.graph.Frame(path)
	if s.writeGraphError(c, "get_frame", err) {
		return
	}
	pose, err := s.graph.LocalPoseRef(ref)
	if s.writeGraphError(c, "get_frame", err) {
		return
	}
	children, err := s.graph.Children(ref)
	if s.writeGraphError(c, "get_frame", err) {
		return
	}
	observability.RecordGraphOp("get_frame", "ok")
	c.JSON(http.StatusOK, frameDTO{Path: path, LocalPose: poseToDTO(pose), Children: children})
}

func (s *Server) handleAddFrame(c *gin.Context) {
	var req addFrameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ref, err := s.graph.AddFrame(req.Parent, req.Name, req.Pose.toPose())
	if s.writeGraphError(c, "add_frame", err) {
		return
	}
	observability.RecordGraphOp("add_frame", "ok")
	name, _ := s.graph.Name(ref)
	c.JSON(http.StatusCreated, gin.H{"status": "ok", "name": name})
}

func (s *Server) handleDeleteFrame(c *gin.Context) {
	path := c.Param("path")
	if err := s.graph.DeleteFrame(path); s.writeGraphError(c, "delete_frame", err) {
		return
	}
	s.geofence.unwatch(path)
	observability.RecordGraphOp("delete_frame", "ok")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSetLocalPose(c *gin.Context) {
	path := c.Param("path")
	var req setPoseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.graph.SetLocalPose(path, req.Pose.toPose()); s.writeGraphError(c, "set_local_pose", err) {
		return
	}
	observability.RecordGraphOp("set_local_pose", "ok")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handlePoseQuery(c *gin.Context) {
	target := c.Query("target")
	reference := c.Query("reference")
	if reference == "" {
		reference = "/"
	}

	start := time.Now()
	pose, err := s.graph.Pose(target, reference)
	observability.RecordPoseQuery(time.Since(start))
	if s.writeGraphError(c, "pose", err) {
		return
	}
	observability.RecordGraphOp("pose", "ok")
	c.JSON(http.StatusOK, poseToDTO(pose))
}

func (s *Server) handleConfigureGeofence(c *gin.Context) {
	var req geofenceBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	box := geom.AxisAlignedBox{Min: req.Min.toVector(), Max: req.Max.toVector()}
	s.geofence.configure(box, req.Hysteresis)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleGeofenceWatch(c *gin.Context) {
	path := c.Param("path")
	pose, err := s.graph.Pose(path, "/")
	if s.writeGraphError(c, "geofence_watch", err) {
		return
	}
	if !s.geofence.watch(path, pose.Pos) {
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": "geofence not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleGeofenceUnwatch(c *gin.Context) {
	path := c.Param("path")
	if !s.geofence.unwatch(path) {
		c.JSON(http.StatusNotFound, gin.H{"error": "path not watched"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleGeofenceCheck(c *gin.Context) {
	states, ok := s.geofence.check()
	if !ok {
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": "geofence not configured"})
		return
	}
	out := make(map[string]string, len(states))
	for path, state := range states {
		out[path] = geofenceStateName(state)
	}
	c.JSON(http.StatusOK, out)
}

func geofenceStateName(state geom.EntityState) string {
	switch state {
	case geom.StateInside:
		return "inside"
	case geom.StateOutside:
		return "outside"
	default:
		return "uninitialized"
	}
}

// writeGraphError writes the appropriate HTTP status for a
// *framegraph.FrameError (or any other error) and reports whether it
// wrote a response at all.
func (s *Server) writeGraphError(c *gin.Context, op string, err error) bool {
	if err == nil {
		return false
	}

	status := http.StatusInternalServerError
	var fe *framegraph.FrameError
	if errors.As(err, &fe) {
		switch fe.Kind {
		case framegraph.KindInvalidPath, framegraph.KindRootWrite:
			status = http.StatusBadRequest
		case framegraph.KindUnknownFrame:
			status = http.StatusNotFound
		case framegraph.KindDuplicateFrame:
			status = http.StatusConflict
		}
		observability.RecordGraphOp(op, fe.Kind.String())
	} else {
		observability.RecordGraphOp(op, "internal_error")
	}
	c.JSON(status, gin.H{"error": err.Error()})
	return true
}
