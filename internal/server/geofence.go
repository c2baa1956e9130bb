package server

import (
	"sync"

	"github.com/danmuck/framegraph/internal/geom"
)

// geofenceTracker adapts geom.MovingWindow, which addresses entities
// by numeric id, to the admin API's frame-path addressing, and owns
// the lock serializing access to both the window and the path<->id
// index.
type geofenceTracker struct {
	mu       sync.Mutex
	window   *geom.MovingWindow
	idByPath map[string]uint64
	nextID   uint64
}

func newGeofenceTracker() *geofenceTracker {
	return &geofenceTracker{idByPath: make(map[string]uint64)}
}

func (g *geofenceTracker) configure(box geom.AxisAlignedBox, hysteresis float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.window = geom.NewMovingWindow(box, hysteresis)
	g.idByPath = make(map[string]uint64)
}

// watch starts tracking path at pos, or repositions it if already
// tracked.
func (g *geofenceTracker) watch(path string, pos geom.Vector3) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.window == nil {
		return false
	}
	if id, ok := g.idByPath[path]; ok {
		g.window.SetEntityPosition(id, pos)
		return true
	}
	g.nextID++
	id := g.nextID
	g.idByPath[path] = id
	g.window.RegisterEntity(id, pos)
	return true
}

func (g *geofenceTracker) unwatch(path string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.window == nil {
		return false
	}
	id, ok := g.idByPath[path]
	if !ok {
		return false
	}
	delete(g.idByPath, path)
	return g.window.UnregisterEntity(id)
}

// check reports the current membership state of every watched path.
func (g *geofenceTracker) check() (map[string]geom.EntityState, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.window == nil {
		return nil, false
	}
	states := g.window.Check()
	out := make(map[string]geom.EntityState, len(g.idByPath))
	for path, id := range g.idByPath {
		out[path] = states[id]
	}
	return out, true
}
