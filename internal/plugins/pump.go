package plugins

import (
	"time"

	"github.com/danmuck/framegraph/internal/framegraph"
	"github.com/rs/zerolog"
)

// Pump periodically samples every registered PoseSource and applies
// what it reports to a FrameGraph via SetLocalPose.
type Pump struct {
	graph    *framegraph.FrameGraph
	registry *Registry
	logger   zerolog.Logger
}

// NewPump constructs a pump driving graph from registry.
func NewPump(graph *framegraph.FrameGraph, registry *Registry, logger zerolog.Logger) *Pump {
	return &Pump{graph: graph, registry: registry, logger: logger}
}

// Run samples every registered source once per interval until done is
// closed.
func (p *Pump) Run(done <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			p.Tick()
		}
	}
}

// Tick samples every registered source exactly once and pushes any
// fresh pose into the graph.
func (p *Pump) Tick() {
	for _, src := range p.registry.All() {
		pose, ok := src.Sample()
		if !ok {
			continue
		}
		if err := p.graph.SetLocalPose(src.Name(), pose); err != nil {
			p.logger.Warn().Err(err).Str("frame", src.Name()).Msg("plugin pose source rejected by graph")
		}
	}
}
