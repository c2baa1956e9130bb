package framegraph

import "github.com/danmuck/framegraph/internal/geom"

// RelativePose is a reusable handle produced by FrameGraph.CreateRelativePose.
// It remembers the two lowest-common-ancestor chains once, at creation
// time, and recomputes the composed pose from each chain's (possibly
// since-mutated) local poses on every Evaluate call, without having to
// re-walk the path or re-search for the common ancestor.
//
// The zero value is a deliberately invalid handle: ok is false, so
// Evaluate on an unconstructed RelativePose fails rather than
// silently reporting the identity pose (which is also the legitimate
// result of Pose(a, a)).
type RelativePose struct {
	target    []FrameRef
	reference []FrameRef
	ok        bool
}

// Evaluate recomputes the target's pose expressed in the reference's
// coordinates. It fails with ErrUnknownFrame if any frame along either
// remembered chain has since been deleted.
func (rp RelativePose) Evaluate(g *FrameGraph) (geom.Pose3, error) {
	if !rp.ok {
		return geom.Pose3{}, unknownFrame("", "relative pose handle was never created")
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	tChain, err := g.upgradeChain(rp.target)
	if err != nil {
		return geom.Pose3{}, err
	}
	rChain, err := g.upgradeChain(rp.reference)
	if err != nil {
		return geom.Pose3{}, err
	}

	pTarget := foldChain(tChain)
	pReference := foldChain(rChain)
	return geom.Compose(geom.Inverse(pReference), pTarget), nil
}

func (g *FrameGraph) upgradeChain(refs []FrameRef) ([]*frame, error) {
	chain := make([]*frame, len(refs))
	for i, ref := range refs {
		f, ok := g.upgrade(ref)
		if !ok {
			return nil, unknownFrame("", "a frame along this relative pose's chain no longer exists")
		}
		chain[i] = f
	}
	return chain, nil
}
