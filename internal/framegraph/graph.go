// Package framegraph implements a thread-safe hierarchical transform
// graph: a tree of named coordinate frames, each with a pose relative
// to its parent, queried through string paths or reusable
// RelativePose handles. A single sync.RWMutex owned by FrameGraph
// serializes every structural read/write and every local-pose
// read/write, so a query observes one consistent snapshot of the tree
// throughout its resolution and composition.
package framegraph

import (
	"fmt"
	"io"

	"github.com/danmuck/framegraph/internal/framepath"
	"github.com/danmuck/framegraph/internal/geom"
	"sync"
)

// FrameGraph owns the root frame and the lock guarding every frame in
// the tree. The zero value is not usable; construct with New.
type FrameGraph struct {
	mu   sync.RWMutex
	root *frame
}

// New constructs a graph containing only its built-in root frame,
// addressed as "/", with identity local pose.
func New() *FrameGraph {
	return &FrameGraph{root: newFrame(rootName, geom.IdentityPose3, nil)}
}

// FrameRef is a weak reference to a frame: it does not keep the frame
// alive, and must be revalidated under the graph's lock before use.
// A query through a FrameRef into a deleted subtree fails with
// ErrUnknownFrame rather than resolving to stale state.
type FrameRef struct {
	f          *frame
	generation uint64
}

// upgrade resolves ref to its live *frame, or reports false if it has
// been deleted. Callers must hold at least the read lock.
func (g *FrameGraph) upgrade(ref FrameRef) (*frame, bool) {
	if ref.f == nil || ref.f.deleted || ref.f.generation != ref.generation {
		return nil, false
	}
	return ref.f, true
}

func refOf(f *frame) FrameRef {
	return FrameRef{f: f, generation: f.generation}
}

// resolveFrom walks from base through p's retained segments, following
// the path-resolution algorithm: "." is already gone (stripped at
// parse time), ".." moves to the parent (failing at the root), and any
// other segment moves to the like-named child (failing if absent).
func (g *FrameGraph) resolveFrom(base *frame, p framepath.Path) (*frame, error) {
	cur := base
	for _, seg := range p.Elements() {
		switch seg {
		case "..":
			if cur.parent == nil {
				return nil, unknownFrame(p.Text(), "\"..\" has no parent at the root")
			}
			cur = cur.parent
		default:
			child, ok := cur.childByName[seg]
			if !ok {
				return nil, unknownFrame(p.Text(), fmt.Sprintf("no child named %q", seg))
			}
			cur = child
		}
	}
	return cur, nil
}

func parseAbsolute(text string) (framepath.Path, error) {
	p, err := framepath.Parse(text)
	if err != nil {
		return framepath.Path{}, invalidPath(text, err.Error())
	}
	if !p.IsAbsolute() {
		return framepath.Path{}, invalidPath(text, "path must be absolute")
	}
	return p, nil
}

// AddFrame attaches a new frame named name under the existing frame at
// parentPath, with the given local pose. parentPath must be absolute
// and resolve to an existing frame; name must be a valid, unused
// segment among that parent's children.
func (g *FrameGraph) AddFrame(parentPath, name string, pose geom.Pose3) (FrameRef, error) {
	p, err := parseAbsolute(parentPath)
	if err != nil {
		return FrameRef{}, err
	}
	if !framepath.ValidSegment(name) {
		return FrameRef{}, invalidPath(name, "invalid frame name")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	parent, err := g.resolveFrom(g.root, p)
	if err != nil {
		return FrameRef{}, err
	}
	child, ok := parent.addChild(name, pose)
	if !ok {
		return FrameRef{}, duplicateFrame(parentPath+"/"+name, "already exists among its parent's children")
	}
	return refOf(child), nil
}

// DeleteFrame destroys the non-root frame at path, along with its
// entire subtree. path must be absolute.
func (g *FrameGraph) DeleteFrame(path string) error {
	p, err := parseAbsolute(path)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if len(p.Elements()) == 0 {
		return rootWrite(path, "cannot delete the root frame")
	}
	f, err := g.resolveFrom(g.root, p)
	if err != nil {
		return err
	}
	if f.parent == nil {
		return rootWrite(path, "cannot delete the root frame")
	}
	if !f.parent.deleteChild(f.name) {
		return unknownFrame(path, "frame no longer present")
	}
	return nil
}

// Frame resolves an absolute path to a weak handle on the frame it
// names.
func (g *FrameGraph) Frame(path string) (FrameRef, error) {
	p, err := parseAbsolute(path)
	if err != nil {
		return FrameRef{}, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	f, err := g.resolveFrom(g.root, p)
	if err != nil {
		return FrameRef{}, err
	}
	return refOf(f), nil
}

// FrameRelative resolves relativePath starting from origin, which may
// itself be absolute or relative (".", ".." and plain segment hops).
// It fails with ErrUnknownFrame if origin has been deleted or any hop
// is invalid.
func (g *FrameGraph) FrameRelative(origin FrameRef, relativePath string) (FrameRef, error) {
	p, err := framepath.Parse(relativePath)
	if err != nil {
		return FrameRef{}, invalidPath(relativePath, err.Error())
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	base, ok := g.upgrade(origin)
	if !ok {
		return FrameRef{}, unknownFrame(relativePath, "origin frame no longer exists")
	}
	if p.IsAbsolute() {
		base = g.root
	}
	f, err := g.resolveFrom(base, p)
	if err != nil {
		return FrameRef{}, err
	}
	return refOf(f), nil
}

// LocalPose returns the local pose of the frame at path.
func (g *FrameGraph) LocalPose(path string) (geom.Pose3, error) {
	p, err := parseAbsolute(path)
	if err != nil {
		return geom.Pose3{}, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	f, err := g.resolveFrom(g.root, p)
	if err != nil {
		return geom.Pose3{}, err
	}
	return f.localPose, nil
}

// LocalPoseRef returns the local pose of the frame ref points at.
func (g *FrameGraph) LocalPoseRef(ref FrameRef) (geom.Pose3, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	f, ok := g.upgrade(ref)
	if !ok {
		return geom.Pose3{}, unknownFrame("", "frame reference no longer valid")
	}
	return f.localPose, nil
}

// SetLocalPose replaces the local pose of the non-root frame at path.
func (g *FrameGraph) SetLocalPose(path string, pose geom.Pose3) error {
	p, err := parseAbsolute(path)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if len(p.Elements()) == 0 {
		return rootWrite(path, "cannot set the local pose of the root frame")
	}
	f, err := g.resolveFrom(g.root, p)
	if err != nil {
		return err
	}
	f.localPose = pose
	return nil
}

// SetLocalPoseRef replaces the local pose of the frame ref points at.
func (g *FrameGraph) SetLocalPoseRef(ref FrameRef, pose geom.Pose3) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	f, ok := g.upgrade(ref)
	if !ok {
		return unknownFrame("", "frame reference no longer valid")
	}
	if f.parent == nil {
		return rootWrite(rootName, "cannot set the local pose of the root frame")
	}
	f.localPose = pose
	return nil
}

// Pose computes the pose of target expressed in reference's
// coordinates. targetPath must be absolute. referencePath may be
// absolute (resolved from the root) or relative (resolved starting at
// the resolved target frame, so "..", ".", and plain hops address
// frames relative to where target itself sits in the tree).
func (g *FrameGraph) Pose(targetPath, referencePath string) (geom.Pose3, error) {
	tp, err := parseAbsolute(targetPath)
	if err != nil {
		return geom.Pose3{}, err
	}
	rp, err := framepath.Parse(referencePath)
	if err != nil {
		return geom.Pose3{}, invalidPath(referencePath, err.Error())
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	target, err := g.resolveFrom(g.root, tp)
	if err != nil {
		return geom.Pose3{}, err
	}
	base := g.root
	if !rp.IsAbsolute() {
		base = target
	}
	reference, err := g.resolveFrom(base, rp)
	if err != nil {
		return geom.Pose3{}, err
	}

	return composePose(target, reference), nil
}

// composePose implements the pose-composition algorithm: trim the
// shared root-ward suffix off both chains, fold each remaining chain
// into the lowest common ancestor's coordinates, then combine them.
func composePose(target, reference *frame) geom.Pose3 {
	tChain, rChain := trimCommonSuffix(chainToRoot(target), chainToRoot(reference))
	pTarget := foldChain(tChain)
	pReference := foldChain(rChain)
	return geom.Compose(geom.Inverse(pReference), pTarget)
}

// CreateRelativePose resolves both endpoints and returns a reusable
// handle that recomputes Pose(targetPath, referencePath) on demand,
// reflecting any later SetLocalPose calls along the way.
func (g *FrameGraph) CreateRelativePose(targetPath, referencePath string) (RelativePose, error) {
	tp, err := parseAbsolute(targetPath)
	if err != nil {
		return RelativePose{}, err
	}
	rp, err := parseAbsolute(referencePath)
	if err != nil {
		return RelativePose{}, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	target, err := g.resolveFrom(g.root, tp)
	if err != nil {
		return RelativePose{}, err
	}
	reference, err := g.resolveFrom(g.root, rp)
	if err != nil {
		return RelativePose{}, err
	}

	tChain, rChain := trimCommonSuffix(chainToRoot(target), chainToRoot(reference))
	return RelativePose{target: refsOf(tChain), reference: refsOf(rChain), ok: true}, nil
}

func refsOf(chain []*frame) []FrameRef {
	refs := make([]FrameRef, len(chain))
	for i, f := range chain {
		refs[i] = refOf(f)
	}
	return refs
}

// Name returns the name of the frame ref points at.
func (g *FrameGraph) Name(ref FrameRef) (string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	f, ok := g.upgrade(ref)
	if !ok {
		return "", unknownFrame("", "frame reference no longer valid")
	}
	return f.name, nil
}

// Children returns the names of ref's children, in insertion order.
func (g *FrameGraph) Children(ref FrameRef) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	f, ok := g.upgrade(ref)
	if !ok {
		return nil, unknownFrame("", "frame reference no longer valid")
	}
	out := make([]string, len(f.children))
	copy(out, f.children)
	return out, nil
}

// HasChild reports whether ref has a child named name.
func (g *FrameGraph) HasChild(ref FrameRef, name string) (bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	f, ok := g.upgrade(ref)
	if !ok {
		return false, unknownFrame("", "frame reference no longer valid")
	}
	return f.hasChild(name), nil
}

// Print writes a depth-first, insertion-order debug rendering of the
// whole tree to w: one line per frame, "<absolute-path>
// [<x> <y> <z> <roll> <pitch> <yaw>]" with the frame's local pose, a
// trailing newline after every line including the last.
func (g *FrameGraph) Print(w io.Writer) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return printFrame(w, g.root, rootName)
}

func printFrame(w io.Writer, f *frame, path string) error {
	if _, err := fmt.Fprintf(w, "%s %s\n", path, f.localPose.String()); err != nil {
		return err
	}
	for _, child := range f.orderedChildren() {
		childPath := path
		if childPath == rootName {
			childPath = "/" + child.name
		} else {
			childPath += "/" + child.name
		}
		if err := printFrame(w, child, childPath); err != nil {
			return err
		}
	}
	return nil
}
