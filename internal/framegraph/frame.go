package framegraph

import "github.com/danmuck/framegraph/internal/geom"

// rootName addresses the singleton root frame. It deliberately contains
// '/', a character no ordinary segment may use, so it can never
// collide with a child name.
const rootName = "/"

// frame is one node of the tree. It is never exposed directly outside
// this package: all access goes through FrameGraph, which holds the
// lock that makes every field below safe to read or write.
type frame struct {
	name      string
	localPose geom.Pose3
	parent    *frame

	// children preserves insertion order; childByName is the lookup
	// index. frame exclusively owns the *frame values in childByName.
	children    []string
	childByName map[string]*frame

	// generation is bumped (and deleted set) when this frame or an
	// ancestor is removed from the tree. A FrameRef captured before
	// that point will no longer match and fails cleanly instead of
	// resolving to a frame that is no longer part of the graph.
	generation uint64
	deleted    bool
}

func newFrame(name string, pose geom.Pose3, parent *frame) *frame {
	return &frame{
		name:        name,
		localPose:   pose,
		parent:      parent,
		childByName: make(map[string]*frame),
	}
}

func (f *frame) hasChild(name string) bool {
	_, ok := f.childByName[name]
	return ok
}

// addChild attaches a new owned child named name, or reports false
// without changing anything if name is already taken.
func (f *frame) addChild(name string, pose geom.Pose3) (*frame, bool) {
	if f.hasChild(name) {
		return nil, false
	}
	child := newFrame(name, pose, f)
	f.childByName[name] = child
	f.children = append(f.children, name)
	return child, true
}

// deleteChild removes and recursively destroys the named child's
// subtree, or reports false if no such child exists.
func (f *frame) deleteChild(name string) bool {
	child, ok := f.childByName[name]
	if !ok {
		return false
	}
	child.invalidateSubtree()
	delete(f.childByName, name)
	for i, n := range f.children {
		if n == name {
			f.children = append(f.children[:i], f.children[i+1:]...)
			break
		}
	}
	return true
}

// invalidateSubtree marks f and every descendant deleted, so any
// FrameRef or RelativePose chain still pointing at them fails to
// upgrade.
func (f *frame) invalidateSubtree() {
	f.deleted = true
	f.generation++
	for _, name := range f.children {
		if c, ok := f.childByName[name]; ok {
			c.invalidateSubtree()
		}
	}
}

// orderedChildren returns children in insertion order.
func (f *frame) orderedChildren() []*frame {
	out := make([]*frame, 0, len(f.children))
	for _, name := range f.children {
		out = append(out, f.childByName[name])
	}
	return out
}

// chainToRoot returns [f, f.parent, ..., root].
func chainToRoot(f *frame) []*frame {
	chain := make([]*frame, 0, 4)
	for cur := f; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	return chain
}

// trimCommonSuffix drops the shared ancestor tail from two root-ward
// chains, returning only the part of each chain strictly above (i.e.
// nearer the endpoint than) their lowest common ancestor.
func trimCommonSuffix(a, b []*frame) ([]*frame, []*frame) {
	i, j := len(a)-1, len(b)-1
	for i >= 0 && j >= 0 && a[i] == b[j] {
		i--
		j--
	}
	return a[:i+1], b[:j+1]
}

// foldChain composes local poses from the endpoint toward (but not
// including) the lowest common ancestor, expressing chain[0] in the
// LCA's coordinates. An empty chain (the endpoint is itself the LCA)
// folds to the identity.
func foldChain(chain []*frame) geom.Pose3 {
	pose := geom.IdentityPose3
	for i := len(chain) - 1; i >= 0; i-- {
		pose = geom.Compose(pose, chain[i].localPose)
	}
	return pose
}
