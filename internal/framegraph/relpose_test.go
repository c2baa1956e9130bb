package framegraph

import (
	"errors"
	"testing"

	"github.com/danmuck/framegraph/internal/geom"
)

func TestRelativePoseZeroValueFailsToEvaluate(t *testing.T) {
	g := New()
	var rp RelativePose
	if _, err := rp.Evaluate(g); !errors.Is(err, ErrUnknownFrame) {
		t.Fatalf("zero-value Evaluate err = %v, want ErrUnknownFrame", err)
	}
}

func TestRelativePoseIsCopiedByValue(t *testing.T) {
	g := New()
	mustAdd(t, g, "/", "a", geom.NewPose3(1, 0, 0, 0, 0, 0))
	mustAdd(t, g, "/a", "b", geom.NewPose3(0, 2, 0, 0, 0, 0))

	rp, err := g.CreateRelativePose("/a/b", "/a")
	if err != nil {
		t.Fatalf("CreateRelativePose error: %v", err)
	}

	copied := rp
	got1, err1 := rp.Evaluate(g)
	got2, err2 := copied.Evaluate(g)
	if err1 != nil || err2 != nil {
		t.Fatalf("Evaluate errors: %v, %v", err1, err2)
	}
	if !got1.Equal(got2) {
		t.Fatalf("copy diverged from original: %v vs %v", got2, got1)
	}
}

func TestDeleteFrameRejectsRelativePath(t *testing.T) {
	g := New()
	mustAdd(t, g, "/", "a", geom.IdentityPose3)
	if err := g.DeleteFrame(".."); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("DeleteFrame(\"..\") err = %v, want ErrInvalidPath", err)
	}
}
