package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danmuck/framegraph/internal/auth"
	"github.com/danmuck/framegraph/internal/framegraph"
	"github.com/danmuck/framegraph/internal/testutil/testlog"
	"github.com/rs/zerolog"
)

func newTestServer(t *testing.T) (*Server, *framegraph.FrameGraph) {
	t.Helper()
	testlog.Start(t)
	g := framegraph.New()
	s := New(g, auth.StaticToken{Token: "secret"}, nil, zerolog.Nop())
	return s, g
}

func doJSON(t *testing.T, s *Server, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/health", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestAddFrameRequiresAuth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/frames", addFrameRequest{Parent: "/", Name: "x"}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAddFrameAndGetFrameRoundTrip(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/frames", addFrameRequest{
		Parent: "/", Name: "x", Pose: poseDTO{X: 1, Y: 2, Z: 3},
	}, "secret")
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodGet, "/frames/x", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d body=%s", rec.Code, rec.Body.String())
	}
	var got frameDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.LocalPose.X != 1 || got.LocalPose.Y != 2 || got.LocalPose.Z != 3 {
		t.Fatalf("unexpected local pose: %+v", got.LocalPose)
	}
}

func TestAddFrameUnknownParentReturnsNotFound(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/frames", addFrameRequest{Parent: "/nope", Name: "x"}, "secret")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404, body=%s", rec.Code, rec.Body.String())
	}
}

func TestDeleteFrameRequiresAuthThenSucceeds(t *testing.T) {
	s, _ := newTestServer(t)
	doJSON(t, s, http.MethodPost, "/frames", addFrameRequest{Parent: "/", Name: "x"}, "secret")

	rec := doJSON(t, s, http.MethodDelete, "/frames/x", nil, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	rec = doJSON(t, s, http.MethodDelete, "/frames/x", nil, "secret")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
}

func TestPoseQueryEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	doJSON(t, s, http.MethodPost, "/frames", addFrameRequest{Parent: "/", Name: "a", Pose: poseDTO{X: 1}}, "secret")
	doJSON(t, s, http.MethodPost, "/frames", addFrameRequest{Parent: "/", Name: "b", Pose: poseDTO{Y: 1}}, "secret")

	rec := doJSON(t, s, http.MethodGet, "/pose?target=/b&reference=/a", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", rec.Code, rec.Body.String())
	}
	var got poseDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.X != -1 || got.Y != 1 {
		t.Fatalf("unexpected pose: %+v", got)
	}
}

func TestGeofenceLifecycle(t *testing.T) {
	s, _ := newTestServer(t)
	doJSON(t, s, http.MethodPost, "/frames", addFrameRequest{Parent: "/", Name: "robot", Pose: poseDTO{X: 0.5, Y: 0.5}}, "secret")

	rec := doJSON(t, s, http.MethodGet, "/geofence", nil, "")
	if rec.Code != http.StatusPreconditionFailed {
		t.Fatalf("status = %d, want 412 before configure", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/geofence", geofenceBoxRequest{
		Min: poseVecDTO{X: 0, Y: 0}, Max: poseVecDTO{X: 1, Y: 1},
	}, "secret")
	if rec.Code != http.StatusOK {
		t.Fatalf("configure status = %d, body=%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodPost, "/geofence/watch/robot", nil, "secret")
	if rec.Code != http.StatusOK {
		t.Fatalf("watch status = %d, body=%s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodGet, "/geofence", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("check status = %d, body=%s", rec.Code, rec.Body.String())
	}
	var states map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &states); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if states["/robot"] != "inside" {
		t.Fatalf("unexpected geofence states: %+v", states)
	}
}

func TestDebugTreeEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	doJSON(t, s, http.MethodPost, "/frames", addFrameRequest{Parent: "/", Name: "x"}, "secret")

	rec := doJSON(t, s, http.MethodGet, "/debug/tree", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("/x")) {
		t.Fatalf("expected /x in debug tree output, got %q", rec.Body.String())
	}
}
