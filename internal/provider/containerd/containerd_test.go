package containerd

import (
	"testing"

	"github.com/nimbusctl/stormengine/internal/provider"
	"github.com/nimbusctl/stormengine/internal/resolver"
	"github.com/nimbusctl/stormengine/internal/resource"
	"github.com/nimbusctl/stormengine/pkg/image"
)

type fakeSink struct{ buf []byte }

func (s *fakeSink) Write(p []byte) (int, error) { s.buf = append(s.buf, p...); return len(p), nil }

type fakeCtx struct {
	out, err fakeSink
	messages []string
}

func (c *fakeCtx) Message(text string)     { c.messages = append(c.messages, text) }
func (c *fakeCtx) Progress(x float64)      {}
func (c *fakeCtx) ProgressTrack(t float64) {}
func (c *fakeCtx) Out() provider.Sink      { return &c.out }
func (c *fakeCtx) Err() provider.Sink      { return &c.err }
func (c *fakeCtx) CancelCheck() error      { return nil }

func TestNewAppliesPropertyOverrides(t *testing.T) {
	dr, _ := resource.New("/tmp/storm-containerd-test")
	props := resolver.WrapMap(map[string]any{
		"socket":    "/custom/containerd.sock",
		"namespace": "custom-ns",
	}, nil)

	p, err := New(dr, props)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cp := p.(*Provider)
	if cp.socketPath != "/custom/containerd.sock" {
		t.Errorf("socketPath = %q, want /custom/containerd.sock", cp.socketPath)
	}
	if cp.namespace != "custom-ns" {
		t.Errorf("namespace = %q, want custom-ns", cp.namespace)
	}
}

func TestNewDefaultsWhenPropertiesAbsent(t *testing.T) {
	dr, _ := resource.New("/tmp/storm-containerd-test")
	p, err := New(dr, resolver.WrapMap(nil, nil))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	cp := p.(*Provider)
	if cp.socketPath != DefaultSocketPath {
		t.Errorf("socketPath = %q, want %q", cp.socketPath, DefaultSocketPath)
	}
	if cp.namespace != DefaultNamespace {
		t.Errorf("namespace = %q, want %q", cp.namespace, DefaultNamespace)
	}
}

func TestConfigureFailsWhenSocketMissing(t *testing.T) {
	dr, _ := resource.New("/tmp/storm-containerd-test")
	props := resolver.WrapMap(map[string]any{"socket": "/nonexistent/containerd.sock"}, nil)
	p, err := New(dr, props)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.Configure(&fakeCtx{}); err == nil {
		t.Fatal("Configure should fail when the socket path does not exist")
	}
}

func TestBuildSpecAssemblesMountsAndProcess(t *testing.T) {
	dr, _ := resource.New("/tmp/storm-containerd-test")
	p, _ := New(dr, resolver.WrapMap(nil, nil))
	cp := p.(*Provider)

	img := &image.Image{
		Ref: image.Ref{Name: "app", Tag: "v1"},
		Definition: image.Definition{
			Files: []image.File{
				{Source: "/src/app.bin", Target: "/opt/app/app.bin"},
			},
			Execution: []image.Command{
				{Args: []string{"/opt/app/app.bin", "--serve"}},
			},
		},
	}

	spec := cp.buildSpec(img)
	if len(spec.Mounts) != 1 {
		t.Fatalf("got %d mounts, want 1", len(spec.Mounts))
	}
	if spec.Mounts[0].Destination != "/opt/app/app.bin" {
		t.Errorf("mount destination = %q, want /opt/app/app.bin", spec.Mounts[0].Destination)
	}
	if spec.Process == nil || len(spec.Process.Args) != 2 {
		t.Fatalf("process args = %v, want 2 entries", spec.Process)
	}
}

func TestImagePublishRemoveUnpublishAreNoOps(t *testing.T) {
	dr, _ := resource.New("/tmp/storm-containerd-test")
	p, _ := New(dr, resolver.WrapMap(nil, nil))
	img := &image.Image{Ref: image.Ref{Name: "app"}}
	ctx := &fakeCtx{}

	if err := p.ImagePublish(ctx, img); err != nil {
		t.Errorf("ImagePublish: %v", err)
	}
	if err := p.ImageRemove(ctx, img); err != nil {
		t.Errorf("ImageRemove: %v", err)
	}
	if err := p.ImageUnpublish(ctx, img); err != nil {
		t.Errorf("ImageUnpublish: %v", err)
	}
	if len(ctx.messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(ctx.messages))
	}
}

func TestRegisteredUnderContainerd(t *testing.T) {
	if _, ok := provider.Lookup("containerd"); !ok {
		t.Fatal("containerd provider is not registered")
	}
}
