package echo

import (
	"sync"
	"testing"

	"github.com/nimbusctl/stormengine/internal/provider"
	"github.com/nimbusctl/stormengine/internal/resolver"
	"github.com/nimbusctl/stormengine/internal/resource"
	"github.com/nimbusctl/stormengine/pkg/image"
)

type fakeSink struct {
	mu  sync.Mutex
	buf []byte
}

func (s *fakeSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = append(s.buf, p...)
	return len(p), nil
}

type fakeCtx struct {
	out, err  fakeSink
	messages  []string
	cancelled bool
}

func (c *fakeCtx) Message(text string)     { c.messages = append(c.messages, text) }
func (c *fakeCtx) Progress(x float64)      {}
func (c *fakeCtx) ProgressTrack(t float64) {}
func (c *fakeCtx) Out() provider.Sink      { return &c.out }
func (c *fakeCtx) Err() provider.Sink      { return &c.err }
func (c *fakeCtx) CancelCheck() error {
	if c.cancelled {
		return errCancelled
	}
	return nil
}

var errCancelled = &cancelError{}

type cancelError struct{}

func (*cancelError) Error() string { return "cancelled" }

func TestNewNeverFails(t *testing.T) {
	dr, err := resource.New("/tmp/storm-echo-test")
	if err != nil {
		t.Fatalf("resource.New: %v", err)
	}
	p, err := New(dr, resolver.WrapMap(nil, nil))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p == nil {
		t.Fatal("New returned a nil provider with a nil error")
	}
}

func TestLifecycleMethodsDispatchMessages(t *testing.T) {
	dr, _ := resource.New("/tmp/storm-echo-test")
	p, _ := New(dr, resolver.WrapMap(nil, nil))
	ctx := &fakeCtx{}

	if err := p.Configure(ctx); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	img := &image.Image{Ref: image.Ref{Name: "app", Tag: "v1"}}
	if err := p.ImageBuild(ctx, img); err != nil {
		t.Fatalf("ImageBuild: %v", err)
	}
	if err := p.ImagePublish(ctx, img); err != nil {
		t.Fatalf("ImagePublish: %v", err)
	}
	if err := p.ImageRemove(ctx, img); err != nil {
		t.Fatalf("ImageRemove: %v", err)
	}
	if err := p.ImageUnpublish(ctx, img); err != nil {
		t.Fatalf("ImageUnpublish: %v", err)
	}
	if err := p.Destroy(ctx); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	if len(ctx.messages) != 6 {
		t.Fatalf("got %d messages, want 6: %v", len(ctx.messages), ctx.messages)
	}
}

func TestMethodsRespectCancellation(t *testing.T) {
	dr, _ := resource.New("/tmp/storm-echo-test")
	p, _ := New(dr, resolver.WrapMap(nil, nil))
	ctx := &fakeCtx{cancelled: true}

	if err := p.Configure(ctx); err == nil {
		t.Error("Configure should observe cancellation")
	}
	if err := p.ImageBuild(ctx, &image.Image{}); err == nil {
		t.Error("ImageBuild should observe cancellation")
	}
}

func TestRegisteredUnderEcho(t *testing.T) {
	ctor, ok := provider.Lookup("echo")
	if !ok {
		t.Fatal("echo provider is not registered")
	}
	dr, _ := resource.New("/tmp/storm-echo-test")
	if _, err := ctor(dr, resolver.WrapMap(nil, nil)); err != nil {
		t.Fatalf("constructor failed: %v", err)
	}
}
