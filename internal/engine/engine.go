package engine

import (
	"errors"
	"fmt"

	"github.com/nimbusctl/stormengine/internal/codec"
	"github.com/nimbusctl/stormengine/internal/eventqueue"
	"github.com/nimbusctl/stormengine/internal/provider"
	"github.com/nimbusctl/stormengine/internal/resource"
	"github.com/nimbusctl/stormengine/pkg/image"
	"github.com/nimbusctl/stormengine/pkg/layout"
)

// defaultPoolSize is the recommended parallel worker count (§5).
const defaultPoolSize = 10

// discardSink is substituted for a missing out/err sink.
type discardSink struct{}

func (discardSink) Write(p []byte) (int, error) { return len(p), nil }

// Config constructs an Engine.
type Config struct {
	// StateResource is where platform state is loaded from and stored
	// to. Required.
	StateResource *resource.Resource
	// Queue receives every dispatched event. A nil Queue gets a fresh
	// one.
	Queue *eventqueue.Queue
	// Out/Err are the sinks operations and providers write to. A nil
	// sink is replaced with one that discards everything.
	Out, Err provider.Sink
	// PoolSize is the worker pool size; <= 0 uses the default of 10.
	PoolSize int
	// Metrics receives task/pool instrumentation (§2.2). A nil value
	// installs a no-op recorder; wiring a real one (pkg/metrics.Recorder)
	// is entirely opt-in.
	Metrics MetricsRecorder
	// Catalog records every image Offer publishes and forgets every
	// image Retire unpublishes (pkg/image.Store). It is separate from
	// the engine's own state document; a nil Catalog disables catalog
	// bookkeeping entirely.
	Catalog *image.Store
}

// Engine is the top-level facade: it loads/stores platform state,
// schedules operations onto its worker pool, and owns the platform
// registry every task reads and mutates.
type Engine struct {
	stateResource *resource.Resource
	queue         *eventqueue.Queue
	out, errout   provider.Sink
	pool          *Pool
	registry      *Registry
	metrics       MetricsRecorder
	catalog       *image.Store
}

// New constructs an Engine against cfg. A missing state resource is
// not an error — the registry simply starts empty; any other
// structural defect in the state document is reported as ErrReadError.
func New(cfg Config) (*Engine, error) {
	queue := cfg.Queue
	if queue == nil {
		queue = eventqueue.New()
	}
	out, errout := cfg.Out, cfg.Err
	if out == nil {
		out = discardSink{}
	}
	if errout == nil {
		errout = discardSink{}
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}

	e := &Engine{
		stateResource: cfg.StateResource,
		queue:         queue,
		out:           out,
		errout:        errout,
		pool:          NewPool(cfg.PoolSize),
		registry:      NewRegistry(),
		metrics:       metrics,
		catalog:       cfg.Catalog,
	}
	if err := e.load(); err != nil {
		return nil, err
	}
	return e, nil
}

// Queue returns the event queue the driver should iterate.
func (e *Engine) Queue() *eventqueue.Queue { return e.queue }

// newTaskWorker builds a worker tagged with kind for metrics purposes.
func (e *Engine) newTaskWorker(kind string) *Worker {
	w := newWorker(e.queue, e.out, e.errout)
	w.metrics = e.metrics
	w.kind = kind
	return w
}

func (e *Engine) load() error {
	r, err := e.stateResource.Open(resource.ReadMode)
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrIOError, err)
	}
	defer r.Close()

	reader := codec.NewReader(r)
	root, err := reader.ReadValue()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadError, err)
	}
	topMap, ok := root.(*codec.Map)
	if !ok {
		return fmt.Errorf("%w: state document is not a map", ErrReadError)
	}

	return topMap.Entries(func(key string, v codec.Value) (bool, error) {
		if key != "platforms" {
			return true, nil
		}
		platformsMap, ok := v.(*codec.Map)
		if !ok {
			return false, fmt.Errorf("%w: platforms is not a map", ErrReadError)
		}
		return true, platformsMap.Entries(e.loadPlatformEntry)
	})
}

func (e *Engine) loadPlatformEntry(name string, v codec.Value) (bool, error) {
	entryMap, ok := v.(*codec.Map)
	if !ok {
		return false, fmt.Errorf("%w: platform %q entry is not a map", ErrReadError, name)
	}

	var providerName string
	var properties map[string]any
	err := entryMap.Entries(func(key string, ev codec.Value) (bool, error) {
		switch key {
		case "provider":
			s, ok := ev.(codec.String)
			if !ok {
				return false, fmt.Errorf("%w: platform %q provider is not a string", ErrReadError, name)
			}
			providerName = string(s)
		case "properties":
			materialized, err := codec.Materialize(ev)
			if err != nil {
				return false, fmt.Errorf("%w: %v", ErrReadError, err)
			}
			if m, ok := materialized.(map[string]any); ok {
				properties = m
			}
		}
		return true, nil
	})
	if err != nil {
		return false, err
	}

	stub, err := e.registry.Create(name, providerName, properties, e.stateResource)
	if err != nil {
		return false, err
	}
	if err := e.registry.Put(name, stub); err != nil {
		return false, err
	}
	return true, nil
}

// Store serializes the platform registry to the state resource as a
// canonical structured-value document (sorted keys, indented, trailing
// newline). Synchronous; not itself a task.
func (e *Engine) Store() error {
	w, err := e.stateResource.Open(resource.WriteMode)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIOError, err)
	}
	defer w.Close()

	doc := map[string]any{"platforms": e.platformsDoc()}
	cw := codec.NewCanonicalWriter(w, "  ")
	if err := cw.WriteValue(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrIOError, err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("%w: %v", ErrIOError, err)
	}
	return nil
}

func (e *Engine) platformsDoc() map[string]any {
	out := make(map[string]any)
	e.registry.Items(func(name string, stub *Stub) {
		out[name] = map[string]any{
			"provider":   stub.ProviderName(),
			"properties": stub.Properties(),
		}
	})
	return out
}

// PlatformEntry is the payload of a platform-entry event.
type PlatformEntry struct {
	Name      string
	Available bool
	Provider  string
}

// Platforms iterates the registry and dispatches one platform-entry
// event per entry; the task's result is the count.
func (e *Engine) Platforms() *TaskHandle {
	w := e.newTaskWorker("platforms")
	return w.Submit(e.pool, func(ctx *Worker) (any, error) {
		type row struct {
			name string
			stub *Stub
		}
		var rows []row
		e.registry.Items(func(name string, stub *Stub) {
			rows = append(rows, row{name, stub})
		})

		n := len(rows)
		if n == 0 {
			return 0, nil
		}
		share := 1.0 / float64(n)
		for _, r := range rows {
			if err := ctx.CancelCheck(); err != nil {
				return nil, err
			}
			ctx.Dispatch(eventqueue.KindPlatformEntry, PlatformEntry{
				Name:      r.name,
				Available: r.stub.Available(),
				Provider:  r.stub.ProviderName(),
			})
			ctx.ProgressTrack(share)
			ctx.Progress(1.0)
		}
		return n, nil
	})
}

// Register creates a stub, configures it, and only then inserts it
// into the registry — a failed configure must not leave a partially
// registered platform.
func (e *Engine) Register(name, providerName string, properties map[string]any) *TaskHandle {
	w := e.newTaskWorker("register")
	return w.Submit(e.pool, func(ctx *Worker) (any, error) {
		stub, err := e.registry.Create(name, providerName, properties, e.stateResource)
		if err != nil {
			return nil, err
		}
		ctx.ProgressTrack(1.0)
		if err := stub.Configure(ctx); err != nil {
			return nil, err
		}
		ctx.Progress(1.0)
		if err := e.registry.Put(name, stub); err != nil {
			return nil, err
		}
		return nil, nil
	})
}

// Dismiss optionally destroys the named platform's provider resources,
// then removes it from the registry. If destroy fails, the platform
// remains registered.
func (e *Engine) Dismiss(name string, destroy bool) *TaskHandle {
	w := e.newTaskWorker("dismiss")
	return w.Submit(e.pool, func(ctx *Worker) (any, error) {
		if destroy {
			stub, err := e.registry.Get(name)
			if err != nil {
				return nil, err
			}
			ctx.ProgressTrack(1.0)
			if err := stub.Destroy(ctx); err != nil {
				return nil, err
			}
			ctx.Progress(1.0)
		}
		if err := e.registry.Remove(name); err != nil {
			return nil, err
		}
		return nil, nil
	})
}

// Watch is reserved for future state reporting; currently a no-op.
func (e *Engine) Watch(name string) *TaskHandle {
	w := e.newTaskWorker("watch")
	return w.Submit(e.pool, func(ctx *Worker) (any, error) {
		return nil, nil
	})
}

// Offer builds then publishes img on the named platform. Either step
// may suspend arbitrarily long; a publish failure does not roll back a
// successful build.
func (e *Engine) Offer(name string, img *image.Image) *TaskHandle {
	w := e.newTaskWorker("offer")
	return w.Submit(e.pool, func(ctx *Worker) (any, error) {
		stub, err := e.registry.Get(name)
		if err != nil {
			return nil, err
		}
		ctx.ProgressTrack(0.5)
		if err := stub.ImageBuild(ctx, img); err != nil {
			return nil, err
		}
		ctx.Progress(1.0)
		ctx.ProgressTrack(0.5)
		if err := stub.ImagePublish(ctx, img); err != nil {
			return nil, err
		}
		ctx.Progress(1.0)
		if e.catalog != nil {
			if err := e.catalog.Put(img); err != nil {
				ctx.Message(fmt.Sprintf("catalog: %v", err))
			}
		}
		return nil, nil
	})
}

// Retire removes then unpublishes img from the named platform.
func (e *Engine) Retire(name string, img *image.Image) *TaskHandle {
	w := e.newTaskWorker("retire")
	return w.Submit(e.pool, func(ctx *Worker) (any, error) {
		stub, err := e.registry.Get(name)
		if err != nil {
			return nil, err
		}
		ctx.ProgressTrack(0.5)
		if err := stub.ImageRemove(ctx, img); err != nil {
			return nil, err
		}
		ctx.Progress(1.0)
		ctx.ProgressTrack(0.5)
		if err := stub.ImageUnpublish(ctx, img); err != nil {
			return nil, err
		}
		ctx.Progress(1.0)
		if e.catalog != nil {
			if err := e.catalog.Delete(img.Ref); err != nil {
				ctx.Message(fmt.Sprintf("catalog: %v", err))
			}
		}
		return nil, nil
	})
}

// Emerge validates lay against the registry and its own internal
// references, then returns without realizing it: actually bringing a
// layout's containers up on their target platforms is reserved future
// work. Validation still runs so a caller gets immediate, useful
// feedback about a malformed layout instead of a silent no-op.
func (e *Engine) Emerge(layoutName string, lay *layout.Layout) *TaskHandle {
	w := e.newTaskWorker("emerge")
	return w.Submit(e.pool, func(ctx *Worker) (any, error) {
		if lay == nil {
			return nil, fmt.Errorf("%w: nil layout", ErrInvalidLayout)
		}
		for _, exec := range lay.Executions {
			if err := ctx.CancelCheck(); err != nil {
				return nil, err
			}
			container, ok := lay.Containers[exec.ContainerName]
			if !ok {
				return nil, fmt.Errorf("%w: execution references unknown container %q", ErrInvalidLayout, exec.ContainerName)
			}
			if _, err := e.registry.Get(exec.PlatformName); err != nil {
				return nil, fmt.Errorf("%w: execution for container %q references unknown platform %q", ErrInvalidLayout, container.Name, exec.PlatformName)
			}
			for _, mount := range exec.Configuration.Volumes {
				if _, ok := lay.Volumes[mount.VolumeName]; !ok {
					return nil, fmt.Errorf("%w: container %q mounts unknown volume %q", ErrInvalidLayout, exec.ContainerName, mount.VolumeName)
				}
			}
		}
		return nil, nil
	})
}

// Close stops the worker pool once in-flight tasks drain. It does not
// close the event queue — the driver owns that lifecycle.
func (e *Engine) Close() {
	e.pool.Close()
}
