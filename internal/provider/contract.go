/*
Package provider defines the engine-facing contract a platform backend
must satisfy, and a builder table that replaces the original engine's
runtime module import with a static registration performed by each
provider package's init().

A provider package registers itself by name:

	func init() {
	    provider.Register("echo", New)
	}

The platform stub (internal/engine) looks the provider up by name at
bind time; a missing name is not a program error, it is the documented
*unavailable* stub state (§4.7).
*/
package provider

import (
	"sync"

	"github.com/nimbusctl/stormengine/internal/resolver"
	"github.com/nimbusctl/stormengine/internal/resource"
	"github.com/nimbusctl/stormengine/pkg/image"
)

// TaskContext is passed into every Provider method. It is the
// provider's only channel back to the engine: progress, messages, the
// output/error sinks, and the cooperative cancellation check.
type TaskContext interface {
	// Message dispatches an informational message event.
	Message(text string)
	// Progress reports fractional completion of the current segment;
	// x is in [0,1], or NaN for an indeterminate event.
	Progress(x float64)
	// ProgressTrack closes the current progress segment and opens a
	// new one of relative size t in [0,1].
	ProgressTrack(t float64)
	// Out returns the sink for the provider's standard output.
	Out() Sink
	// Err returns the sink for the provider's standard error.
	Err() Sink
	// CancelCheck returns a *task-cancelled* error if cancellation has
	// been requested, disarming the request in the process. Providers
	// must poll it at cooperative points during long-running work.
	CancelCheck() error
}

// Sink is a byte sink a provider writes operation output to.
type Sink interface {
	Write(p []byte) (int, error)
}

// Provider is the contract every platform backend implements. Each
// method may suspend arbitrarily long and returns only an error; none
// produces a meaningful value to the caller beyond that.
type Provider interface {
	Configure(ctx TaskContext) error
	Destroy(ctx TaskContext) error
	ImageBuild(ctx TaskContext, img *image.Image) error
	ImagePublish(ctx TaskContext, img *image.Image) error
	ImageRemove(ctx TaskContext, img *image.Image) error
	ImageUnpublish(ctx TaskContext, img *image.Image) error
}

// Constructor builds a Provider instance bound to a platform's data
// resource and a lazy view over its properties, resolvable against
// themselves (properties may reference each other, per §4.7).
type Constructor func(dataResource *resource.Resource, properties *resolver.LazyMap) (Provider, error)

var (
	mu       sync.RWMutex
	builders = map[string]Constructor{}
)

// Register adds name to the builder table. Called from a provider
// package's init(); registering the same name twice panics, since that
// can only happen from a programming mistake at link time, never at
// runtime.
func Register(name string, ctor Constructor) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := builders[name]; exists {
		panic("provider: duplicate registration for " + name)
	}
	builders[name] = ctor
}

// Lookup returns the constructor registered under name, or false if no
// provider by that name was ever registered. This null lookup is the
// systems-language equivalent of the original engine's failed dynamic
// import: it leaves the stub *unavailable*. A constructor that returns
// an error leaves the stub unavailable as well.
func Lookup(name string) (Constructor, bool) {
	mu.RLock()
	defer mu.RUnlock()
	ctor, ok := builders[name]
	return ctor, ok
}
