package engine

import (
	"fmt"

	"github.com/nimbusctl/stormengine/internal/provider"
	"github.com/nimbusctl/stormengine/internal/resolver"
	"github.com/nimbusctl/stormengine/internal/resource"
	"github.com/nimbusctl/stormengine/pkg/image"
)

// Stub is a lazy binding of (provider name, properties) to a provider
// instance (§4.7). Provider and Properties never change after
// construction; Available is a pure function of whether the named
// provider could be resolved in the builder table and its constructor
// succeeded at construction time, so a stub never silently drops state
// even when its provider is missing.
type Stub struct {
	providerName string
	properties   map[string]any
	dataResource *resource.Resource
	instance     provider.Provider
}

func newStub(providerName string, properties map[string]any, dataResource *resource.Resource) *Stub {
	s := &Stub{
		providerName: providerName,
		properties:   properties,
		dataResource: dataResource,
	}
	ctor, ok := provider.Lookup(providerName)
	if !ok {
		return s
	}
	resolvable := resolver.WrapMap(properties, properties)
	instance, err := ctor(dataResource, resolvable)
	if err != nil {
		return s
	}
	s.instance = instance
	return s
}

// ProviderName returns the provider name this stub was constructed with,
// regardless of availability.
func (s *Stub) ProviderName() string { return s.providerName }

// Properties returns the raw (unresolved) properties this stub was
// constructed with.
func (s *Stub) Properties() map[string]any { return s.properties }

// Available reports whether the named provider could be resolved.
func (s *Stub) Available() bool { return s.instance != nil }

func (s *Stub) require() (provider.Provider, error) {
	if s.instance == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotAvailable, s.providerName)
	}
	return s.instance, nil
}

// Configure passes through to the provider's Configure.
func (s *Stub) Configure(ctx provider.TaskContext) error {
	p, err := s.require()
	if err != nil {
		return err
	}
	return p.Configure(ctx)
}

// Destroy passes through to the provider's Destroy.
func (s *Stub) Destroy(ctx provider.TaskContext) error {
	p, err := s.require()
	if err != nil {
		return err
	}
	return p.Destroy(ctx)
}

// ImageBuild passes through to the provider's ImageBuild.
func (s *Stub) ImageBuild(ctx provider.TaskContext, img *image.Image) error {
	p, err := s.require()
	if err != nil {
		return err
	}
	return p.ImageBuild(ctx, img)
}

// ImagePublish passes through to the provider's ImagePublish.
func (s *Stub) ImagePublish(ctx provider.TaskContext, img *image.Image) error {
	p, err := s.require()
	if err != nil {
		return err
	}
	return p.ImagePublish(ctx, img)
}

// ImageRemove passes through to the provider's ImageRemove.
func (s *Stub) ImageRemove(ctx provider.TaskContext, img *image.Image) error {
	p, err := s.require()
	if err != nil {
		return err
	}
	return p.ImageRemove(ctx, img)
}

// ImageUnpublish passes through to the provider's ImageUnpublish.
func (s *Stub) ImageUnpublish(ctx provider.TaskContext, img *image.Image) error {
	p, err := s.require()
	if err != nil {
		return err
	}
	return p.ImageUnpublish(ctx, img)
}
