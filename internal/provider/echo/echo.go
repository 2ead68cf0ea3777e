/*
Package echo implements a dependency-free reference platform provider.
It performs no real container work: every lifecycle method polls
cancellation, logs what it was asked to do, and dispatches one message
naming it. It reports no progress of its own. It exists so the engine and
its scheduling methods can be exercised end to end without a container
runtime on hand — in tests, and as a template for writing a real
provider.
*/
package echo

import (
	"github.com/rs/zerolog"

	"github.com/nimbusctl/stormengine/internal/provider"
	"github.com/nimbusctl/stormengine/internal/resolver"
	"github.com/nimbusctl/stormengine/internal/resource"
	"github.com/nimbusctl/stormengine/pkg/image"
	"github.com/nimbusctl/stormengine/pkg/log"
)

func init() {
	provider.Register("echo", New)
}

// Provider is the echo backend's Provider implementation.
type Provider struct {
	dataResource *resource.Resource
	properties   *resolver.LazyMap
	logger       zerolog.Logger
}

// New constructs an echo Provider. It never fails: the echo backend has
// no external dependency that could be missing.
func New(dataResource *resource.Resource, properties *resolver.LazyMap) (provider.Provider, error) {
	return &Provider{
		dataResource: dataResource,
		properties:   properties,
		logger:       log.WithComponent("echo"),
	}, nil
}

func (p *Provider) step(ctx provider.TaskContext, verb string) error {
	if err := ctx.CancelCheck(); err != nil {
		return err
	}
	p.logger.Debug().Str("resource", p.dataResource.Unref()).Msg(verb)
	ctx.Message(verb)
	return nil
}

// Configure logs that the platform was configured.
func (p *Provider) Configure(ctx provider.TaskContext) error {
	return p.step(ctx, "configure")
}

// Destroy logs that the platform was destroyed.
func (p *Provider) Destroy(ctx provider.TaskContext) error {
	return p.step(ctx, "destroy")
}

// ImageBuild logs the image that would have been built.
func (p *Provider) ImageBuild(ctx provider.TaskContext, img *image.Image) error {
	if err := ctx.CancelCheck(); err != nil {
		return err
	}
	p.logger.Debug().Str("image", img.Ref.String()).Msg("image-build")
	ctx.Message("image-build " + img.Ref.String())
	return nil
}

// ImagePublish logs the image that would have been published.
func (p *Provider) ImagePublish(ctx provider.TaskContext, img *image.Image) error {
	if err := ctx.CancelCheck(); err != nil {
		return err
	}
	p.logger.Debug().Str("image", img.Ref.String()).Msg("image-publish")
	ctx.Message("image-publish " + img.Ref.String())
	return nil
}

// ImageRemove logs the image that would have been removed.
func (p *Provider) ImageRemove(ctx provider.TaskContext, img *image.Image) error {
	if err := ctx.CancelCheck(); err != nil {
		return err
	}
	p.logger.Debug().Str("image", img.Ref.String()).Msg("image-remove")
	ctx.Message("image-remove " + img.Ref.String())
	return nil
}

// ImageUnpublish logs the image that would have been unpublished.
func (p *Provider) ImageUnpublish(ctx provider.TaskContext, img *image.Image) error {
	if err := ctx.CancelCheck(); err != nil {
		return err
	}
	p.logger.Debug().Str("image", img.Ref.String()).Msg("image-unpublish")
	ctx.Message("image-unpublish " + img.Ref.String())
	return nil
}
