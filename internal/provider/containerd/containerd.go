/*
Package containerd implements a platform provider against a local
containerd install.

The teacher's own containerd backend dials the daemon through the full
github.com/containerd/containerd client (namespaces, NewContainer,
cio.NullIO tasks). Nothing else in this tree needs that client — it is
a large dependency surface for a single provider, and the daemon dial
itself is out of scope for this exercise (see DESIGN.md). This provider
keeps the parts that generalize: the socket-path/namespace configuration
shape, and OCI runtime-spec assembly for an image's mounts and
entrypoint, built with github.com/opencontainers/runtime-spec exactly as
the teacher's CreateContainerWithMounts does. Configure verifies the
socket is present; ImageBuild assembles and logs the spec it would hand
to a running daemon rather than performing the dial, and the other image
operations only report that they were skipped.
*/
package containerd

import (
	"fmt"
	"os"

	specs "github.com/opencontainers/runtime-spec/specs-go"
	"github.com/rs/zerolog"

	"github.com/nimbusctl/stormengine/internal/provider"
	"github.com/nimbusctl/stormengine/internal/resolver"
	"github.com/nimbusctl/stormengine/internal/resource"
	"github.com/nimbusctl/stormengine/pkg/image"
	"github.com/nimbusctl/stormengine/pkg/log"
)

func init() {
	provider.Register("containerd", New)
}

const (
	// DefaultSocketPath is the conventional containerd control socket.
	DefaultSocketPath = "/run/containerd/containerd.sock"
	// DefaultNamespace scopes this provider's containers within containerd.
	DefaultNamespace = "storm"
)

// Provider is the containerd backend's Provider implementation.
type Provider struct {
	dataResource *resource.Resource
	socketPath   string
	namespace    string
	logger       zerolog.Logger
}

// New reads socket/namespace properties (both optional) and constructs
// a Provider. It does not dial containerd, and neither does any
// operation of this provider.
func New(dataResource *resource.Resource, properties *resolver.LazyMap) (provider.Provider, error) {
	socketPath := DefaultSocketPath
	if v, ok, err := properties.Get("socket"); err != nil {
		return nil, err
	} else if ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("containerd: socket property must be a string")
		}
		socketPath = s
	}

	namespace := DefaultNamespace
	if v, ok, err := properties.Get("namespace"); err != nil {
		return nil, err
	} else if ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("containerd: namespace property must be a string")
		}
		namespace = s
	}

	return &Provider{
		dataResource: dataResource,
		socketPath:   socketPath,
		namespace:    namespace,
		logger:       log.WithComponent("containerd"),
	}, nil
}

// Configure verifies the containerd socket exists on disk.
func (p *Provider) Configure(ctx provider.TaskContext) error {
	if err := ctx.CancelCheck(); err != nil {
		return err
	}
	if _, err := os.Stat(p.socketPath); err != nil {
		return fmt.Errorf("containerd: socket %s not reachable: %w", p.socketPath, err)
	}
	p.logger.Debug().Str("socket", p.socketPath).Str("namespace", p.namespace).Msg("configure")
	ctx.Message("configured against " + p.socketPath)
	return nil
}

// Destroy is a no-op: this provider owns no resources beyond the socket
// path itself.
func (p *Provider) Destroy(ctx provider.TaskContext) error {
	return ctx.CancelCheck()
}

// buildSpec assembles an OCI runtime spec for img: a bind mount per
// definition file, and a process entrypoint from its first execution
// command, mirroring the mount/env assembly in CreateContainerWithMounts.
func (p *Provider) buildSpec(img *image.Image) *specs.Spec {
	spec := &specs.Spec{Version: specs.Version}

	mounts := make([]specs.Mount, 0, len(img.Definition.Files))
	for _, f := range img.Definition.Files {
		mounts = append(mounts, specs.Mount{
			Source:      f.Source,
			Destination: f.Target,
			Type:        "bind",
			Options:     []string{"ro", "bind"},
		})
	}
	spec.Mounts = mounts

	if len(img.Definition.Execution) > 0 {
		spec.Process = &specs.Process{Args: img.Definition.Execution[0].Args}
	}
	return spec
}

// ImageBuild assembles the image's OCI spec and logs it. Producing an
// actual containerd image/snapshot is the dial this provider stops
// short of.
func (p *Provider) ImageBuild(ctx provider.TaskContext, img *image.Image) error {
	if err := ctx.CancelCheck(); err != nil {
		return err
	}
	spec := p.buildSpec(img)
	p.logger.Debug().
		Str("image", img.Ref.String()).
		Int("mounts", len(spec.Mounts)).
		Msg("image-build")
	ctx.Message("assembled oci spec for " + img.Ref.String())
	return nil
}

// ImagePublish is a no-op placeholder: without a daemon dial there is
// nowhere to publish to.
func (p *Provider) ImagePublish(ctx provider.TaskContext, img *image.Image) error {
	if err := ctx.CancelCheck(); err != nil {
		return err
	}
	ctx.Message("publish skipped, no containerd dial: " + img.Ref.String())
	return nil
}

// ImageRemove is a no-op placeholder for the same reason as ImagePublish.
func (p *Provider) ImageRemove(ctx provider.TaskContext, img *image.Image) error {
	if err := ctx.CancelCheck(); err != nil {
		return err
	}
	ctx.Message("remove skipped, no containerd dial: " + img.Ref.String())
	return nil
}

// ImageUnpublish is a no-op placeholder for the same reason as ImagePublish.
func (p *Provider) ImageUnpublish(ctx provider.TaskContext, img *image.Image) error {
	if err := ctx.CancelCheck(); err != nil {
		return err
	}
	ctx.Message("unpublish skipped, no containerd dial: " + img.Ref.String())
	return nil
}
