/*
Package remote implements a platform provider that delegates every
lifecycle call to an HTTP-accessible peer engine.

The teacher's own remote client (pkg/client) dials a cluster manager
over mTLS gRPC with a generated proto.WarrenAPIClient. That whole
surface — protobuf messages, certificate-based join tokens, a
generated service stub — exists to drive a cluster API this provider
has no equivalent of: there is exactly one verb it forwards (run this
lifecycle method against a peer's platform), not a service's worth of
RPCs. Carrying grpc+protobuf for one shape of request is what this
provider trims; the per-call context timeout and bearer-style
authentication from pkg/client's pattern carry over onto a plain
net/http.Client, with the request body encoded as a structured-value
document through this module's own internal/codec, so the wire format
matches what the engine already reads and writes everywhere else. The
response body is not decoded: a 2xx status is success, and any other
status becomes an error carrying the raw response text.
*/
package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/nimbusctl/stormengine/internal/codec"
	"github.com/nimbusctl/stormengine/internal/provider"
	"github.com/nimbusctl/stormengine/internal/resolver"
	"github.com/nimbusctl/stormengine/internal/resource"
	"github.com/nimbusctl/stormengine/pkg/image"
	"github.com/nimbusctl/stormengine/pkg/log"
)

func init() {
	provider.Register("remote", New)
}

// DefaultTimeout bounds a single lifecycle call's round trip.
const DefaultTimeout = 10 * time.Second

// Provider forwards every lifecycle method to a peer engine's HTTP
// endpoint as a single POST of a structured-value document.
type Provider struct {
	dataResource *resource.Resource
	baseURL      string
	token        string
	httpClient   *http.Client
	logger       zerolog.Logger
}

// New reads url (required), token (optional bearer credential), and
// timeout (optional, seconds) properties.
func New(dataResource *resource.Resource, properties *resolver.LazyMap) (provider.Provider, error) {
	v, ok, err := properties.Get("url")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("remote: url property is required")
	}
	baseURL, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("remote: url property must be a string")
	}

	token := ""
	if v, ok, err := properties.Get("token"); err != nil {
		return nil, err
	} else if ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("remote: token property must be a string")
		}
		token = s
	}

	timeout := DefaultTimeout
	if v, ok, err := properties.Get("timeout"); err != nil {
		return nil, err
	} else if ok {
		seconds, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("remote: timeout property must be a number")
		}
		timeout = time.Duration(seconds * float64(time.Second))
	}

	return &Provider{
		dataResource: dataResource,
		baseURL:      baseURL,
		token:        token,
		httpClient:   &http.Client{Timeout: timeout},
		logger:       log.WithComponent("remote"),
	}, nil
}

// call posts a structured-value document describing a lifecycle call
// to path and discards a successful response body; a non-2xx status
// becomes an error carrying the response text.
func (p *Provider) call(ctx provider.TaskContext, path string, body map[string]any) error {
	if err := ctx.CancelCheck(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := codec.NewWriter(&buf).WriteValue(body); err != nil {
		return fmt.Errorf("remote: encoding request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), p.httpClient.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, p.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("remote: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-storm-value")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("remote: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("remote: %s: status %d: %s", path, resp.StatusCode, respBody)
	}

	p.logger.Debug().Str("path", path).Int("status", resp.StatusCode).Msg("call")
	ctx.Message(path + " ok")
	return nil
}

// Configure forwards to the peer's /configure endpoint.
func (p *Provider) Configure(ctx provider.TaskContext) error {
	return p.call(ctx, "/configure", nil)
}

// Destroy forwards to the peer's /destroy endpoint.
func (p *Provider) Destroy(ctx provider.TaskContext) error {
	return p.call(ctx, "/destroy", nil)
}

func imageBody(img *image.Image) map[string]any {
	return map[string]any{"ref": img.Ref.String()}
}

// ImageBuild forwards to the peer's /image/build endpoint.
func (p *Provider) ImageBuild(ctx provider.TaskContext, img *image.Image) error {
	return p.call(ctx, "/image/build", imageBody(img))
}

// ImagePublish forwards to the peer's /image/publish endpoint.
func (p *Provider) ImagePublish(ctx provider.TaskContext, img *image.Image) error {
	return p.call(ctx, "/image/publish", imageBody(img))
}

// ImageRemove forwards to the peer's /image/remove endpoint.
func (p *Provider) ImageRemove(ctx provider.TaskContext, img *image.Image) error {
	return p.call(ctx, "/image/remove", imageBody(img))
}

// ImageUnpublish forwards to the peer's /image/unpublish endpoint.
func (p *Provider) ImageUnpublish(ctx provider.TaskContext, img *image.Image) error {
	return p.call(ctx, "/image/unpublish", imageBody(img))
}
