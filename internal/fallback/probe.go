// Package fallback decides whether the client-side model path can be offered.
package fallback

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonathan/jobmatch/internal/llm"
)

// DefaultProbeTimeout bounds a single probe.
const DefaultProbeTimeout = 15 * time.Second

// ClientFactory creates a model client. Probe calls it for the shared
// readiness check and again for each caller that gets a positive verdict.
type ClientFactory func(ctx context.Context) (llm.Client, error)

// GeminiFactory returns a ClientFactory for the Gemini client. An empty
// apiKey yields llm.ErrMissingAPIKey from the factory.
func GeminiFactory(config *llm.Config, apiKey string) ClientFactory {
	return func(ctx context.Context) (llm.Client, error) {
		return llm.NewClient(ctx, config, apiKey)
	}
}

// Capability is the probe verdict. Client is set only when both flags are
// true. Every caller gets its own Client and must Close it.
type Capability struct {
	SDKPresent bool
	ModelReady bool
	Client     llm.Client
	// Reason explains a negative verdict.
	Reason string
}

// Available reports whether the fallback may be offered.
func (c Capability) Available() bool {
	return c.SDKPresent && c.ModelReady && c.Client != nil
}

// Prober checks client-side model availability. Concurrent probes share a
// single in-flight check.
type Prober struct {
	factory ClientFactory
	tier    llm.ModelTier
	timeout time.Duration
	logger  *slog.Logger
	group   singleflight.Group
}

// NewProber creates a Prober. A nil factory means no model SDK is configured.
func NewProber(factory ClientFactory, logger *slog.Logger) *Prober {
	if logger == nil {
		logger = slog.Default()
	}
	return &Prober{
		factory: factory,
		tier:    llm.TierStandard,
		timeout: DefaultProbeTimeout,
		logger:  logger,
	}
}

// WithTimeout sets the probe timeout.
func (p *Prober) WithTimeout(d time.Duration) *Prober {
	if d > 0 {
		p.timeout = d
	}
	return p
}

// Probe never fails and never panics; any problem is reported as a negative
// Capability. Concurrent callers share one readiness check, then each one
// connects its own client.
func (p *Prober) Probe(ctx context.Context) Capability {
	v, _, _ := p.group.Do("probe", func() (any, error) {
		return p.check(ctx), nil
	})
	capability := v.(Capability)
	if capability.ModelReady {
		capability = p.connect(ctx)
	}
	p.logger.Debug("capability probe",
		"sdk_present", capability.SDKPresent,
		"model_ready", capability.ModelReady,
		"reason", capability.Reason,
	)
	return capability
}

// check pings the model through a throwaway client. The verdict it returns
// never carries a client.
func (p *Prober) check(ctx context.Context) (result Capability) {
	defer func() {
		if r := recover(); r != nil {
			result = Capability{SDKPresent: result.SDKPresent, Reason: fmt.Sprintf("probe panicked: %v", r)}
		}
	}()

	if p.factory == nil {
		return Capability{Reason: "no model SDK configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	client, err := p.factory(ctx)
	if err != nil || client == nil {
		return Capability{Reason: fmt.Sprintf("model SDK unavailable: %v", err)}
	}
	defer func() { _ = client.Close() }()
	result.SDKPresent = true

	if err := client.Ping(ctx, p.tier); err != nil {
		return Capability{SDKPresent: true, Reason: fmt.Sprintf("model not ready: %v", err)}
	}
	return Capability{SDKPresent: true, ModelReady: true}
}

// connect builds the caller's client after a positive check.
func (p *Prober) connect(ctx context.Context) (result Capability) {
	defer func() {
		if r := recover(); r != nil {
			result = Capability{SDKPresent: true, Reason: fmt.Sprintf("model client panicked: %v", r)}
		}
	}()

	client, err := p.factory(ctx)
	if err != nil || client == nil {
		return Capability{SDKPresent: true, Reason: fmt.Sprintf("model client unavailable: %v", err)}
	}
	return Capability{SDKPresent: true, ModelReady: true, Client: client}
}
