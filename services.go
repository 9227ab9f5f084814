package cancelaccounts

import (
	"context"
	"net/http"

	"github.com/goliatone/go-cancel-accounts/accountapi"
	"github.com/goliatone/go-cancel-accounts/cancellation"
	"github.com/goliatone/go-cancel-accounts/core"
	"github.com/goliatone/go-cancel-accounts/ratelimit"
	"github.com/goliatone/go-cancel-accounts/source"
	"github.com/goliatone/go-cancel-accounts/transport"
)

type Config = core.Config

type Report = cancellation.Report

func DefaultConfig() Config {
	return core.DefaultConfig()
}

// LoadConfig layers the loader output over the defaults and runtime over
// both, then validates the result.
func LoadConfig(ctx context.Context, loader core.RawConfigLoader, runtime Config, explicitKeys ...string) (Config, error) {
	return core.ResolveConfig(ctx, runtime, core.NewCfgxConfigProvider(loader), core.GoOptionsResolver{
		RuntimeKeys: explicitKeys,
	})
}

type Option func(*setupOptions)

type setupOptions struct {
	logger         core.Logger
	loggerProvider core.LoggerProvider
	httpClient     transport.HTTPDoer
	transport      core.TransportAdapter
	limiter        core.RateLimiter
	source         core.AccountSource
	operations     CommandQueryService
}

func WithLogger(logger core.Logger) Option {
	return func(o *setupOptions) { o.logger = logger }
}

func WithLoggerProvider(provider core.LoggerProvider) Option {
	return func(o *setupOptions) { o.loggerProvider = provider }
}

func WithHTTPClient(client transport.HTTPDoer) Option {
	return func(o *setupOptions) { o.httpClient = client }
}

// WithTransport replaces the GraphQL adapter built from the api config.
func WithTransport(adapter core.TransportAdapter) Option {
	return func(o *setupOptions) { o.transport = adapter }
}

func WithRateLimiter(limiter core.RateLimiter) Option {
	return func(o *setupOptions) { o.limiter = limiter }
}

func WithAccountSource(src core.AccountSource) Option {
	return func(o *setupOptions) { o.source = src }
}

// WithOperations replaces the GraphQL client behind the facade.
func WithOperations(ops CommandQueryService) Option {
	return func(o *setupOptions) { o.operations = ops }
}

// App is a fully wired cancellation run.
type App struct {
	Config       Config
	Logger       core.Logger
	Source       core.AccountSource
	Limiter      core.RateLimiter
	Facade       *Facade
	Orchestrator *cancellation.Orchestrator
}

func Setup(cfg Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	options := setupOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	logger := core.ResolveLogger("cancel-accounts", options.loggerProvider, options.logger)
	named := func(name string) core.Logger {
		return core.ResolveLogger(name, options.loggerProvider, logger)
	}

	ops := options.operations
	if ops == nil {
		adapter := options.transport
		if adapter == nil {
			client := options.httpClient
			if client == nil {
				client = &http.Client{Timeout: cfg.APITimeout()}
			}
			adapter = transport.NewGraphQLAdapter(cfg.API.Endpoint, client,
				transport.WithAPIKey(cfg.API.APIKey),
				transport.WithTimeout(cfg.APITimeout()),
				transport.WithMaxResponseBytes(cfg.API.MaxResponseBytes),
			)
		}
		client, err := accountapi.NewClient(adapter, accountapi.WithLogger(named("accountapi")))
		if err != nil {
			return nil, err
		}
		ops = client
	}
	facade, err := NewFacade(ops)
	if err != nil {
		return nil, err
	}

	limiter := options.limiter
	if limiter == nil {
		window, err := ratelimit.NewSlidingWindow(cfg.RateLimit.Calls, cfg.RateLimitWindow(),
			ratelimit.WithLogger(named("ratelimit")))
		if err != nil {
			return nil, err
		}
		limiter = window
	}

	src := options.source
	if src == nil {
		src = source.NewCSVReader(cfg.Source.Path, cfg.Source.Column, named("source"))
	}

	orchestrator, err := cancellation.NewOrchestrator(facade, limiter,
		cancellation.WithLogger(named("cancellation")),
		cancellation.WithDryRun(cfg.Run.DryRun),
	)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:       cfg,
		Logger:       logger,
		Source:       src,
		Limiter:      limiter,
		Facade:       facade,
		Orchestrator: orchestrator,
	}, nil
}

// Run reads the account list and cancels every account on it.
func (a *App) Run(ctx context.Context) (Report, error) {
	if a == nil || a.Source == nil || a.Orchestrator == nil {
		return Report{}, core.NewInternalError("cancelaccounts: app is not configured")
	}
	ids, err := a.Source.ReadIDs(ctx)
	if err != nil {
		core.LogEvent(ctx, a.Logger, core.LevelError, "account list could not be read",
			core.MergeFields(map[string]any{"path": a.Config.Source.Path}, core.ErrorFields(err)))
		return Report{}, err
	}
	return a.Orchestrator.Run(ctx, ids)
}
