package di

import (
	"context"
	"errors"
	nethttp "net/http"
	"sync"
	"time"

	curationcmd "github.com/goliatone/go-curations/internal/commands/curation"
	"github.com/goliatone/go-curations/internal/client"
	"github.com/goliatone/go-curations/internal/curation"
	curationshttp "github.com/goliatone/go-curations/internal/http"
	"github.com/goliatone/go-curations/internal/i18n"
	"github.com/goliatone/go-curations/internal/logging"
	"github.com/goliatone/go-curations/internal/logging/gologger"
	"github.com/goliatone/go-curations/internal/markdown"
	"github.com/goliatone/go-curations/internal/poller"
	"github.com/goliatone/go-curations/internal/requests"
	"github.com/goliatone/go-curations/internal/routes"
	"github.com/goliatone/go-curations/internal/runtimeconfig"
	"github.com/goliatone/go-curations/internal/workflow"
	"github.com/goliatone/go-curations/internal/workflow/simple"
	"github.com/goliatone/go-curations/pkg/interfaces"
)

var ErrPollerNil = errors.New("di: poller is nil")

// Container wires the curations runtime: route set, presenter, API client,
// request pollers, the reference request service, and command handlers.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	translator     interfaces.Translator
	httpClient     *nethttp.Client
	tickers        interfaces.TickerFactory
	now            func() time.Time
	requestRepo    requests.RequestRepository
	engine         interfaces.WorkflowEngine

	routes    *routes.Set
	presenter *curation.Presenter
	client    *client.Client
	requests  requests.Service
	commands  *curationcmd.HandlerSet

	mu      sync.RWMutex
	pollers []*poller.Poller
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the logger provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithTranslator overrides the embedded translation catalog.
func WithTranslator(translator interfaces.Translator) Option {
	return func(c *Container) {
		c.translator = translator
	}
}

func WithHTTPClient(httpClient *nethttp.Client) Option {
	return func(c *Container) {
		c.httpClient = httpClient
	}
}

// WithTickerFactory overrides the tickers handed to new pollers.
func WithTickerFactory(factory interfaces.TickerFactory) Option {
	return func(c *Container) {
		c.tickers = factory
	}
}

func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		if clock != nil {
			c.now = clock
		}
	}
}

// WithRequestRepository replaces the in-memory store behind the reference API.
func WithRequestRepository(repo requests.RequestRepository) Option {
	return func(c *Container) {
		c.requestRepo = repo
	}
}

// WithWorkflowEngine replaces the engine built from the workflow config.
func WithWorkflowEngine(engine interfaces.WorkflowEngine) Option {
	return func(c *Container) {
		c.engine = engine
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:      cfg,
		now:         time.Now,
		requestRepo: requests.NewMemoryRequestRepository(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureTranslator(); err != nil {
		return nil, err
	}
	if err := c.configureRoutes(); err != nil {
		return nil, err
	}

	c.presenter = curation.NewPresenter(
		curation.WithTranslator(c.translator, cfg.I18N.Locale),
		curation.WithRequestURL(c.routes.RequestPageFunc()),
	)

	apiClient, err := client.New(cfg.API, c.routes,
		client.WithHTTPClient(c.httpClient),
		client.WithLogger(logging.ClientLogger(c.loggerProvider)),
	)
	if err != nil {
		return nil, err
	}
	c.client = apiClient

	if err := c.configureWorkflow(); err != nil {
		return nil, err
	}
	c.requests = requests.NewService(c.requestRepo,
		requests.WithClock(c.now),
		requests.WithWorkflowEngine(c.engine),
		requests.WithRequestType(cfg.Curations.RequestType),
		requests.WithModerationRole(cfg.Curations.ModerationRole),
		requests.WithCommentRenderer(markdown.NewRenderer(markdown.DefaultOptions())),
		requests.WithTranslator(c.translator, cfg.I18N.Locale),
		requests.WithTimelinePageSize(cfg.Curations.TimelinePageSize),
		requests.WithLogger(logging.RequestsLogger(c.loggerProvider)),
	)

	handlers, err := curationcmd.NewHandlerSet(c.resolveTarget, c.loggerProvider)
	if err != nil {
		return nil, err
	}
	c.commands = handlers

	logging.ModuleLogger(c.loggerProvider, "curations").Debug("container.configured",
		"api_base_url", cfg.API.BaseURL,
		"overlap", cfg.Polling.Overlap,
		"request_type", cfg.Curations.RequestType,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	provider, err := gologger.NewProvider(gologger.FromRuntime(c.Config.Logging))
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureTranslator() error {
	if c.translator != nil {
		return nil
	}
	catalog, err := i18n.DefaultCatalog()
	if err != nil {
		return err
	}
	c.translator = catalog
	return nil
}

func (c *Container) configureRoutes() error {
	routeConfig := c.Config.Routes.RouteConfig
	if routeConfig == nil {
		routeConfig = runtimeconfig.DefaultRoutes(c.Config.API.BaseURL)
	}
	set, err := routes.New(routeConfig)
	if err != nil {
		return err
	}
	c.routes = set
	return nil
}

func (c *Container) configureWorkflow() error {
	if c.engine != nil {
		return nil
	}
	definitions, err := workflow.CompileDefinitionConfigs(c.Config.Workflow.Definitions)
	if err != nil {
		return err
	}
	c.engine = simple.New(simple.WithClock(c.now), simple.WithDefinitions(definitions...))
	return nil
}

// NewPoller builds a poller for record backed by the API client and keeps it
// in the registry the command handlers resolve against.
func (c *Container) NewPoller(record curation.Record, opts ...poller.Option) (*poller.Poller, error) {
	base := []poller.Option{
		poller.WithPollingConfig(c.Config.Polling),
		poller.WithPresenter(c.presenter),
		poller.WithClock(c.now),
		poller.WithLogger(logging.PollerLogger(c.loggerProvider)),
	}
	if c.tickers != nil {
		base = append(base, poller.WithTickerFactory(c.tickers))
	}
	p, err := poller.New(c.client, record, append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.pollers = append(c.pollers, p)
	c.mu.Unlock()
	return p, nil
}

// ReleasePoller stops p and removes it from the registry.
func (c *Container) ReleasePoller(p *poller.Poller) error {
	if p == nil {
		return ErrPollerNil
	}
	p.Stop()
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, candidate := range c.pollers {
		if candidate == p {
			c.pollers = append(c.pollers[:i], c.pollers[i+1:]...)
			break
		}
	}
	return nil
}

// Poller returns the most recently registered poller tracking recordID.
func (c *Container) Poller(recordID string) (*poller.Poller, bool) {
	if recordID == "" {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := len(c.pollers) - 1; i >= 0; i-- {
		if c.pollers[i].Record().ID == recordID {
			return c.pollers[i], true
		}
	}
	return nil, false
}

func (c *Container) resolveTarget(recordID string) (curationcmd.Target, bool) {
	p, ok := c.Poller(recordID)
	if !ok {
		return nil, false
	}
	return p, true
}

// LoadActor reads the acting user's capabilities from the publishing-data endpoint.
func (c *Container) LoadActor(ctx context.Context) (curation.ActorContext, error) {
	return c.client.PublishingData(ctx)
}

// APIHandler returns a mux serving the reference curations API.
func (c *Container) APIHandler() (nethttp.Handler, error) {
	api := curationshttp.NewCurationsAPI(
		curationshttp.WithRequestService(c.requests),
		curationshttp.WithLinks(c.routes),
		curationshttp.WithPresenter(c.presenter),
		curationshttp.WithActor(c.Config.Server.Actor),
		curationshttp.WithPublishingEdits(c.Config.Curations.AllowPublishingEdits),
		curationshttp.WithAutoSubmit(c.Config.Curations.AutoSubmit),
		curationshttp.WithClock(c.now),
		curationshttp.WithLogger(logging.APILogger(c.loggerProvider)),
	)
	mux := nethttp.NewServeMux()
	if err := api.Register(mux); err != nil {
		return nil, err
	}
	return mux, nil
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

func (c *Container) Translator() interfaces.Translator { return c.translator }

func (c *Container) Routes() *routes.Set { return c.routes }

func (c *Container) Presenter() *curation.Presenter { return c.presenter }

func (c *Container) Client() *client.Client { return c.client }

func (c *Container) RequestService() requests.Service { return c.requests }

func (c *Container) WorkflowEngine() interfaces.WorkflowEngine { return c.engine }

// Commands returns the curation command handlers bound to the poller registry.
func (c *Container) Commands() *curationcmd.HandlerSet { return c.commands }
