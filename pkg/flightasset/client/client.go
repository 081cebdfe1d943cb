// Package client is the resource-access layer for the Flight Center asset
// API. It speaks JSON:API over HTTP, walks paginated collections, resolves
// and mutates relationships and models the container hierarchy.
package client

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/time/rate"

	"evalgo.org/flightasset/models"
)

// Config is everything the client needs to reach the API. It is passed
// explicitly to New; the client reads no global state.
type Config struct {
	BaseURL     string `validate:"required,url"`
	APIPrefix   string
	Token       string
	ComponentID string

	// PageSize is sent as page[size] on the first page of every collection.
	// Zero leaves the page size to the server.
	PageSize int `validate:"gte=0,lte=1000"`

	Timeout           time.Duration `validate:"gte=0"`
	RequestsPerSecond float64       `validate:"gte=0"`
	UserAgent         string
}

// Option customises a Client.
type Option func(*Client)

// WithLogger sets the diagnostic logger.
func WithLogger(logger hclog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient replaces the HTTP client. The configured timeout is not
// applied to a replacement.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithClock replaces the clock used to check token expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// Client is a connection to the asset API.
type Client struct {
	cfg        Config
	base       *url.URL
	httpClient *http.Client
	logger     hclog.Logger
	limiter    *rate.Limiter
	now        func() time.Time

	Components *Service[*models.Component]
	Assets     *Service[*models.Asset]
	Groups     *Service[*models.AssetGroup]
	Categories *Service[*models.Category]
	Containers *Service[*models.Container]
}

var validate = validator.New()

// New is the connection factory.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid client configuration: %w", err)
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "flight-asset"
	}

	c := &Client{
		cfg:        cfg,
		base:       base,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     hclog.NewNullLogger(),
		now:        time.Now,
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Components = newService(c, models.ComponentKind, models.NewComponent)
	c.Assets = newService(c, models.AssetKind, models.NewAsset,
		models.RelAssetGroup, models.RelParentContainer, models.RelComponent)
	c.Groups = newService(c, models.GroupKind, models.NewAssetGroup,
		models.RelCategory)
	c.Categories = newService(c, models.CategoryKind, models.NewCategory)
	c.Containers = newService(c, models.ContainerKind, models.NewContainer,
		models.RelParentContainer)
	return c, nil
}

// Config returns the configuration the client was built with.
func (c *Client) Config() Config {
	return c.cfg
}

// Component returns a reference to the configured component.
func (c *Client) Component() *models.Component {
	return models.ComponentRef(c.cfg.ComponentID)
}
