package pathao

import (
	"context"
	"strings"
	"time"
	
	"golang.org/x/sync/singleflight"
	"resty.dev/v3"
)

const (
	// DefaultBaseURL is the base URL for the Pathao sandbox API
	DefaultBaseURL = "https://courier-api-sandbox.pathao.com"
	
	DefaultRequestTimeout = 30 * time.Second
	
	// A cached token is reused only while it stays valid for longer than this.
	tokenExpiryMargin = 5 * time.Minute
	
	// Used when the issue-token response omits expires_in (one day).
	defaultTokenLifetime = 86400
	
	grantTypePassword = "password"
)

const (
	issueTokenPath = "/aladdin/api/v1/issue-token"
	cityListPath   = "/aladdin/api/v1/city-list"
	storesPath     = "/aladdin/api/v1/stores"
	pricePlanPath  = "/aladdin/api/v1/merchant/price-plan"
	ordersPath     = "/aladdin/api/v1/orders"
)

// ICourierProvider is the surface of the Pathao courier consumed by the rest of the app.
type ICourierProvider interface {
	Authenticate(ctx context.Context) (string, error)
	Cities(ctx context.Context) ([]City, error)
	Zones(ctx context.Context, cityID int64) ([]Zone, error)
	Areas(ctx context.Context, zoneID int64) ([]Area, error)
	Stores(ctx context.Context) ([]Store, error)
	CalculatePrice(ctx context.Context, arg PriceRequest) (*PriceQuote, error)
	CreateOrder(ctx context.Context, arg OrderRequest) (*CreateOrderResponse, error)
	TrackOrder(ctx context.Context, consignmentID string) (*OrderInfo, error)
}

// Config holds the merchant credentials used to talk to Pathao.
type Config struct {
	ClientID       string
	ClientSecret   string
	Username       string
	Password       string
	BaseURL        string
	StoreID        int64 // 0 means no default store
	RequestTimeout time.Duration
}

// Client is a Pathao merchant API client. It caches the bearer token
// and is safe for concurrent use.
type Client struct {
	config     Config
	httpClient *resty.Client
	tokens     TokenStore
	group      singleflight.Group
	now        func() time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTokenStore replaces the in-memory token cache.
func WithTokenStore(store TokenStore) ClientOption {
	return func(c *Client) {
		c.tokens = store
	}
}

// WithClock overrides the clock used for token expiry.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// WithRestyClient lets the caller share an existing resty client.
func WithRestyClient(rc *resty.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = rc
	}
}

func NewClient(config Config, opts ...ClientOption) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = DefaultRequestTimeout
	}
	
	c := &Client{
		config: config,
		tokens: newMemoryTokenStore(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	
	if c.httpClient == nil {
		c.httpClient = resty.New()
	}
	c.httpClient.SetTimeout(config.RequestTimeout)
	
	return c
}

// Config returns a copy of the client configuration.
func (c *Client) Config() Config {
	return c.config
}

// Close releases the underlying HTTP resources.
func (c *Client) Close() error {
	return c.httpClient.Close()
}

func (c *Client) storeID(override int64) int64 {
	if override != 0 {
		return override
	}
	return c.config.StoreID
}

var _ ICourierProvider = (*Client)(nil)
