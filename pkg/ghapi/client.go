package ghapi

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/telekom/ghlogin/pkg/hostaddress"
	"github.com/telekom/ghlogin/pkg/keychain"
	"github.com/telekom/ghlogin/pkg/version"
)

const (
	mediaType = "application/vnd.github+json"
	otpHeader = "X-GitHub-OTP"
)

type Client struct {
	http      *resty.Client
	host      hostaddress.HostAddress
	baseURL   string
	token     string
	store     keychain.Store
	limiter   *rate.Limiter
	userAgent string
	log       *zap.SugaredLogger
}

type Option func(*Client) error

func New(opts ...Option) (*Client, error) {
	c := &Client{
		http:      resty.New().SetTimeout(30 * time.Second),
		userAgent: version.UserAgent(),
		log:       zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.baseURL == "" {
		return nil, errors.New("host is required")
	}
	c.http.SetBaseURL(c.baseURL)
	c.http.SetLogger(c.log)
	c.http.SetHeader("Accept", mediaType)
	if c.userAgent != "" {
		c.http.SetHeader("User-Agent", c.userAgent)
	}
	return c, nil
}

// WithHost targets the API of host.
func WithHost(host hostaddress.HostAddress) Option {
	return func(c *Client) error {
		if host.IsZero() {
			return errors.New("host is required")
		}
		c.host = host
		if c.baseURL == "" {
			c.baseURL = host.APIBaseURL()
		}
		return nil
	}
}

// WithServer overrides the API base URL derived from the host.
func WithServer(server string) Option {
	return func(c *Client) error {
		if server == "" {
			return errors.New("server is required")
		}
		parsed, err := url.Parse(server)
		if err != nil {
			return fmt.Errorf("invalid server: %w", err)
		}
		c.baseURL = strings.TrimRight(parsed.String(), "/") + "/"
		return nil
	}
}

// WithToken authenticates every request with a fixed bearer token.
func WithToken(token string) Option {
	return func(c *Client) error {
		c.token = token
		return nil
	}
}

// WithKeychain authenticates every request with whatever credentials the
// store holds for the client's host at the time of the request.
func WithKeychain(store keychain.Store) Option {
	return func(c *Client) error {
		c.store = store
		return nil
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) error {
		c.userAgent = userAgent
		return nil
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) error {
		if timeout <= 0 {
			return fmt.Errorf("invalid timeout: %s", timeout)
		}
		c.http.SetTimeout(timeout)
		return nil
	}
}

func WithTLSConfig(caFile string, insecureSkipTLSVerify bool) Option {
	return func(c *Client) error {
		tlsConfig, err := LoadTLSConfig(caFile, insecureSkipTLSVerify)
		if err != nil {
			return err
		}
		c.http.SetTLSClientConfig(tlsConfig)
		return nil
	}
}

// WithRateLimit caps outgoing requests per second. Zero disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) error {
		if perSecond <= 0 {
			c.limiter = nil
			return nil
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		return nil
	}
}

func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Client) error {
		if log != nil {
			c.log = log
		}
		return nil
	}
}

// Host is the address the client was configured with; zero when only WithServer was used.
func (c *Client) Host() hostaddress.HostAddress {
	return c.host
}

// LoadTLSConfig returns a TLS 1.2+ config. A caFile replaces the system roots.
func LoadTLSConfig(caFile string, insecure bool) (*tls.Config, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12, InsecureSkipVerify: insecure}
	if caFile == "" {
		return tlsConfig, nil
	}
	data, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if ok := pool.AppendCertsFromPEM(data); !ok {
		return nil, errors.New("failed to parse CA file")
	}
	tlsConfig.RootCAs = pool
	return tlsConfig, nil
}

func (c *Client) authenticate(req *resty.Request) error {
	if c.token != "" {
		req.SetAuthToken(c.token)
		return nil
	}
	if c.store == nil || c.host.IsZero() {
		return nil
	}
	creds, ok, err := c.store.Load(c.host)
	if err != nil {
		return err
	}
	if ok {
		req.SetBasicAuth(creds.Username, creds.Secret)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint, otp string, body, out any) (*resty.Response, error) {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	if otp != "" {
		req.SetHeader(otpHeader, otp)
	}
	if err := c.authenticate(req); err != nil {
		return nil, err
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	resp, err := req.Execute(method, strings.TrimLeft(endpoint, "/"))
	if err != nil {
		return nil, err
	}
	c.log.Debugw("GitHub API request",
		"method", method,
		"endpoint", endpoint,
		"status", resp.StatusCode(),
		"otp", otp != "",
	)
	if resp.IsError() {
		return resp, decodeError(resp, otp != "")
	}
	return resp, nil
}
