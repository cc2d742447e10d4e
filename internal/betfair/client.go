package betfair

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	bettingURL = "https://api.betfair.com/exchange/betting/rest/v1.0/"
	loginURL   = "https://identitysso-cert.betfair.com/api/certlogin"

	// Exchange data request limits are generous; 10/sec keeps the bot
	// far inside them even with one catalogue + one book call per market.
	requestsPerSecond = 10
	requestTimeout    = 15 * time.Second
	maxRetries        = 3

	// soccerEventTypeID is Betfair's event type id for football.
	soccerEventTypeID = "1"

	invalidSessionCode = "INVALID_SESSION_INFORMATION"
)

// Config holds the credentials and scope for the exchange client.
type Config struct {
	AppKey   string
	Username string
	Password string

	// CertFile/KeyFile are the client certificate pair registered with
	// the exchange for non-interactive login.
	CertFile string
	KeyFile  string

	// Countries restricts listEvents to the given market countries.
	Countries []string
}

// Client talks to the exchange's betting API. It logs in on construction
// and transparently re-authenticates once when the session expires; a call
// that still fails after re-login returns its error and the caller treats
// it as no data for this cycle.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cfg        Config

	mu      sync.Mutex
	session string
}

// NewClient builds a client and performs the initial certificate login.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.AppKey == "" || cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("exchange credentials are incomplete")
	}

	cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("loading client certificate: %w", err)
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{Certificates: []tls.Certificate{cert}},
			},
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		cfg:     cfg,
	}

	if err := c.login(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// login performs the certificate login and stores the session token.
func (c *Client) login(ctx context.Context) error {
	form := url.Values{}
	form.Set("username", c.cfg.Username)
	form.Set("password", c.cfg.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating login request: %w", err)
	}
	req.Header.Set("X-Application", c.cfg.AppKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading login response: %w", err)
	}

	var lr loginResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return fmt.Errorf("parsing login response: %w", err)
	}
	if lr.LoginStatus != "SUCCESS" || lr.SessionToken == "" {
		return fmt.Errorf("login refused: %s", lr.LoginStatus)
	}

	c.mu.Lock()
	c.session = lr.SessionToken
	c.mu.Unlock()
	return nil
}

func (c *Client) sessionToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// invoke posts a request to one betting API method and decodes the
// response into out. Transient failures (429, 5xx) are retried with
// backoff; an expired session triggers exactly one re-login.
func (c *Client) invoke(ctx context.Context, method string, params, out any) error {
	payload, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", method, err)
	}

	reloggedIn := false
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, bettingURL+method+"/", bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("creating %s request: %w", method, err)
		}
		req.Header.Set("X-Application", c.cfg.AppKey)
		req.Header.Set("X-Authentication", c.sessionToken())
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(backoff(attempt))
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("reading %s response: %w", method, err)
			time.Sleep(backoff(attempt))
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("parsing %s response: %w", method, err)
			}
			return nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("%s: status %d", method, resp.StatusCode)
			time.Sleep(backoff(attempt))
			continue

		default:
			var fault apiError
			if json.Unmarshal(body, &fault) == nil &&
				fault.Detail.APINGException.ErrorCode == invalidSessionCode && !reloggedIn {
				reloggedIn = true
				if err := c.login(ctx); err != nil {
					return fmt.Errorf("%s: re-login after expired session: %w", method, err)
				}
				continue
			}
			return fmt.Errorf("%s: status %d: %s", method, resp.StatusCode, string(body))
		}
	}

	return fmt.Errorf("%s: max retries exceeded: %w", method, lastErr)
}

func backoff(attempt int) time.Duration {
	return time.Duration(1<<attempt) * 100 * time.Millisecond
}
