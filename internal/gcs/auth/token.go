package auth

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// defaultTokenURL is Google's OAuth2 token endpoint.
	defaultTokenURL = "https://oauth2.googleapis.com/token"

	// grantType is the JWT-bearer assertion grant URN.
	grantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"

	// scopeReadWrite grants read/write access to bucket objects.
	scopeReadWrite = "https://www.googleapis.com/auth/devstorage.read_write"

	// assertionLifetime is the requested token lifetime. One hour is the
	// protocol maximum; the server rejects anything longer.
	assertionLifetime = time.Hour

	// refreshMargin is how close to expiry we consider a token stale.
	refreshMargin = time.Minute

	// exchangeTimeout bounds one token-exchange round trip.
	exchangeTimeout = 10 * time.Second
)

// ExchangeError reports a failed token exchange. Status carries the HTTP
// status line when the endpoint answered; Err carries the underlying cause.
type ExchangeError struct {
	Status string
	Err    error
}

func (e *ExchangeError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("token exchange failed: %s", e.Status)
	}
	return fmt.Sprintf("token exchange failed: %v", e.Err)
}

func (e *ExchangeError) Unwrap() error { return e.Err }

// exchangeFunc is the signature for token exchange, allowing test injection.
type exchangeFunc func() (token string, expiry time.Time, err error)

// TokenProvider mints and caches service-account bearer tokens.
// Thread-safe via sync.Mutex; a refresh replaces the whole token value.
type TokenProvider struct {
	mu       sync.Mutex
	token    string
	expiry   time.Time
	exchange exchangeFunc
}

// ProviderOption configures a TokenProvider.
type ProviderOption func(*providerConfig)

type providerConfig struct {
	tokenURL   string
	httpClient *http.Client
}

// WithTokenURL overrides the token endpoint.
func WithTokenURL(u string) ProviderOption {
	return func(c *providerConfig) { c.tokenURL = u }
}

// WithHTTPClient overrides the HTTP client used for token exchange.
func WithHTTPClient(hc *http.Client) ProviderOption {
	return func(c *providerConfig) { c.httpClient = hc }
}

// NewTokenProvider creates a TokenProvider that exchanges signed JWT
// assertions for access tokens on behalf of creds.
func NewTokenProvider(creds *Credentials, opts ...ProviderOption) *TokenProvider {
	cfg := &providerConfig{
		tokenURL:   defaultTokenURL,
		httpClient: &http.Client{Timeout: exchangeTimeout},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	tp := &TokenProvider{}
	tp.exchange = func() (string, time.Time, error) {
		return mintToken(creds, cfg.tokenURL, cfg.httpClient)
	}
	return tp
}

// Token returns the cached access token if it has more than a minute until
// expiry, otherwise performs one exchange and caches the replacement. A
// failed exchange is terminal; there is no retry.
func (tp *TokenProvider) Token() (string, error) {
	tp.mu.Lock()
	defer tp.mu.Unlock()

	if tp.token != "" && time.Until(tp.expiry) > refreshMargin {
		return tp.token, nil
	}

	token, expiry, err := tp.exchange()
	if err != nil {
		return "", err
	}

	tp.token = token
	tp.expiry = expiry
	return tp.token, nil
}

// mintToken signs a JWT assertion and exchanges it for an access token.
func mintToken(creds *Credentials, tokenURL string, hc *http.Client) (string, time.Time, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   creds.Email,
		"scope": scopeReadWrite,
		"aud":   tokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(assertionLifetime).Unix(),
	}
	assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(creds.Key)
	if err != nil {
		return "", time.Time{}, &ExchangeError{Err: fmt.Errorf("signing assertion: %w", err)}
	}

	form := url.Values{
		"grant_type": {grantType},
		"assertion":  {assertion},
	}
	resp, err := hc.Post(tokenURL, "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", time.Time{}, &ExchangeError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return "", time.Time{}, &ExchangeError{Status: resp.Status}
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", time.Time{}, &ExchangeError{Err: fmt.Errorf("decoding response: %w", err)}
	}
	if body.AccessToken == "" {
		return "", time.Time{}, &ExchangeError{Err: fmt.Errorf("response has no access_token")}
	}

	return body.AccessToken, now.Add(time.Duration(body.ExpiresIn) * time.Second), nil
}

// WrapTransport returns a RoundTripper that injects a Bearer token on each
// request, refreshing first when the cached token is stale.
func (tp *TokenProvider) WrapTransport(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		rt = http.DefaultTransport
	}
	return &tokenTransport{base: rt, provider: tp}
}

// tokenTransport is an http.RoundTripper that injects the bearer token.
type tokenTransport struct {
	base     http.RoundTripper
	provider *TokenProvider
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.provider.Token()
	if err != nil {
		return nil, fmt.Errorf("getting bearer token: %w", err)
	}

	// Clone the request to avoid mutating the original.
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+token)

	return t.base.RoundTrip(req)
}
