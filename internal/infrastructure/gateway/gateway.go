// Package gateway sends JSON requests to the marketplace backend. It attaches
// the session credential, normalises replies and handles 401 responses by
// ending the local session.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taskexchange/taskx/internal/core/domain"
	"github.com/taskexchange/taskx/internal/core/ports"
	"github.com/taskexchange/taskx/internal/infrastructure/metrics"
)

const (
	headerContentType   = "Content-Type"
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-ID"
	mimeJSON            = "application/json"

	// bearerScheme prefixes the token in the Authorization header. The backend
	// rejects raw tokens.
	bearerScheme = "Bearer "
)

// Config wires a Gateway.
type Config struct {
	// BaseURL is prepended verbatim to every request path.
	BaseURL     string
	HTTPClient  *http.Client
	Credentials ports.CredentialStore
	Profile     ports.ProfileCache
	Navigator   ports.Navigator
	LoginPath   string
	Public      domain.PublicPaths
	Logger      zerolog.Logger
}

// Gateway implements ports.Requester.
type Gateway struct {
	baseURL   string
	client    *http.Client
	creds     ports.CredentialStore
	profile   ports.ProfileCache
	nav       ports.Navigator
	loginPath string
	public    domain.PublicPaths
	log       zerolog.Logger
}

var _ ports.Requester = (*Gateway)(nil)

// New returns a Gateway. A nil HTTPClient gets a client without timeout:
// calls run until the context is cancelled or the network gives up.
func New(cfg Config) *Gateway {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &Gateway{
		baseURL:   cfg.BaseURL,
		client:    client,
		creds:     cfg.Credentials,
		profile:   cfg.Profile,
		nav:       cfg.Navigator,
		loginPath: cfg.LoginPath,
		public:    cfg.Public,
		log:       cfg.Logger,
	}
}

// Send performs one request and classifies the reply. Non-2xx replies come
// back as *domain.APIError; a 401 also clears the session and redirects to
// the login page unless the current page is public.
func (g *Gateway) Send(ctx context.Context, r ports.Request) (*ports.Response, error) {
	req, err := g.newRequest(ctx, r)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues(req.Method, "transport_error").Inc()
		return nil, fmt.Errorf("%s %s: %w", req.Method, r.Path, err)
	}
	defer resp.Body.Close()

	body, err := parseBody(resp)
	metrics.GatewayRequestDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
	metrics.GatewayRequestsTotal.WithLabelValues(req.Method, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// An unreadable error body still classifies by status.
		apiErr := &domain.APIError{Status: resp.StatusCode, Message: errorMessage(body, resp.StatusCode)}
		if resp.StatusCode == http.StatusUnauthorized {
			g.endSession(ctx)
		}
		g.log.Debug().
			Str("method", req.Method).
			Str("path", r.Path).
			Int("status", resp.StatusCode).
			Str("request_id", req.Header.Get(headerRequestID)).
			Msg(apiErr.Message)
		return nil, apiErr
	}

	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, r.Path, err)
	}
	return &ports.Response{Status: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// Do sends in as the JSON body and decodes a successful reply into out.
func (g *Gateway) Do(ctx context.Context, method, path string, in, out any) error {
	resp, err := g.Send(ctx, ports.Request{Method: method, Path: path, Body: in})
	if err != nil {
		return err
	}
	if err := resp.Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func (g *Gateway) newRequest(ctx context.Context, r ports.Request) (*http.Request, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	var bodyReader io.Reader
	if r.Body != nil {
		payload, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("%s %s: encode body: %w", method, r.Path, err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+r.Path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("%s %s: build request: %w", method, r.Path, err)
	}

	req.Header.Set(headerContentType, mimeJSON)
	for key, values := range r.Header {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if req.Header.Get(headerRequestID) == "" {
		req.Header.Set(headerRequestID, uuid.NewString())
	}

	token, err := g.creds.Token(ctx)
	if err != nil {
		g.log.Warn().Err(err).Msg("read credential failed, sending anonymously")
	} else if token != "" {
		req.Header.Set(headerAuthorization, bearerScheme+token)
	}

	return req, nil
}

// endSession clears the credential and cached profile, then redirects to
// the login page. Storage failures are logged; the caller still gets the 401.
func (g *Gateway) endSession(ctx context.Context) {
	metrics.GatewayUnauthorizedTotal.Inc()

	if err := g.creds.ClearToken(ctx); err != nil {
		g.log.Error().Err(err).Msg("clear credential after 401")
	}
	if g.profile != nil {
		if err := g.profile.ClearProfile(ctx); err != nil {
			g.log.Error().Err(err).Msg("clear cached profile after 401")
		}
	}

	if g.nav == nil {
		return
	}
	if current := g.nav.Current(); g.public.Match(current) {
		g.log.Debug().Str("page", current).Msg("401 on public page, no redirect")
		return
	}
	g.log.Info().Str("target", g.loginPath).Msg("session rejected by backend, redirecting to login")
	g.nav.Redirect(g.loginPath)
}

// parseBody reads the full reply. JSON media types are kept as-is; anything
// else is wrapped as {"message": "<text>"}.
func parseBody(resp *http.Response) (json.RawMessage, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if isJSON(resp.Header.Get(headerContentType)) {
		if len(bytes.TrimSpace(raw)) == 0 {
			return nil, nil
		}
		if !json.Valid(raw) {
			return nil, errors.New("malformed JSON response")
		}
		return raw, nil
	}

	wrapped, err := json.Marshal(textBody{Message: string(raw)})
	if err != nil {
		return nil, fmt.Errorf("wrap text response: %w", err)
	}
	return wrapped, nil
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == mimeJSON || strings.HasSuffix(mediaType, "+json")
}
