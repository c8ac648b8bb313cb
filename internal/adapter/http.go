package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-sync-engine/internal/config"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/internal/utils"
	"github.com/MKhiriev/go-sync-engine/models"
	"github.com/go-resty/resty/v2"
)

const (
	commitPath  = "/api/sync/commit"
	updatesPath = "/api/sync/updates"
	pingPath    = "/api/ping"

	hashHeader    = "HashSHA256"
	traceIDHeader = utils.TraceIDHeader
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	hashKey string

	mu       sync.RWMutex
	token    string
	tokenExp time.Time
	// rejected is set by a 401 and cleared by the next SetToken.
	rejected bool

	connected atomic.Bool
	obsMu     sync.Mutex
	observers []func(connected bool)

	now    func() time.Time
	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of [ServerAdapter].
// It normalises and validates the base URL from adapterCfg.HTTPAddress,
// configures the underlying HTTP client with the resolved base URL and request
// timeout, initialises the shared HMAC hasher pool used for body integrity
// hashes and stores the configured bearer token, if any.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}
	client := utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout)

	if appCfg.HashKey != "" {
		utils.InitHasherPool(appCfg.HashKey)
	}

	h := &httpServerAdapter{client: client, hashKey: appCfg.HashKey, now: time.Now, logger: logger}
	h.connected.Store(true)
	h.SetToken(adapterCfg.AuthToken)
	return h, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed)
// and remembers its expiry when the token is a JWT. Opaque tokens never
// expire on the client side.
func (h *httpServerAdapter) SetToken(token string) {
	token = strings.TrimSpace(token)

	var exp time.Time
	if token != "" {
		var err error
		if exp, err = utils.TokenExpiry(token); err != nil {
			h.logger.Debug().Err(err).Str("func", "*httpServerAdapter.SetToken").Msg("token expiry unknown")
			exp = time.Time{}
		}
	}

	h.mu.Lock()
	h.token = token
	h.tokenExp = exp
	h.rejected = false
	h.mu.Unlock()
}

// Token implements [ServerAdapter].
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// HasValidCredentials implements [ServerAdapter].
func (h *httpServerAdapter) HasValidCredentials() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.token == "" || h.rejected {
		return false
	}
	return h.tokenExp.IsZero() || h.now().Before(h.tokenExp)
}

// IsConnected implements [ServerAdapter].
func (h *httpServerAdapter) IsConnected() bool {
	return h.connected.Load()
}

// OnConnectionChange implements [ServerAdapter].
func (h *httpServerAdapter) OnConnectionChange(fn func(connected bool)) {
	h.obsMu.Lock()
	h.observers = append(h.observers, fn)
	h.obsMu.Unlock()
}

// Commit implements [ServerAdapter]. It POSTs req to /api/sync/commit.
func (h *httpServerAdapter) Commit(ctx context.Context, req models.CommitRequest) (*models.CommitResponse, error) {
	var resp models.CommitResponse
	if err := h.post(ctx, commitPath, req, &resp); err != nil {
		h.logger.Err(err).Str("func", "*httpServerAdapter.Commit").Int("entries", len(req.Entries)).Msg("commit request failed")
		return nil, err
	}

	h.logger.Debug().
		Str("func", "*httpServerAdapter.Commit").
		Int("entries", len(req.Entries)).
		Str("status", resp.ErrorCode.String()).
		Msg("commit sent")
	return &resp, nil
}

// GetUpdates implements [ServerAdapter]. It POSTs req to /api/sync/updates.
func (h *httpServerAdapter) GetUpdates(ctx context.Context, req models.GetUpdatesRequest) (*models.GetUpdatesResponse, error) {
	var resp models.GetUpdatesResponse
	if err := h.post(ctx, updatesPath, req, &resp); err != nil {
		h.logger.Err(err).Str("func", "*httpServerAdapter.GetUpdates").Str("origin", req.Origin.String()).Msg("get updates request failed")
		return nil, err
	}

	h.logger.Debug().
		Str("func", "*httpServerAdapter.GetUpdates").
		Str("origin", req.Origin.String()).
		Int("entries", len(resp.Entries)).
		Int64("changes_remaining", resp.ChangesRemaining).
		Msg("updates received")
	return &resp, nil
}

// Ping implements [ServerAdapter]. It GETs /api/ping.
func (h *httpServerAdapter) Ping(ctx context.Context) error {
	resp, err := h.authedRequest(ctx).Get(pingPath)
	if err != nil {
		return h.requestFailed(err)
	}
	h.setConnected(true)

	return mapHTTPError(resp)
}

// post sends body as JSON with its HMAC in the HashSHA256 header and
// decodes a 2xx answer into out.
func (h *httpServerAdapter) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload)
	if h.hashKey != "" {
		req.SetHeader(hashHeader, utils.HashHex(payload))
	}

	resp, err := req.Post(path)
	if err != nil {
		return h.requestFailed(err)
	}
	h.setConnected(true)

	if err = mapHTTPError(resp); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			h.rejectCredentials()
		}
		return err
	}
	h.refreshToken(resp)

	if err = json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%w: %w: %w", ErrInvalidResponse, models.ServerResponseValidationFailed, err)
	}
	return nil
}

func (h *httpServerAdapter) requestFailed(err error) error {
	mapped := mapRequestError(err)
	if errors.Is(mapped, models.NetworkConnectionUnavailable) {
		h.setConnected(false)
	}
	return mapped
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.Request(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// refreshToken picks up a token rotated by the server.
func (h *httpServerAdapter) refreshToken(resp *resty.Response) {
	header := resp.Header().Get("Authorization")
	if header == "" {
		return
	}
	token, err := utils.ParseBearerToken(header)
	if err != nil {
		h.logger.Warn().Err(err).Str("func", "*httpServerAdapter.refreshToken").Msg("ignoring malformed authorization header")
		return
	}
	if token != h.Token() {
		h.SetToken(token)
	}
}

func (h *httpServerAdapter) rejectCredentials() {
	h.mu.Lock()
	h.rejected = true
	h.mu.Unlock()
}

func (h *httpServerAdapter) setConnected(connected bool) {
	if h.connected.Swap(connected) == connected {
		return
	}

	h.logger.Info().Str("func", "*httpServerAdapter.setConnected").Bool("connected", connected).Msg("connection status changed")

	h.obsMu.Lock()
	observers := append([]func(bool){}, h.observers...)
	h.obsMu.Unlock()

	for _, fn := range observers {
		fn(connected)
	}
}
