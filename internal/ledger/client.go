package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"ledger_dashboard/internal/app"
	"ledger_dashboard/internal/config"
	"ledger_dashboard/internal/domain/filter"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// CallRecorder receives one RecordCall per completed request
type CallRecorder interface {
	RecordCall(endpoint string)
}

// Client is the authenticated JSON fetcher for the ledger backend
type Client struct {
	baseURL      string
	token        string
	client       *http.Client
	limiter      *rate.Limiter
	recorder     CallRecorder
	apiCallCount int64
	apiCallMutex sync.Mutex
}

// NewClient creates a client for the backend at baseURL. token, if set, is
// sent as a bearer credential.
func NewClient(baseURL, token string, transport config.TransportConfig) *Client {
	transport = transport.Normalize()
	return &Client{
		baseURL: baseURL,
		token:   token,
		client: &http.Client{
			Timeout: transport.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(transport.RequestsPerSecond), transport.Burst),
	}
}

// WithRecorder attaches a per-endpoint call recorder
func (c *Client) WithRecorder(recorder CallRecorder) *Client {
	c.recorder = recorder
	return c
}

// IncrementAPICall safely increments the API call counter
func (c *Client) IncrementAPICall() {
	c.apiCallMutex.Lock()
	c.apiCallCount++
	c.apiCallMutex.Unlock()
}

// GetAPICallCount returns the current API call count
func (c *Client) GetAPICallCount() int64 {
	c.apiCallMutex.Lock()
	defer c.apiCallMutex.Unlock()
	return c.apiCallCount
}

// ResetAPICallCount resets the API call counter to zero
func (c *Client) ResetAPICallCount() {
	c.apiCallMutex.Lock()
	c.apiCallCount = 0
	c.apiCallMutex.Unlock()
}

// makeAPIRequest creates and executes an authenticated HTTP GET request
func (c *Client) makeAPIRequest(ctx context.Context, endpoint string, params url.Values) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	u := c.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Debug().
			Err(err).
			Str("url", u).
			Str("request_id", requestID).
			Msg("API request failed")
		return nil, fmt.Errorf("failed to make request: %w", err)
	}

	c.IncrementAPICall()
	if c.recorder != nil {
		c.recorder.RecordCall(endpoint)
	}
	return resp, nil
}

// handleAPIResponse processes the HTTP response and returns the body bytes
func (c *Client) handleAPIResponse(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

// getJSON performs a GET on endpoint and decodes the body into out
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	resp, err := c.makeAPIRequest(ctx, endpoint, params)
	if err != nil {
		return err
	}

	body, err := c.handleAPIResponse(resp)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// GetTransactions fetches one page of the ledger for query
func (c *Client) GetTransactions(ctx context.Context, query filter.Query) (*app.PageResult, error) {
	log.Debug().
		Str("player", query.Player.String()).
		Int("page", query.Page).
		Bool("ascending", query.Sort == filter.Ascending).
		Time("anchor", query.TimeAnchor).
		Msg("Fetching transactions")

	var result app.PageResult
	if err := c.getJSON(ctx, "/transactions", query.Values(), &result); err != nil {
		return nil, err
	}

	log.Debug().
		Int("page", query.Page).
		Int("transactions_count", len(result.Transactions)).
		Int("total_count", result.TotalCount).
		Msg("Successfully fetched transactions")

	return &result, nil
}

// GetPlayerIDs fetches every known player id and display name
func (c *Client) GetPlayerIDs(ctx context.Context) ([]app.PlayerID, error) {
	var players []app.PlayerID
	if err := c.getJSON(ctx, "/player-ids", nil, &players); err != nil {
		return nil, err
	}

	log.Debug().Int("players", len(players)).Msg("Successfully fetched player ids")
	return players, nil
}

// GetServerBalance fetches the flat [timestamp, trackedPlayers, balance] series for month
func (c *Client) GetServerBalance(ctx context.Context, month int) ([]float64, error) {
	params := url.Values{}
	params.Set("month", strconv.Itoa(month))

	var raw []float64
	if err := c.getJSON(ctx, "/server", params, &raw); err != nil {
		return nil, err
	}

	log.Debug().
		Int("month", month).
		Int("values", len(raw)).
		Msg("Successfully fetched server balance")
	return raw, nil
}
