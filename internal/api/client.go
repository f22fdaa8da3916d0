package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rgehrsitz/portasim/internal/catalog"
	"github.com/rgehrsitz/portasim/internal/domain"
	"github.com/rgehrsitz/portasim/internal/parser"
)

// DefaultTimeout bounds every request made by a Client built without an
// explicit http.Client
const DefaultTimeout = 30 * time.Second

// Client calls a running parse/bank service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL. A nil httpClient uses DefaultTimeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Health checks that the service is up
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, "health", http.MethodGet, "/health", nil, nil)
}

// Banks fetches the bank catalog
func (c *Client) Banks(ctx context.Context) ([]domain.Bank, error) {
	var banks []domain.Bank
	if err := c.do(ctx, "list banks", http.MethodGet, "/api/bancos", nil, &banks); err != nil {
		return nil, err
	}
	return banks, nil
}

// Catalog fetches the bank catalog as a Catalog
func (c *Client) Catalog(ctx context.Context) (catalog.Catalog, error) {
	banks, err := c.Banks(ctx)
	if err != nil {
		return catalog.Catalog{}, err
	}
	return catalog.New(banks), nil
}

// UpdateBank creates or replaces a bank in the remote catalog
func (c *Client) UpdateBank(ctx context.Context, bank domain.Bank) (domain.Bank, error) {
	var saved domain.Bank
	path := "/api/bancos/" + url.PathEscape(bank.Code)
	if err := c.do(ctx, "update bank", http.MethodPut, path, bank, &saved); err != nil {
		return domain.Bank{}, err
	}
	return saved, nil
}

// ParseContracts sends text to the remote parser
func (c *Client) ParseContracts(ctx context.Context, text string, rates domain.RateConfig) ([]domain.RawContract, error) {
	req := ParseRequest{
		Texto:             text,
		TaxaNovo:          &rates.RateNew,
		TaxaRefin:         &rates.RateRefin,
		TaxaPortabilidade: &rates.RatePortability,
	}
	var raws []domain.RawContract
	if err := c.do(ctx, "parse contracts", http.MethodPost, "/api/parse-contratos", req, &raws); err != nil {
		return nil, err
	}
	return raws, nil
}

// Records parses text remotely into contract records
func (c *Client) Records(ctx context.Context, text string, rates domain.RateConfig) ([]domain.ContractRecord, error) {
	raws, err := c.ParseContracts(ctx, text, rates)
	if err != nil {
		return nil, err
	}
	return parser.FromRaw(raws), nil
}

// Simulate runs a full simulation remotely
func (c *Client) Simulate(ctx context.Context, req SimulationRequest) (SimulationResponse, error) {
	var resp SimulationResponse
	if err := c.do(ctx, "simulate", http.MethodPost, "/api/simulacao", req, &resp); err != nil {
		return SimulationResponse{}, err
	}
	return resp, nil
}

// Rates fetches the service's stored rates
func (c *Client) Rates(ctx context.Context) (domain.RateConfig, error) {
	var rates domain.RateConfig
	if err := c.do(ctx, "get rates", http.MethodGet, "/api/taxas", nil, &rates); err != nil {
		return domain.RateConfig{}, err
	}
	return rates, nil
}

// SaveRates replaces the service's stored rates
func (c *Client) SaveRates(ctx context.Context, rates domain.RateConfig) error {
	return c.do(ctx, "save rates", http.MethodPut, "/api/taxas", rates, nil)
}

func (c *Client) do(ctx context.Context, operation, method, path string, body, out any) error {
	endpoint := c.baseURL + path
	fail := func(message string, cause error) error {
		return &TransportError{Operation: operation, URL: endpoint, Message: message, Cause: cause}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fail("failed to encode request", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fail("failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail("request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fail("failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		terr := &TransportError{Operation: operation, URL: endpoint, StatusCode: resp.StatusCode}
		var apiErr ErrorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			terr.Message = apiErr.Error
			if apiErr.Message != "" {
				terr.Message += ": " + apiErr.Message
			}
		} else {
			terr.Message = strings.TrimSpace(string(data))
		}
		return terr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fail(fmt.Sprintf("failed to decode response (%d bytes)", len(data)), err)
	}
	return nil
}
