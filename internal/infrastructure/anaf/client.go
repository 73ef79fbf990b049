// Package anaf reads yearly balance-sheet indicators from the public ANAF
// web service.
package anaf

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"onghub/internal/config"
	"onghub/internal/core/types"
	"onghub/internal/domain/organization"
)

var tracer = otel.Tracer("onghub/anaf")

// maxBody caps the response size read from the service.
const maxBody = 1 << 20

var _ organization.Registry = (*Client)(nil)

// Client calls the ANAF balance-sheet endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client. A nil httpClient uses one with cfg.Timeout.
func New(cfg config.ANAFConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{baseURL: strings.TrimRight(cfg.BaseURL, "/"), http: httpClient}
}

type indicator struct {
	Code  string          `json:"indicator"`
	Value json.RawMessage `json:"val_indicator"`
	Label string          `json:"val_den_indicator"`
}

type response struct {
	Year       int         `json:"an"`
	CUI        json.Number `json:"cui"`
	Name       string      `json:"deni"`
	Indicators []indicator `json:"i"`
}

// GetFinancialInformation returns every indicator reported for cui in year.
// An unknown tax id or a year without filings returns an empty slice.
func (c *Client) GetFinancialInformation(ctx context.Context, cui string, year int) ([]organization.Indicator, error) {
	ctx, span := tracer.Start(ctx, "anaf.GetFinancialInformation")
	defer span.End()
	span.SetAttributes(attribute.String("anaf.cui", cui), attribute.Int("anaf.year", year))

	out, err := c.fetch(ctx, cui, year)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("anaf.indicators", len(out)))
	return out, nil
}

func (c *Client) fetch(ctx context.Context, cui string, year int) ([]organization.Indicator, error) {
	q := url.Values{}
	q.Set("an", strconv.Itoa(year))
	q.Set("cui", normalizeCUI(cui))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build anaf request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call anaf: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read anaf response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return []organization.Indicator{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("anaf returned %d: %s", resp.StatusCode, truncate(body, 200))
	}

	return parse(body)
}

// parse decodes the service answer. Answers without indicators (the service
// replies with a message object for unknown tax ids) yield an empty slice.
func parse(body []byte) ([]organization.Indicator, error) {
	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decode anaf response: %w", err)
	}

	out := make([]organization.Indicator, 0, len(r.Indicators))
	for _, ind := range r.Indicators {
		v, err := types.NewMoneyFromString(strings.Trim(string(ind.Value), `"`))
		if err != nil {
			continue
		}
		out = append(out, organization.Indicator{Code: ind.Code, Value: v})
	}
	return out, nil
}

// normalizeCUI strips the RO prefix and blanks.
func normalizeCUI(cui string) string {
	cui = strings.ToUpper(strings.ReplaceAll(cui, " ", ""))
	return strings.TrimPrefix(cui, "RO")
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
