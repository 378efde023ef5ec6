package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"karma-light/internal/config"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// Warehouse is one Nova Poshta pickup point offered to the customer as a
// delivery-point token at checkout.
type Warehouse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type apiRequest struct {
	APIKey           string         `json:"apiKey"`
	ModelName        string         `json:"modelName"`
	CalledMethod     string         `json:"calledMethod"`
	MethodProperties map[string]any `json:"methodProperties"`
}

type settlementsResponse struct {
	Success bool `json:"success"`
	Data    []struct {
		Addresses []struct {
			DeliveryCity string `json:"DeliveryCity"`
		} `json:"Addresses"`
	} `json:"data"`
}

type warehousesResponse struct {
	Success bool `json:"success"`
	Data    []struct {
		Ref         string `json:"Ref"`
		Description string `json:"Description"`
	} `json:"data"`
}

// Client looks up Nova Poshta warehouses for a city. All upstream calls run
// behind a circuit breaker so a degraded carrier API cannot pile up slow
// requests; callers treat any error as "no warehouses right now".
type Client struct {
	httpClient *http.Client
	cfg        config.NovaPoshtaConfig
	breaker    *gobreaker.CircuitBreaker[[]Warehouse]
	logger     *zap.Logger
}

// NewClient creates a Client with a breaker that opens after five
// consecutive upstream failures.
func NewClient(cfg config.NovaPoshtaConfig, logger *zap.Logger) *Client {
	settings := gobreaker.Settings{
		Name:    "novaposhta",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Delivery API circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cfg:        cfg,
		breaker:    gobreaker.NewCircuitBreaker[[]Warehouse](settings),
		logger:     logger,
	}
}

// Warehouses returns the pickup points for a city. The lookup is a two-step
// upstream conversation: resolve the city to a settlement reference, then
// list that settlement's warehouses.
func (c *Client) Warehouses(ctx context.Context, city string) ([]Warehouse, error) {
	return c.breaker.Execute(func() ([]Warehouse, error) {
		cityRef, err := c.searchSettlement(ctx, city)
		if err != nil {
			return nil, err
		}
		if cityRef == "" {
			return []Warehouse{}, nil
		}
		return c.listWarehouses(ctx, cityRef)
	})
}

func (c *Client) searchSettlement(ctx context.Context, city string) (string, error) {
	var resp settlementsResponse
	err := c.call(ctx, apiRequest{
		APIKey:       c.cfg.APIKey,
		ModelName:    "AddressGeneral",
		CalledMethod: "searchSettlements",
		MethodProperties: map[string]any{
			"CityName": city,
			"Limit":    50,
		},
	}, &resp)
	if err != nil {
		return "", err
	}

	if !resp.Success || len(resp.Data) == 0 || len(resp.Data[0].Addresses) == 0 {
		return "", nil
	}

	return resp.Data[0].Addresses[0].DeliveryCity, nil
}

func (c *Client) listWarehouses(ctx context.Context, cityRef string) ([]Warehouse, error) {
	var resp warehousesResponse
	err := c.call(ctx, apiRequest{
		APIKey:       c.cfg.APIKey,
		ModelName:    "AddressGeneral",
		CalledMethod: "getWarehouses",
		MethodProperties: map[string]any{
			"CityRef": cityRef,
			"Limit":   200,
		},
	}, &resp)
	if err != nil {
		return nil, err
	}

	if !resp.Success {
		return []Warehouse{}, nil
	}

	warehouses := make([]Warehouse, 0, len(resp.Data))
	for _, w := range resp.Data {
		warehouses = append(warehouses, Warehouse{ID: w.Ref, Name: w.Description})
	}

	return warehouses, nil
}

func (c *Client) call(ctx context.Context, payload apiRequest, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal delivery API request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build delivery API request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delivery API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("delivery API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode delivery API response: %w", err)
	}

	return nil
}
