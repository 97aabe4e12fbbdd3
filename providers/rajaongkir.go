package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/caesariomj/jogjaelectrik-sub000/models"
)

// RajaOngkirGateway implements CourierGateway against a RajaOngkir-compatible
// rate API.
type RajaOngkirGateway struct {
	baseURL      string
	apiKey       string
	originCityID string
	httpClient   *http.Client
}

// NewRajaOngkirGateway creates a new RajaOngkirGateway. originCityID is the
// warehouse city all shipments depart from.
func NewRajaOngkirGateway(baseURL, apiKey, originCityID string) *RajaOngkirGateway {
	return &RajaOngkirGateway{
		baseURL:      baseURL,
		apiKey:       apiKey,
		originCityID: originCityID,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ---- RajaOngkir API request/response structs ----

type rajaOngkirCostRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Weight      int    `json:"weight"` // grams
	Courier     string `json:"courier"`
}

type rajaOngkirCostValue struct {
	Value int64  `json:"value"`
	Etd   string `json:"etd"`
	Note  string `json:"note"`
}

type rajaOngkirService struct {
	Service     string                `json:"service"`
	Description string                `json:"description"`
	Cost        []rajaOngkirCostValue `json:"cost"`
}

type rajaOngkirResult struct {
	Code  string              `json:"code"`
	Name  string              `json:"name"`
	Costs []rajaOngkirService `json:"costs"`
}

type rajaOngkirCostResponse struct {
	Rajaongkir struct {
		Status struct {
			Code        int    `json:"code"`
			Description string `json:"description"`
		} `json:"status"`
		Results []rajaOngkirResult `json:"results"`
	} `json:"rajaongkir"`
}

// ---- CourierGateway implementation ----

// Quote fetches the courier's services and costs for the destination.
func (g *RajaOngkirGateway) Quote(ctx context.Context, destinationCityID string, weightGrams int, courier string) ([]models.RateOption, error) {
	reqBody := rajaOngkirCostRequest{
		Origin:      g.originCityID,
		Destination: destinationCityID,
		Weight:      weightGrams,
		Courier:     courier,
	}

	var resp rajaOngkirCostResponse
	if err := g.doRequest(ctx, http.MethodPost, "/cost", reqBody, &resp); err != nil {
		return nil, fmt.Errorf("rajaongkir Quote: %w", err)
	}

	if resp.Rajaongkir.Status.Code != 200 {
		return nil, fmt.Errorf("rajaongkir Quote: status %d: %s",
			resp.Rajaongkir.Status.Code, resp.Rajaongkir.Status.Description)
	}

	var options []models.RateOption
	for _, result := range resp.Rajaongkir.Results {
		for _, svc := range result.Costs {
			if len(svc.Cost) == 0 {
				continue
			}
			options = append(options, models.RateOption{
				Courier:     result.Code,
				Service:     svc.Service,
				Description: svc.Description,
				Cost:        svc.Cost[0].Value,
				Etd:         svc.Cost[0].Etd,
			})
		}
	}
	return options, nil
}

// ---- HTTP helper ----

func (g *RajaOngkirGateway) doRequest(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("key", g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("rate API error (status %d): %s", resp.StatusCode, string(respBytes))
	}

	if out != nil {
		if err := json.Unmarshal(respBytes, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
