package elprisetjustnu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/angas/spotslots-go/types"
)

const defaultBaseURL = "https://www.elprisetjustnu.se/api/v1/prices"

type rawPrice struct {
	SEKPerKWh float64   `json:"SEK_per_kWh"`
	EURPerKWh float64   `json:"EUR_per_kWh"`
	EXR       float64   `json:"EXR"`
	TimeStart time.Time `json:"time_start"`
	TimeEnd   time.Time `json:"time_end"`
}

type ElPrisetJustNu struct {
	baseURL string
	client  *http.Client
}

func New() ElPrisetJustNu {
	return ElPrisetJustNu{baseURL: defaultBaseURL, client: &http.Client{}}
}

// NewWithBaseURL points the client at an alternative endpoint, used in tests.
func NewWithBaseURL(baseURL string) ElPrisetJustNu {
	return ElPrisetJustNu{baseURL: baseURL, client: &http.Client{}}
}

// FetchDay fetches the published prices for one calendar day in one zone.
// A 404 response means the day's prices are not released yet and is reported
// as types.ErrNotYetPublished rather than a failure.
func (e ElPrisetJustNu) FetchDay(ctx context.Context, date time.Time, zone types.Zone) ([]types.RawPricePeriod, error) {
	url := fmt.Sprintf("%s/%d/%02d-%02d_%s.json",
		e.baseURL, date.Year(), int(date.Month()), date.Day(), zone)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, types.ErrNotYetPublished
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var rawPrices []rawPrice
	if err := json.NewDecoder(resp.Body).Decode(&rawPrices); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	periods := make([]types.RawPricePeriod, 0, len(rawPrices))
	for _, raw := range rawPrices {
		periods = append(periods, types.RawPricePeriod{
			TimeStart: raw.TimeStart,
			SEKPerKWh: raw.SEKPerKWh,
		})
	}

	return periods, nil
}
