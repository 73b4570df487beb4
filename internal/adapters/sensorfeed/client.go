package sensorfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
	"waste-collection-service/internal/domain"
	"waste-collection-service/internal/platform/obs"
)

// Reading is the wire form of one sensor report.
type Reading struct {
	SensorID          string     `json:"sensor_id,omitempty"`
	BinID             string     `json:"bin_id"`
	FillLevel         *float64   `json:"fill_level"`
	Latitude          *float64   `json:"latitude,omitempty"`
	Longitude         *float64   `json:"longitude,omitempty"`
	OrganicPercentage *float64   `json:"organic_percentage,omitempty"`
	PlasticPercentage *float64   `json:"plastic_percentage,omitempty"`
	MetalPercentage   *float64   `json:"metal_percentage,omitempty"`
	Timestamp         *time.Time `json:"timestamp,omitempty"`
}

type feedResponse struct {
	Results []Reading `json:"results"`
}

// Client polls an upstream sensor-data endpoint that answers {"results": [...]}.
//
// It implements ports.SensorFeed and is safe for concurrent use.
type Client struct {
	session     *http.Client
	url         string
	token       string
	maxAttempts int
	backoff     time.Duration
}

type Option func(*Client)

// Send a bearer token with every request.
func WithToken(token string) Option { return func(c *Client) { c.token = token } }

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.session = h } }

// Override retry attempts and the initial backoff.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(c *Client) {
		c.maxAttempts = attempts
		c.backoff = backoff
	}
}

func NewClient(url string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("sensor feed: url is empty")
	}

	c := &Client{
		session:     &http.Client{Timeout: 5 * time.Second},
		url:         url,
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxAttempts < 1 {
		c.maxAttempts = 1
	}

	return c, nil
}

// Fetch returns the readings currently published by the upstream API.
// Entries without a bin id or fill level are dropped.
func (c *Client) Fetch(ctx context.Context) (_ []domain.SensorReading, err error) {
	defer obs.Time(ctx, "sensorfeed.Fetch")(&err)

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodGet, c.url)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch sensor data: %w", err)
	}
	defer resp.Body.Close()

	var body feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("fetch sensor data: decode response: %w", err)
	}

	out := make([]domain.SensorReading, 0, len(body.Results))
	for i, r := range body.Results {
		binID := strings.TrimSpace(r.BinID)
		if binID == "" || r.FillLevel == nil {
			log.Printf("sensor feed: skip entry=%d bin_id=%q reason=incomplete", i, r.BinID)
			continue
		}

		reading := domain.SensorReading{
			SensorID:   r.SensorID,
			BinID:      binID,
			FillLevel:  *r.FillLevel,
			Lat:        r.Latitude,
			Lon:        r.Longitude,
			OrganicPct: r.OrganicPercentage,
			PlasticPct: r.PlasticPercentage,
			MetalPct:   r.MetalPercentage,
		}
		if r.Timestamp != nil {
			reading.RecordedAt = r.Timestamp.UTC()
		}
		out = append(out, reading)
	}

	return out, nil
}
