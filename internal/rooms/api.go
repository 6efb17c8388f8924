// Package rooms talks to the room server's HTTP management API.
package rooms

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/bohselecta/gummy2/internal/logging"
	"github.com/bohselecta/gummy2/internal/resilience"
)

const defaultTimeout = 10 * time.Second

// Client provisions rooms over the server's REST surface.
type Client struct {
	http    *resty.Client
	breaker *resilience.Breaker
	log     *logging.Logger
}

type createRoomResponse struct {
	RoomID string `json:"room_id"`
}

// NewClient creates a room API client for the given http(s) base URL.
func NewClient(baseURL string, log *logging.Logger) *Client {
	if log == nil {
		log = logging.NewNop()
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Content-Type", "application/json")

	breaker := resilience.New("rooms-api", resilience.Settings{
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to resilience.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Client{http: httpClient, breaker: breaker, log: log}
}

// Create provisions a new room and returns its id.
func (c *Client) Create(ctx context.Context) (string, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		var out createRoomResponse
		resp, err := c.http.R().
			SetContext(ctx).
			SetResult(&out).
			Post("/api/create-room")
		if err != nil {
			return nil, fmt.Errorf("create room request failed: %w", err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("create room returned status %d", resp.StatusCode())
		}
		if out.RoomID == "" {
			return nil, fmt.Errorf("create room response missing room_id")
		}
		return out.RoomID, nil
	})
	if err != nil {
		return "", err
	}

	roomID := result.(string)
	c.log.Info("room created", zap.String("room_id", roomID))
	return roomID, nil
}
