package api

import (
	"context"
	"fmt"
	"time"

	"github.com/kickabout/kickabout-cli/internal/errors"
)

// Event is an event as stored by the backend. The client holds
// read-through copies; the server owns the data.
type Event struct {
	ID             string    `json:"_id"`
	EventType      string    `json:"eventType"`
	Date           time.Time `json:"date"`
	Address        string    `json:"address"`
	Fees           float64   `json:"fees"`
	Weather        string    `json:"weather"`
	Indoor         bool      `json:"indoor"`
	Public         bool      `json:"public"`
	CreatedBy      string    `json:"createdBy"`
	JoinedPlayers  []string  `json:"joinedPlayers"`
	InvitedPlayers []string  `json:"invitedPlayers,omitempty"`
	Comments       []Comment `json:"comments,omitempty"`
}

// Comment is a single comment on an event
type Comment struct {
	Username string `json:"username"`
	Comment  string `json:"comment"`
}

// EventPayload is the create/edit payload. The backend expects the
// date as a string under dateString.
type EventPayload struct {
	EventType  string  `json:"eventType"`
	DateString string  `json:"dateString"`
	Address    string  `json:"address"`
	Fees       float64 `json:"fees"`
	Weather    string  `json:"weather"`
	Indoor     bool    `json:"indoor"`
	Public     bool    `json:"public"`
}

// eventListResponse is the envelope for the event list endpoint
type eventListResponse struct {
	Events []Event `json:"events"`
}

// eventHistoryResponse is the envelope for the joined-history endpoint
type eventHistoryResponse struct {
	History []Event `json:"history"`
}

// successResponse is the envelope for mutation endpoints
type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// GetEvents fetches the upcoming events visible to the given user
func (c *Client) GetEvents(ctx context.Context, userID string) ([]Event, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, "GET", fmt.Sprintf("/events/%s", userID), nil)
	if err != nil {
		return nil, err
	}

	var listResp eventListResponse
	if err := parseAuthedResponse(resp, &listResp); err != nil {
		return nil, err
	}

	return listResp.Events, nil
}

// GetEventByID fetches a single event with full details
func (c *Client) GetEventByID(ctx context.Context, eventID string) (*Event, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, "GET", fmt.Sprintf("/events/details/%s", eventID), nil)
	if err != nil {
		return nil, err
	}

	var event Event
	if err := parseAuthedResponse(resp, &event); err != nil {
		return nil, err
	}

	return &event, nil
}

// CreateEvent creates a new event owned by the current user
func (c *Client) CreateEvent(ctx context.Context, payload EventPayload) error {
	if err := c.requireToken(); err != nil {
		return err
	}

	resp, err := c.doRequest(ctx, "POST", "/events/create", payload)
	if err != nil {
		return err
	}

	var result successResponse
	if err := parseAuthedResponse(resp, &result); err != nil {
		return err
	}
	if !result.Success {
		return errors.NewRemoteRejectedError(rejectionMessage(result, "event was not created"), resp.StatusCode)
	}

	return nil
}

// EditEvent updates an event and returns the updated copy
func (c *Client) EditEvent(ctx context.Context, eventID string, payload EventPayload) (*Event, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, "PUT", fmt.Sprintf("/events/edit/%s", eventID), payload)
	if err != nil {
		return nil, err
	}

	var event Event
	if err := parseAuthedResponse(resp, &event); err != nil {
		return nil, err
	}

	return &event, nil
}

// JoinEvent adds the current user to an event's joined players.
// The server enforces that a player never appears twice.
func (c *Client) JoinEvent(ctx context.Context, eventID string) error {
	if err := c.requireToken(); err != nil {
		return err
	}

	resp, err := c.doRequest(ctx, "POST", fmt.Sprintf("/events/join/%s", eventID), struct{}{})
	if err != nil {
		return err
	}

	var result successResponse
	if err := parseAuthedResponse(resp, &result); err != nil {
		return err
	}
	if !result.Success {
		return errors.NewRemoteRejectedError(rejectionMessage(result, "join was rejected"), resp.StatusCode)
	}

	return nil
}

// GetEventHistory fetches past events the current user joined
func (c *Client) GetEventHistory(ctx context.Context) ([]Event, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, "GET", "/events/history/joined", nil)
	if err != nil {
		return nil, err
	}

	var historyResp eventHistoryResponse
	if err := parseAuthedResponse(resp, &historyResp); err != nil {
		return nil, err
	}

	return historyResp.History, nil
}

func rejectionMessage(result successResponse, fallback string) string {
	if result.Message != "" {
		return result.Message
	}
	return fallback
}
