// Package client talks to a running receipt processor over HTTP.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"receipt-processor/internal/common/receiptprotocol"
)

var (
	ErrReceiptNotFound = errors.New("receipt not found")
	ErrInvalidReceipt  = errors.New("invalid receipt")
)

type Config struct {
	ServerAddress string
}

type Client struct {
	resty *resty.Client
}

func New(cfg Config) *Client {
	return &Client{
		resty: resty.New().
			SetBaseURL(cfg.ServerAddress).
			SetHeader("Content-Type", "application/json"),
	}
}

// ProcessRaw submits an already encoded receipt document.
func (c *Client) ProcessRaw(ctx context.Context, body []byte) (string, error) {
	resp, err := c.resty.
		R().
		SetContext(ctx).
		SetBody(body).
		Post("/receipts/process")
	if err != nil {
		return "", fmt.Errorf("post request failed: %w", err)
	}
	switch resp.StatusCode() {
	case http.StatusOK, http.StatusCreated:
		res := receiptprotocol.ProcessResponse{}
		if err := json.Unmarshal(resp.Body(), &res); err != nil {
			return "", fmt.Errorf("error unmarshalling process response: %w", err)
		}
		return res.ID, nil
	case http.StatusBadRequest:
		return "", fmt.Errorf("%w: %s", ErrInvalidReceipt, errorMessage(resp))
	default:
		return "", fmt.Errorf("unexpected status code %v: %s", resp.StatusCode(), errorMessage(resp))
	}
}

func (c *Client) Process(ctx context.Context, receipt receiptprotocol.Receipt) (string, error) {
	body, err := json.Marshal(receipt)
	if err != nil {
		return "", fmt.Errorf("error marshalling receipt: %w", err)
	}
	return c.ProcessRaw(ctx, body)
}

func (c *Client) GetPoints(ctx context.Context, id string) (int64, error) {
	resp, err := c.resty.
		R().
		SetContext(ctx).
		SetPathParam("id", id).
		Get("/receipts/{id}/points")
	if err != nil {
		return 0, fmt.Errorf("get request failed: %w", err)
	}
	switch resp.StatusCode() {
	case http.StatusOK:
		res := receiptprotocol.PointsResponse{}
		if err := json.Unmarshal(resp.Body(), &res); err != nil {
			return 0, fmt.Errorf("error unmarshalling points response: %w", err)
		}
		return res.Points, nil
	case http.StatusNotFound:
		return 0, ErrReceiptNotFound
	default:
		return 0, fmt.Errorf("unexpected status code %v: %s", resp.StatusCode(), errorMessage(resp))
	}
}

func errorMessage(resp *resty.Response) string {
	res := receiptprotocol.ErrorResponse{}
	if err := json.Unmarshal(resp.Body(), &res); err != nil || res.Error == "" {
		return resp.Status()
	}
	return res.Error
}
