// Package messaging implements the messaging gateway against an
// Evolution-compatible HTTP API, keyed by instance name.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	domainMessaging "github.com/zapleads/zapleads/domains/messaging"
)

// Client is the messaging provider HTTP client
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	http    *fasthttp.Client
}

// NewClient creates a messaging gateway against baseURL.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		timeout: timeout,
		http: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set("apikey", c.apiKey)

	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	if err := c.http.DoTimeout(req, resp, c.timeout); err != nil {
		return fmt.Errorf("messaging request %s: %w", path, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return fmt.Errorf("messaging request %s: status %d: %s", path, resp.StatusCode(), resp.Body())
	}
	if out != nil {
		return json.Unmarshal(resp.Body(), out)
	}
	return nil
}

type checkNumbersRequest struct {
	Numbers []string `json:"numbers"`
}

// CheckNumbers asks the provider which of the given numbers have a
// messaging account, and under which session id.
func (c *Client) CheckNumbers(ctx context.Context, instance string, numbers []string) ([]domainMessaging.NumberCheck, error) {
	var results []domainMessaging.NumberCheck
	err := c.do(ctx, fasthttp.MethodPost, "/chat/whatsappNumbers/"+instance, checkNumbersRequest{Numbers: numbers}, &results)
	if err != nil {
		return nil, err
	}
	return results, nil
}

type sendTextRequest struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

type sendResponse struct {
	Key struct {
		ID string `json:"id"`
	} `json:"key"`
}

// SendText delivers a text message through the named instance. The returned
// id is the provider's delivery acknowledgment.
func (c *Client) SendText(ctx context.Context, instance, to, text string) (string, error) {
	var result sendResponse
	err := c.do(ctx, fasthttp.MethodPost, "/message/sendText/"+instance, sendTextRequest{Number: to, Text: text}, &result)
	if err != nil {
		return "", err
	}
	return result.Key.ID, nil
}

type sendMediaRequest struct {
	Number    string  `json:"number"`
	MediaType string  `json:"mediatype"`
	Media     string  `json:"media"`
	MimeType  *string `json:"mimetype,omitempty"`
	FileName  *string `json:"fileName,omitempty"`
	Delay     int     `json:"delay,omitempty"`
}

// SendMedia delivers one media item through the named instance.
func (c *Client) SendMedia(ctx context.Context, instance string, req domainMessaging.MediaRequest) (string, error) {
	var result sendResponse
	err := c.do(ctx, fasthttp.MethodPost, "/message/sendMedia/"+instance, sendMediaRequest{
		Number:    req.To,
		MediaType: req.MediaType,
		Media:     req.URL,
		MimeType:  req.MimeType,
		FileName:  req.FileName,
		Delay:     req.DelayMs,
	}, &result)
	if err != nil {
		return "", err
	}
	return result.Key.ID, nil
}

type connectionStateResponse struct {
	Instance struct {
		State string `json:"state"`
	} `json:"instance"`
}

// ConnectionState probes the live connection state of the named instance.
func (c *Client) ConnectionState(ctx context.Context, instance string) (string, error) {
	var result connectionStateResponse
	err := c.do(ctx, fasthttp.MethodGet, "/instance/connectionState/"+instance, nil, &result)
	if err != nil {
		return "", err
	}
	return result.Instance.State, nil
}
