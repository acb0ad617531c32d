package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nimasrn/transaction-dashboard/internal/model"
	"github.com/nimasrn/transaction-dashboard/pkg/logger"
	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"
)

// maxFeedBytes bounds the upstream body the client will buffer.
const maxFeedBytes = 64 * 1024 * 1024

type Config struct {
	URL     string
	Timeout time.Duration
}

// Client downloads the seed feed: a JSON array of transactions.
type Client struct {
	config Config
	client *fasthttp.Client
}

func NewClient(config Config) *Client {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &Client{
		config: config,
		client: &fasthttp.Client{
			ReadTimeout:         config.Timeout,
			WriteTimeout:        config.Timeout,
			MaxIdleConnDuration: 60 * time.Second,
			MaxResponseBodySize: maxFeedBytes,
			// the feed is a large single body
			ReadBufferSize: 1024 * 16,
		},
	}
}

func (c *Client) Fetch(ctx context.Context) ([]model.FeedTransaction, error) {
	body, err := c.doRequest(ctx)
	if err != nil {
		return nil, err
	}

	var items []model.FeedTransaction
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, errors.Wrap(err, "failed to decode feed")
	}

	logger.Debug("feed fetched", "url", c.config.URL, "items", len(items), "bytes", len(body))
	return items, nil
}

// doRequest performs the GET with the context deadline, or the configured
// timeout when the context has none.
func (c *Client) doRequest(ctx context.Context) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.config.URL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.config.Timeout)
	}

	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, errors.Wrap(err, "feed request failed")
	}

	if statusCode := resp.StatusCode(); statusCode != fasthttp.StatusOK {
		return nil, fmt.Errorf("unexpected feed status code: %d", statusCode)
	}

	body, err := resp.BodyUncompressed()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read feed body")
	}

	result := make([]byte, len(body))
	copy(result, body)

	return result, nil
}
