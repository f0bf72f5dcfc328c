package kucoin

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
)

const DefaultHost = "https://api.kucoin.com"

// NewHTTPClient returns the fasthttp client used for REST calls. fasthttp
// dials tcp4 unless DialDualStack is set.
func NewHTTPClient(ipv4Only bool) *fasthttp.Client {
	return &fasthttp.Client{
		Name:                "kcbot",
		MaxConnsPerHost:     16,
		MaxIdleConnDuration: 20 * time.Second,
		ReadTimeout:         10 * time.Second,
		WriteTimeout:        10 * time.Second,
		DialDualStack:       !ipv4Only,
	}
}

type Client struct {
	host   string
	signer *Signer
	c      *fasthttp.Client
	now    func() time.Time
}

func New(host string, signer *Signer, c *fasthttp.Client) *Client {
	if host == "" {
		host = DefaultHost
	}
	if c == nil {
		c = NewHTTPClient(true)
	}
	return &Client{
		host:   host,
		signer: signer,
		c:      c,
		now:    time.Now,
	}
}

type envelope struct {
	Code string          `json:"code"`
	Msg  string          `json:"msg,omitempty"`
	Data json.RawMessage `json:"data"`
}

// getJSON issues a GET and decodes the data field of a successful envelope
// into out.
func (c *Client) getJSON(ctx context.Context, path string, private bool, out any) error {
	status, body, err := c.do(ctx, fasthttp.MethodGet, path, nil, private)
	if err != nil {
		return err
	}
	if status != fasthttp.StatusOK {
		return newAPIError(status, body)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, path, err)
	}
	if env.Code != CodeSuccess {
		return &APIError{StatusCode: status, Code: env.Code, Message: env.Msg}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("%w: %s: %w", ErrMalformedResponse, path, errMissingData)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, path, err)
	}
	return nil
}

type roundTrip struct {
	status int
	body   []byte
	err    error
}

// do sends one request and returns the status code and a copy of the body.
// Cancelling ctx returns ctx.Err() without waiting for the exchange; the
// abandoned round trip still ends on the deadline or client timeouts.
func (c *Client) do(ctx context.Context, method, path string, body []byte, private bool) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	req := fasthttp.AcquireRequest()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.host + path)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	req.Header.Set(fasthttp.HeaderContentType, "application/json")
	if private {
		for k, v := range c.signer.Headers(method, path, string(body)) {
			req.Header.Set(k, v)
		}
	}
	if len(body) > 0 {
		req.SetBody(body)
	}

	done := make(chan roundTrip, 1)
	go func() {
		resp := fasthttp.AcquireResponse()
		defer func() {
			fasthttp.ReleaseRequest(req)
			fasthttp.ReleaseResponse(resp)
		}()

		var err error
		if deadline, ok := ctx.Deadline(); ok {
			err = c.c.DoDeadline(req, resp, deadline)
		} else {
			err = c.c.Do(req, resp)
		}
		if err != nil {
			done <- roundTrip{err: err}
			return
		}
		done <- roundTrip{status: resp.StatusCode(), body: append([]byte(nil), resp.Body()...)}
	}()

	select {
	case <-ctx.Done():
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, ctx.Err())
	case r := <-done:
		if r.err != nil {
			return 0, nil, fmt.Errorf("%s %s: %w", method, path, r.err)
		}
		return r.status, r.body, nil
	}
}
