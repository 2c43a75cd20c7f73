package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tcfw/dancechain/pkg/block"
)

const maxErrorBody = 4 << 10

// RejectedError is a non-2xx answer from the store
type RejectedError struct {
	Status int
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("store rejected request (%d): %s", e.Status, e.Reason)
}

// Temporary is false only for a 400, the store refusing the request.
// Anything else, such as a 404 from a wrong base url or a 5xx, is worth
// retrying.
func (e *RejectedError) Temporary() bool {
	return e.Status != http.StatusBadRequest
}

type ClientOption func(*Client) error

// WithCodec selects the encoding requested for block listings
func WithCodec(c block.Codec) ClientOption {
	return func(cl *Client) error {
		cl.codec = c
		return nil
	}
}

func WithHTTPClient(hc *http.Client) ClientOption {
	return func(cl *Client) error {
		if hc == nil {
			return errors.New("http client cannot be nil")
		}
		cl.hc = hc
		return nil
	}
}

// WithTimeout bounds each request. It applies to a copy of the http client
// so a shared client is left untouched.
func WithTimeout(d time.Duration) ClientOption {
	return func(cl *Client) error {
		if d < 0 {
			return errors.New("timeout cannot be negative")
		}
		cl.timeout = &d
		return nil
	}
}

// Client talks to the block store over HTTP
type Client struct {
	base    string
	hc      *http.Client
	codec   block.Codec
	timeout *time.Duration
}

func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing store url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("unsupported store url scheme %q", u.Scheme)
	}

	c := &Client{
		base:  strings.TrimRight(u.String(), "/"),
		hc:    &http.Client{Timeout: 10 * time.Second},
		codec: block.CodecJSON,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.timeout != nil {
		hc := *c.hc
		hc.Timeout = *c.timeout
		c.hc = &hc
	}

	return c, nil
}

// Blocks fetches every block known to the store
func (c *Client) Blocks(ctx context.Context) ([]block.Block, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/blocks", nil)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", c.codec.ContentType())

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetching blocks")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readRejection(resp)
	}

	d, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading blocks")
	}

	codec := block.CodecJSON
	if mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil && mt == block.ContentTypeMsgpack {
		codec = block.CodecMsgpack
	}

	blocks := []block.Block{}
	if err := block.Unmarshal(codec, d, &blocks); err != nil {
		return nil, err
	}

	return blocks, nil
}

// PostBlock publishes b. A refusal by the store is a *RejectedError.
func (c *Client) PostBlock(ctx context.Context, b *block.Block) error {
	d, err := block.Marshal(block.CodecJSON, b)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/postblock", bytes.NewReader(d))
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", block.ContentTypeJSON)

	resp, err := c.hc.Do(req)
	if err != nil {
		return errors.Wrap(err, "posting block")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return readRejection(resp)
	}

	io.Copy(io.Discard, resp.Body)

	return nil
}

func readRejection(resp *http.Response) error {
	d, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	return &RejectedError{
		Status: resp.StatusCode,
		Reason: strings.TrimSpace(string(d)),
	}
}
