/**
 * Copyright 2020 TryFix Engineering.
 * All rights reserved.
 * Authors:
 *    Gayan Yapa (gmbyapa@gmail.com)
 */

package kafkaconnect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tryfix/errors"
	"github.com/tryfix/log"
)

// ClientConfig carries the immutable connection parameters shared by the
// registry and connect clients. Zero values fall back to sensible defaults
// except Host and Port which the owning client always sets.
type ClientConfig struct {
	Host        string
	Port        int
	ContentType string
	HTTPClient  *http.Client
	Logger      log.Logger
}

// Client is a minimal JSON/REST transport. Every call is a single
// request/response exchange, there is no retry loop and no caching. A Client
// holds no mutable state and is safe to share across goroutines.
type Client struct {
	host        string
	baseURL     string
	contentType string
	hc          *http.Client
	logger      log.Logger
}

// NewClient returns a transport pointed at http://host:port.
func NewClient(config ClientConfig) *Client {
	if config.ContentType == `` {
		config.ContentType = `application/json`
	}

	if config.HTTPClient == nil {
		config.HTTPClient = http.DefaultClient
	}

	if config.Logger == nil {
		config.Logger = log.NewNoopLogger()
	}

	host := fmt.Sprintf(`%s:%d`, config.Host, config.Port)

	return &Client{
		host:        host,
		baseURL:     fmt.Sprintf(`http://%s`, host),
		contentType: config.ContentType,
		hc:          config.HTTPClient,
		logger:      config.Logger,
	}
}

// Host returns the host:port pair the transport is bound to.
func (c *Client) Host() string {
	return c.host
}

// Get issues a GET and decodes the JSON response into out when out is non nil.
func (c *Client) Get(path string, out interface{}) error {
	return c.do(http.MethodGet, path, nil, out)
}

// Post issues a POST with in as the JSON body and decodes the response into
// out when out is non nil.
func (c *Client) Post(path string, in, out interface{}) error {
	return c.do(http.MethodPost, path, in, out)
}

// Put issues a body-less PUT and decodes the response into out when out is non nil.
func (c *Client) Put(path string, out interface{}) error {
	return c.do(http.MethodPut, path, nil, out)
}

// Delete issues a DELETE and decodes the response into out when out is non nil.
func (c *Client) Delete(path string, out interface{}) error {
	return c.do(http.MethodDelete, path, nil, out)
}

func (c *Client) do(method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		byt, err := json.Marshal(in)
		if err != nil {
			return errors.WithPrevious(err, fmt.Sprintf(`request encode failed for [%s %s]`, method, path))
		}

		body = bytes.NewReader(byt)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return errors.WithPrevious(err, fmt.Sprintf(`request init failed for [%s %s]`, method, path))
	}

	req.Header.Set(`Accept`, `application/json`)
	if in != nil {
		req.Header.Set(`Content-Type`, c.contentType)
	}

	c.logger.Debug(fmt.Sprintf(`%s %s`, method, path))

	res, err := c.hc.Do(req)
	if err != nil {
		return &UnavailableError{Host: c.host, Err: err}
	}

	defer func() {
		if err := res.Body.Close(); err != nil {
			c.logger.Error(fmt.Sprintf(`response close failed for [%s %s] due to %s`, method, path, err))
		}
	}()

	byt, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.WithPrevious(err, fmt.Sprintf(`response read failed for [%s %s]`, method, path))
	}

	if res.StatusCode >= http.StatusBadRequest {
		return &RequestError{Status: res.StatusCode, Body: byt}
	}

	if out == nil || len(byt) == 0 {
		return nil
	}

	if err := json.Unmarshal(byt, out); err != nil {
		return errors.WithPrevious(err, fmt.Sprintf(`response decode failed for [%s %s]`, method, path))
	}

	return nil
}
