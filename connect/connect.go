/**
 * Copyright 2020 TryFix Engineering.
 * All rights reserved.
 * Authors:
 *    Gayan Yapa (gmbyapa@gmail.com)
 */

package connect

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/tryfix/log"

	"github.com/tryfix/kafkaconnect"
)

// Default connection parameters of a local Kafka Connect worker.
const (
	DefaultHost = `localhost`
	DefaultPort = 8083
)

// Type is the direction of a connector.
type Type string

const (
	// TypeSource moves data from an external system into Kafka topics
	TypeSource Type = `source`
	// TypeSink moves data from Kafka topics into an external system
	TypeSink Type = `sink`
	// TypeUndetermined is reported when the connector class name reveals
	// neither direction
	TypeUndetermined Type = `undetermined`
)

// State is the lifecycle state of a connector as reported by the Connect
// worker. States are owned by the remote service, the client observes them
// and never waits for a transition to complete.
type State string

const (
	StateRunning    State = `RUNNING`
	StatePaused     State = `PAUSED`
	StateUnassigned State = `UNASSIGNED`
	StateFailed     State = `FAILED`
)

type options struct {
	host       string
	port       int
	httpClient *http.Client
	logger     log.Logger
}

// Option is a type to host NewConnect configurations
type Option func(*options)

// WithHost returns a Configuration overriding the Connect worker hostname
func WithHost(host string) Option {
	return func(options *options) {
		options.host = host
	}
}

// WithPort returns a Configuration overriding the Connect worker port
func WithPort(port int) Option {
	return func(options *options) {
		options.port = port
	}
}

// WithHTTPClient returns a Configuration overriding the underlying transport.
// Mainly used to inject instrumented or stub transports in tests.
func WithHTTPClient(client *http.Client) Option {
	return func(options *options) {
		options.httpClient = client
	}
}

// WithLogger returns a Configuration to create a NewConnect with given Logger
func WithLogger(logger log.Logger) Option {
	return func(options *options) {
		options.logger = logger
	}
}

// Connect is a stateless client for the Kafka Connect REST interface.
// Connectivity is not verified until the first call. A Connect holds no
// mutable state and is safe to share across goroutines.
type Connect struct {
	rest   *kafkaconnect.Client
	logger log.Logger
}

// NewConnect returns a connect client pointed at host:port
// (localhost:8083 when no options are given).
func NewConnect(opts ...Option) *Connect {
	options := &options{
		host:   DefaultHost,
		port:   DefaultPort,
		logger: log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(options)
	}

	logger := options.logger.NewLog(log.Prefixed(`Connect`))

	return &Connect{
		rest: kafkaconnect.NewClient(kafkaconnect.ClientConfig{
			Host:       options.host,
			Port:       options.port,
			HTTPClient: options.httpClient,
			Logger:     logger,
		}),
		logger: logger,
	}
}

// connector lookup response of the Connect worker
type connectorResponse struct {
	Name   string            `json:"name"`
	Config map[string]string `json:"config"`
}

// connector status response of the Connect worker
type statusResponse struct {
	Name      string `json:"name"`
	Connector struct {
		State    string `json:"state"`
		WorkerId string `json:"worker_id"`
	} `json:"connector"`
}

// Connectors returns the identifiers of the connectors of the given type
// registered at the Connect worker. Determining the type requires an info
// lookup per connector, so this issues one extra call for each candidate.
func (c *Connect) Connectors(typ Type) ([]string, error) {
	if typ != TypeSource && typ != TypeSink {
		return nil, &kafkaconnect.ArgumentError{Name: `type`, Reason: `must be either source or sink`}
	}

	var names []string
	if err := c.rest.Get(`/connectors`, &names); err != nil {
		return nil, err
	}

	var matched []string
	for _, name := range names {
		info, err := c.Info(name)
		if err != nil {
			return nil, err
		}

		if info.Type == typ {
			matched = append(matched, name)
		}
	}

	return matched, nil
}

// Info returns the enriched description of the connector: its direction,
// technology class, vendor, full configuration and current state. JDBC
// source connectors are additionally introspected for tracked tables,
// produced topics and the registry subjects derived from those topics.
func (c *Connect) Info(id string) (*Info, error) {
	if id == `` {
		return nil, &kafkaconnect.ArgumentError{Name: `id`, Reason: `cannot be empty`}
	}

	res := connectorResponse{}
	if err := c.rest.Get(fmt.Sprintf(`/connectors/%s`, url.PathEscape(id)), &res); err != nil {
		return nil, err
	}

	state, err := c.Status(id)
	if err != nil {
		return nil, err
	}

	info := newInfo(res.Name, res.Config)
	info.State = state

	return info, nil
}

// Status returns the current lifecycle state of the connector, one of
// RUNNING, PAUSED, UNASSIGNED or FAILED.
func (c *Connect) Status(id string) (State, error) {
	if id == `` {
		return ``, &kafkaconnect.ArgumentError{Name: `id`, Reason: `cannot be empty`}
	}

	res := statusResponse{}
	if err := c.rest.Get(fmt.Sprintf(`/connectors/%s/status`, url.PathEscape(id)), &res); err != nil {
		return ``, err
	}

	return State(res.Connector.State), nil
}

// Load creates or replaces the connector registered under id with the given
// configuration. The call returns once the worker acknowledges the request,
// the connector reaches RUNNING only after a worker claims the task.
func (c *Connect) Load(id string, config map[string]string) error {
	if id == `` {
		return &kafkaconnect.ArgumentError{Name: `id`, Reason: `cannot be empty`}
	}

	if len(config) == 0 {
		return &kafkaconnect.ArgumentError{Name: `config`, Reason: `cannot be empty`}
	}

	req := struct {
		Name   string            `json:"name"`
		Config map[string]string `json:"config"`
	}{Name: id, Config: config}
	if err := c.rest.Post(`/connectors`, req, nil); err != nil {
		return err
	}

	c.logger.Info(fmt.Sprintf(`connector [%s] loaded`, id))

	return nil
}

// Pause requests a RUNNING to PAUSED transition for the connector.
func (c *Connect) Pause(id string) error {
	return c.transition(id, http.MethodPut, `pause`)
}

// Resume requests a PAUSED to RUNNING transition for the connector.
func (c *Connect) Resume(id string) error {
	return c.transition(id, http.MethodPut, `resume`)
}

// Restart re-runs the connector task in place, from RUNNING or PAUSED back
// to RUNNING.
func (c *Connect) Restart(id string) error {
	return c.transition(id, http.MethodPost, `restart`)
}

// Delete removes the connector and frees its id for reuse.
func (c *Connect) Delete(id string) error {
	if id == `` {
		return &kafkaconnect.ArgumentError{Name: `id`, Reason: `cannot be empty`}
	}

	if err := c.rest.Delete(fmt.Sprintf(`/connectors/%s`, url.PathEscape(id)), nil); err != nil {
		return err
	}

	c.logger.Info(fmt.Sprintf(`connector [%s] deleted`, id))

	return nil
}

// transition issues one of the acknowledge-only lifecycle calls. The worker
// performs the state change asynchronously, no polling is done here.
func (c *Connect) transition(id, method, action string) error {
	if id == `` {
		return &kafkaconnect.ArgumentError{Name: `id`, Reason: `cannot be empty`}
	}

	path := fmt.Sprintf(`/connectors/%s/%s`, url.PathEscape(id), action)

	var err error
	switch method {
	case http.MethodPut:
		err = c.rest.Put(path, nil)
	default:
		err = c.rest.Post(path, nil, nil)
	}
	if err != nil {
		return err
	}

	c.logger.Info(fmt.Sprintf(`connector [%s] %s requested`, id, action))

	return nil
}
