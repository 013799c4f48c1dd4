/**
 * Copyright 2020 TryFix Engineering.
 * All rights reserved.
 * Authors:
 *    Gayan Yapa (gmbyapa@gmail.com)
 */

package schemaregistry

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/hamba/avro/v2"
	"github.com/tryfix/log"

	"github.com/tryfix/kafkaconnect"
)

// Default connection parameters of a local Schema Registry.
const (
	DefaultHost = `localhost`
	DefaultPort = 8081
)

const contentType = `application/vnd.schemaregistry.v1+json`

// Version addresses one schema version under a subject.
type Version int

const (
	// VersionLatest selects the highest currently existing version.
	VersionLatest Version = -1
	// VersionAll selects every existing version. Only the serde package
	// accepts it; Registry operations address exactly one version.
	VersionAll Version = -2
)

// String returns the rendered version flag
func (v Version) String() string {
	if v == VersionLatest {
		return `Latest`
	}

	if v == VersionAll {
		return `All`
	}

	return fmt.Sprint(int(v))
}

type options struct {
	host       string
	port       int
	httpClient *http.Client
	logger     log.Logger
}

// Option is a type to host NewRegistry configurations
type Option func(*options)

// WithHost returns a Configuration overriding the registry hostname
func WithHost(host string) Option {
	return func(options *options) {
		options.host = host
	}
}

// WithPort returns a Configuration overriding the registry port
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

// WithLogger returns a Configuration to create a NewRegistry with given Logger
func WithLogger(logger log.Logger) Option {
	return func(options *options) {
		options.logger = logger
	}
}

// Registry is a stateless client for the Schema Registry REST interface.
// Connectivity is not verified until the first call. A Registry holds no
// mutable state and is safe to share across goroutines.
type Registry struct {
	rest   *kafkaconnect.Client
	logger log.Logger
}

// NewRegistry returns a registry client pointed at host:port
// (localhost:8081 when no options are given).
func NewRegistry(opts ...Option) *Registry {
	options := &options{
		host:   DefaultHost,
		port:   DefaultPort,
		logger: log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(options)
	}

	logger := options.logger.NewLog(log.Prefixed(`Registry`))

	return &Registry{
		rest: kafkaconnect.NewClient(kafkaconnect.ClientConfig{
			Host:        options.host,
			Port:        options.port,
			ContentType: contentType,
			HTTPClient:  options.httpClient,
			Logger:      logger,
		}),
		logger: logger,
	}
}

// subject/version lookup response of the registry
type subjectVersion struct {
	Subject string `json:"subject"`
	Id      int    `json:"id"`
	Version int    `json:"version"`
	Schema  string `json:"schema"`
}

// Config returns the registry wide configuration (eg compatibility level).
func (r *Registry) Config() (map[string]string, error) {
	config := map[string]string{}
	if err := r.rest.Get(`/config`, &config); err != nil {
		return nil, err
	}

	return config, nil
}

// Subjects returns the subjects registered at the registry.
func (r *Registry) Subjects() ([]string, error) {
	var subjects []string
	if err := r.rest.Get(`/subjects`, &subjects); err != nil {
		return nil, err
	}

	return subjects, nil
}

// Versions returns the registered versions of the given subject.
func (r *Registry) Versions(subject string) ([]int, error) {
	if subject == `` {
		return nil, &kafkaconnect.ArgumentError{Name: `subject`, Reason: `cannot be empty`}
	}

	var versions []int
	if err := r.rest.Get(fmt.Sprintf(`/subjects/%s/versions`, url.PathEscape(subject)), &versions); err != nil {
		return nil, err
	}

	return versions, nil
}

// Schema returns the schema definition registered under the given subject
// and version. VersionLatest selects the highest existing version.
func (r *Registry) Schema(subject string, version Version) (string, error) {
	sub, err := r.lookup(subject, version)
	if err != nil {
		return ``, err
	}

	return sub.Schema, nil
}

// SchemaID returns the globally unique schema id assigned to the given
// subject and version. VersionLatest selects the highest existing version.
func (r *Registry) SchemaID(subject string, version Version) (int, error) {
	sub, err := r.lookup(subject, version)
	if err != nil {
		return 0, err
	}

	return sub.Id, nil
}

func (r *Registry) lookup(subject string, version Version) (*subjectVersion, error) {
	version, err := r.resolve(subject, version)
	if err != nil {
		return nil, err
	}

	sub := new(subjectVersion)
	if err := r.rest.Get(fmt.Sprintf(`/subjects/%s/versions/%d`,
		url.PathEscape(subject), version), sub); err != nil {
		return nil, err
	}

	return sub, nil
}

// SchemaByID returns the JSON schema definition for a schema id, independent
// of any subject. Schema ids are immutable, the same id always resolves to
// the same definition.
func (r *Registry) SchemaByID(id int) (string, error) {
	if id < 1 {
		return ``, &kafkaconnect.ArgumentError{Name: `id`, Reason: `must be a positive integer`}
	}

	res := struct {
		Schema string `json:"schema"`
	}{}
	if err := r.rest.Get(fmt.Sprintf(`/schemas/ids/%d`, id), &res); err != nil {
		return ``, err
	}

	return res.Schema, nil
}

// Register submits the given schema under the subject and returns the schema
// id assigned by the registry. The schema is validated locally as Avro before
// any network call, a syntactically invalid schema returns a SchemaError
// without touching the registry. Registry side rejections surface as
// RequestError, notably 409 (incompatible with a prior version under the
// configured compatibility mode) and 422 (failed server side validation).
func (r *Registry) Register(subject string, schema Schema) (int, error) {
	if subject == `` {
		return 0, &kafkaconnect.ArgumentError{Name: `subject`, Reason: `cannot be empty`}
	}

	if schema.empty() {
		return 0, &kafkaconnect.ArgumentError{Name: `schema`, Reason: `cannot be empty`}
	}

	canonical, err := schema.canonical()
	if err != nil {
		return 0, err
	}

	if _, err := avro.Parse(canonical); err != nil {
		return 0, &kafkaconnect.SchemaError{Err: err}
	}

	res := struct {
		Id int `json:"id"`
	}{}
	req := struct {
		Schema string `json:"schema"`
	}{Schema: canonical}
	if err := r.rest.Post(fmt.Sprintf(`/subjects/%s/versions`, url.PathEscape(subject)), req, &res); err != nil {
		return 0, err
	}

	r.logger.Info(fmt.Sprintf(`subject [%s] registered with schema id [%d]`, subject, res.Id))

	return res.Id, nil
}

// DeleteSubject removes the subject with all its versions and returns the
// version numbers that were removed. This is irreversible.
func (r *Registry) DeleteSubject(subject string) ([]int, error) {
	if subject == `` {
		return nil, &kafkaconnect.ArgumentError{Name: `subject`, Reason: `cannot be empty`}
	}

	var versions []int
	if err := r.rest.Delete(fmt.Sprintf(`/subjects/%s`, url.PathEscape(subject)), &versions); err != nil {
		return nil, err
	}

	r.logger.Info(fmt.Sprintf(`subject [%s] deleted with versions %v`, subject, versions))

	return versions, nil
}

// DeleteVersion removes a single version of the subject and returns the
// version number that was removed. VersionLatest removes only the highest
// currently existing version, not the whole subject.
func (r *Registry) DeleteVersion(subject string, version Version) (int, error) {
	version, err := r.resolve(subject, version)
	if err != nil {
		return 0, err
	}

	var deleted int
	if err := r.rest.Delete(fmt.Sprintf(`/subjects/%s/versions/%d`,
		url.PathEscape(subject), version), &deleted); err != nil {
		return 0, err
	}

	r.logger.Info(fmt.Sprintf(`subject [%s] version [%d] deleted`, subject, deleted))

	return deleted, nil
}

// resolve validates the subject/version pair and replaces VersionLatest with
// the highest version currently registered under the subject.
func (r *Registry) resolve(subject string, version Version) (Version, error) {
	if subject == `` {
		return 0, &kafkaconnect.ArgumentError{Name: `subject`, Reason: `cannot be empty`}
	}

	if version != VersionLatest && version < 1 {
		return 0, &kafkaconnect.ArgumentError{Name: `version`, Reason: `must be VersionLatest or a positive integer`}
	}

	if version != VersionLatest {
		return version, nil
	}

	versions, err := r.Versions(subject)
	if err != nil {
		return 0, err
	}

	latest := 0
	for _, v := range versions {
		if v > latest {
			latest = v
		}
	}

	if latest == 0 {
		return 0, &kafkaconnect.RequestError{Status: http.StatusNotFound,
			Body: []byte(fmt.Sprintf(`subject [%s] has no versions`, subject))}
	}

	return Version(latest), nil
}
