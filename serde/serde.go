/**
 * Copyright 2020 TryFix Engineering.
 * All rights reserved.
 * Authors:
 *    Gayan Yapa (gmbyapa@gmail.com)
 */

package serde

import (
	"fmt"
	"sync"
	"time"

	"github.com/tryfix/errors"
	"github.com/tryfix/log"

	"github.com/tryfix/kafkaconnect/schemaregistry"
)

// UnmarshalerFunc converts a decoded payload into the application type of
// the subject.
type UnmarshalerFunc func(unmarshaler Unmarshaler) (v interface{}, err error)

// Unmarshaler decodes a single wire payload into in.
type Unmarshaler interface {
	Unmarshal(in interface{}) error
}

// Marshaller encodes and decodes payloads for one schema.
type Marshaller interface {
	Init() error
	Marshall(v interface{}) ([]byte, error)
	NewUnmarshaler(data []byte) Unmarshaler
}

// Subject holds the schema information of a registered subject version
type Subject struct {
	Schema          string          `json:"schema"`  // the schema definition
	Subject         string          `json:"subject"` // subject the schema is registered under
	Version         int             `json:"version"` // version within the subject
	Id              int             `json:"id"`      // registry wide unique schema id
	UnmarshalerFunc UnmarshalerFunc `json:"-"`
}

type options struct {
	backgroundSync bool
	syncInterval   time.Duration
	logger         log.Logger
}

// Option is a type to host NewSerde configurations
type Option func(*options)

// WithBackgroundSync returns a Configuration enabling periodic discovery of
// new versions of the registered subjects. Newly created schemas register in
// background and the application does not require a restart.
func WithBackgroundSync(syncInterval time.Duration) Option {
	return func(options *options) {
		options.syncInterval = syncInterval
		options.backgroundSync = true
	}
}

// WithLogger returns a Configuration to create a NewSerde with given Logger
func WithLogger(logger log.Logger) Option {
	return func(options *options) {
		options.logger = logger
	}
}

// Serde caches wire encoders per subject and version on top of a registry
// client. It is the only stateful layer of the module, the underlying REST
// clients stay stateless.
type Serde struct {
	schemas  map[string]map[int]*Encoder // subject/version/encoder
	idMap    map[int]*Encoder
	registry *schemaregistry.Registry
	mu       *sync.RWMutex
	options  *options
	logger   log.Logger
}

// NewSerde returns a pointer to a Serde backed by the given registry client.
func NewSerde(registry *schemaregistry.Registry, opts ...Option) *Serde {
	options := new(options)
	for _, opt := range opts {
		opt(options)
	}

	if options.logger == nil {
		options.logger = log.NewNoopLogger()
	}

	return &Serde{
		schemas:  make(map[string]map[int]*Encoder),
		idMap:    make(map[int]*Encoder),
		registry: registry,
		mu:       new(sync.RWMutex),
		options:  options,
		logger:   options.logger.NewLog(log.Prefixed(`Serde`)),
	}
}

// Register fetches the schema registered under the given subject and version
// and caches an Avro encoder for it. VersionLatest registers the highest
// existing version, VersionAll registers every existing version.
func (s *Serde) Register(subject string, version schemaregistry.Version, unmarshalerFunc UnmarshalerFunc) error {
	return s.register(subject, version, nil, unmarshalerFunc)
}

// RegisterWithMarshaller behaves like Register with a caller supplied
// Marshaller, eg NewProtoMarshaller for subjects holding protobuf schemas.
func (s *Serde) RegisterWithMarshaller(subject string, version schemaregistry.Version,
	marshaller Marshaller, unmarshalerFunc UnmarshalerFunc) error {
	return s.register(subject, version, marshaller, unmarshalerFunc)
}

func (s *Serde) register(subject string, version schemaregistry.Version,
	marshaller Marshaller, unmarshalerFunc UnmarshalerFunc) error {
	if version == schemaregistry.VersionAll {
		versions, err := s.registry.Versions(subject)
		if err != nil {
			return err
		}

		for _, v := range versions {
			if err := s.register(subject, schemaregistry.Version(v), marshaller, unmarshalerFunc); err != nil {
				return err
			}
		}

		return nil
	}

	schema, err := s.registry.Schema(subject, version)
	if err != nil {
		return err
	}

	id, err := s.registry.SchemaID(subject, version)
	if err != nil {
		return err
	}

	resolved := version
	if resolved == schemaregistry.VersionLatest {
		v, err := s.versionOf(subject, id)
		if err != nil {
			return err
		}

		resolved = v
	}

	if s.hasVersion(subject, resolved) {
		s.logger.Warn(fmt.Sprintf(`subject [%s][%s] already registered`, subject, resolved))
	}

	if marshaller == nil {
		marshaller = NewAvroMarshaller(schema)
	}

	if err := marshaller.Init(); err != nil {
		return errors.WithPrevious(err, fmt.Sprintf(`marshaller init failed for subject [%s][%s]`, subject, resolved))
	}

	s.add(&Subject{
		Schema:          schema,
		Subject:         subject,
		Version:         int(resolved),
		Id:              id,
		UnmarshalerFunc: unmarshalerFunc,
	}, marshaller)

	s.logger.Info(fmt.Sprintf(`subject [%s][%s] registered`, subject, resolved))

	return nil
}

// versionOf maps a schema id back to its version number under the subject.
func (s *Serde) versionOf(subject string, id int) (schemaregistry.Version, error) {
	versions, err := s.registry.Versions(subject)
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
		return 0, errors.New(fmt.Sprintf(`subject [%s] id [%d] has no versions`, subject, id))
	}

	return schemaregistry.Version(latest), nil
}

func (s *Serde) add(subject *Subject, marshaller Marshaller) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := newEncoder(s, subject, marshaller)

	if s.schemas[subject.Subject] == nil {
		s.schemas[subject.Subject] = make(map[int]*Encoder)
	}

	s.schemas[subject.Subject][subject.Version] = e
	s.idMap[subject.Id] = e
}

// WithSchema returns the encoder registered under the subject and version.
// It panics for unregistered subjects, registration is an application
// bootstrap concern.
func (s *Serde) WithSchema(subject string, version schemaregistry.Version) *Encoder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.schemas[subject][int(version)]
	if !ok {
		panic(fmt.Sprintf(`serde: unregistered subject [%s][%d]`, subject, version))
	}

	return e
}

// WithLatestSchema returns the encoder of the highest registered version of
// the subject. It panics for unregistered subjects.
func (s *Serde) WithLatestSchema(subject string) *Encoder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	versions, ok := s.schemas[subject]
	if !ok || len(versions) == 0 {
		panic(fmt.Sprintf(`serde: unregistered subject [%s]`, subject))
	}

	var latest int
	for v := range versions {
		if v > latest {
			latest = v
		}
	}

	return versions[latest]
}

// GenericEncoder returns a decode-only encoder resolving the schema from the
// id embedded in the wire payload.
func (s *Serde) GenericEncoder() *GenericEncoder {
	return &GenericEncoder{
		Encoder: newEncoder(s, nil, nil),
	}
}

func (s *Serde) encoderByID(id int) (*Encoder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.idMap[id]

	return e, ok
}

func (s *Serde) subjectRegistered(subject string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.schemas[subject]

	return ok
}

func (s *Serde) hasVersion(subject string, version schemaregistry.Version) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.schemas[subject][int(version)]

	return ok
}

// unmarshalerFor returns the UnmarshalerFunc of the oldest registered version
// of the subject, new versions are assumed compatible with the old decoder.
func (s *Serde) unmarshalerFor(subject string) UnmarshalerFunc {
	s.mu.RLock()
	defer s.mu.RUnlock()

	oldest := 0
	for v := range s.schemas[subject] {
		if oldest == 0 || v < oldest {
			oldest = v
		}
	}

	if oldest == 0 {
		return nil
	}

	return s.schemas[subject][oldest].subject.UnmarshalerFunc
}
