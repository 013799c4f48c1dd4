package serde

import (
	"fmt"
	"time"

	"github.com/tryfix/log"

	"github.com/tryfix/kafkaconnect/schemaregistry"
)

type backgroundSync struct {
	syncInterval time.Duration
	serde        *Serde
	logger       log.Logger
}

// Sync starts the background schema discovery routine when the Serde was
// built WithBackgroundSync. New versions of already registered subjects are
// picked up without an application restart.
func (s *Serde) Sync() error {
	if !s.options.backgroundSync {
		return nil
	}

	sync := &backgroundSync{
		serde:        s,
		syncInterval: s.options.syncInterval,
		logger:       s.logger.NewLog(log.Prefixed(`BGSync`)),
	}

	ticker := time.NewTicker(sync.syncInterval)

	go func() {
		for range ticker.C {
			sync.checkRegistryAndAdd()
		}
	}()

	sync.logger.Debug(`new schema check background routine started`)

	return nil
}

func (s *backgroundSync) checkRegistryAndAdd() {
	s.logger.Debug(`looking for new schemas...`)
	added := 0
	defer func() {
		s.logger.Debug(fmt.Sprintf(`looking for new schemas completed, %d schema/s added`, added))
	}()

	subjects, err := s.serde.registry.Subjects()
	if err != nil {
		s.logger.Error(fmt.Sprintf(`error getting subjects due to %s`, err.Error()))
		return
	}

	// only subjects the application registered are of interest, the entire
	// registry does not have to live here
	for _, subject := range subjects {
		if !s.serde.subjectRegistered(subject) {
			continue
		}

		versions, err := s.serde.registry.Versions(subject)
		if err != nil {
			s.logger.Error(fmt.Sprintf(`error getting schema versions due to %s`, err.Error()))
			continue
		}

		for _, version := range versions {
			if s.serde.hasVersion(subject, schemaregistry.Version(version)) {
				continue
			}

			// new versions are assumed compatible with the decoder of the
			// oldest registered version
			unmarshalerFunc := s.serde.unmarshalerFor(subject)
			if unmarshalerFunc == nil {
				continue
			}

			if err := s.serde.Register(subject, schemaregistry.Version(version), unmarshalerFunc); err != nil {
				s.logger.Error(fmt.Sprintf(`new schema add failed for [%s:%d] due to %s`,
					subject, version, err.Error()))
				continue
			}

			s.logger.Info(fmt.Sprintf(`new schema registered for [%s:%d]`, subject, version))
			added++
		}
	}
}
