package kafkaconnect

import (
	"fmt"
	"os"

	"github.com/tryfix/errors"
	"gopkg.in/yaml.v3"
)

// Endpoint is a host:port pair for one of the two wrapped services.
type Endpoint struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

func (e Endpoint) String() string {
	return fmt.Sprintf(`%s:%d`, e.Host, e.Port)
}

// Config holds the endpoints of a Confluent deployment. It is a convenience
// for applications wiring both clients from a single yaml file, eg:
//
//	registry:
//	  host: registry.local
//	  port: 8081
//	connect:
//	  host: connect.local
//	  port: 8083
type Config struct {
	Registry Endpoint `yaml:"registry"`
	Connect  Endpoint `yaml:"connect"`
}

// ReadConfig loads a Config from a yaml file. Missing fields fall back to the
// local defaults of each service.
func ReadConfig(path string) (*Config, error) {
	byt, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithPrevious(err, fmt.Sprintf(`config file [%s] read failed`, path))
	}

	config := new(Config)
	if err := yaml.Unmarshal(byt, config); err != nil {
		return nil, errors.WithPrevious(err, fmt.Sprintf(`config file [%s] unmarshal failed`, path))
	}

	if config.Registry.Host == `` {
		config.Registry.Host = `localhost`
	}

	if config.Registry.Port == 0 {
		config.Registry.Port = 8081
	}

	if config.Connect.Host == `` {
		config.Connect.Host = `localhost`
	}

	if config.Connect.Port == 0 {
		config.Connect.Port = 8083
	}

	return config, nil
}
