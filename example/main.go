/**
 * Copyright 2020 TryFix Engineering.
 * All rights reserved.
 * Authors:
 *    Gayan Yapa (gmbyapa@gmail.com)
 */

package main

import (
	"fmt"

	"github.com/tryfix/log"

	"github.com/tryfix/kafkaconnect"
	"github.com/tryfix/kafkaconnect/connect"
	"github.com/tryfix/kafkaconnect/schemaregistry"
)

func main() {

	// endpoints of the local deployment, overridable via endpoints.yaml
	config, err := kafkaconnect.ReadConfig(`endpoints.yaml`)
	if err != nil {
		log.Fatal(err)
	}

	registry := schemaregistry.NewRegistry(
		schemaregistry.WithHost(config.Registry.Host),
		schemaregistry.WithPort(config.Registry.Port),
		schemaregistry.WithLogger(log.NewLog().Log(log.WithLevel(log.INFO))),
	)

	id, err := registry.Register(`orders-value`, schemaregistry.RawSchema(
		`{"type":"record","name":"Order","fields":[{"name":"id","type":"int"}]}`))
	if err != nil {
		log.Fatal(err)
	}

	log.Info(fmt.Sprintf(`schema registered with id %d`, id))

	subjects, err := registry.Subjects()
	if err != nil {
		log.Fatal(err)
	}

	log.Info(fmt.Sprintf(`registered subjects %v`, subjects))

	// load a JDBC source connector on the connect worker
	worker := connect.NewConnect(
		connect.WithHost(config.Connect.Host),
		connect.WithPort(config.Connect.Port),
	)

	if err := worker.Load(`orders-source`, map[string]string{
		`connector.class`: `io.confluent.connect.jdbc.JdbcSourceConnector`,
		`connection.url`:  `jdbc:mysql://db.local:3306/shop`,
		`table.whitelist`: `orders`,
		`topic.prefix`:    `shop-`,
	}); err != nil {
		log.Fatal(err)
	}

	state, err := worker.Status(`orders-source`)
	if err != nil {
		log.Fatal(err)
	}

	log.Info(fmt.Sprintf(`connector state %s`, state))
}
