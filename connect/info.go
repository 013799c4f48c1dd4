/**
 * Copyright 2020 TryFix Engineering.
 * All rights reserved.
 * Authors:
 *    Gayan Yapa (gmbyapa@gmail.com)
 */

package connect

import (
	"strings"
)

// Info describes a connector registered at the Connect worker.
type Info struct {
	Name   string
	Type   Type
	Class  string
	Vendor string
	State  State
	Config map[string]string

	// Populated for JDBC source connectors only. Tables may be empty when
	// the connector listens on a query instead of a table whitelist.
	Tables   []string
	Topics   []string
	Subjects []string
	JDBC     *JDBC
}

// JDBC describes the database behind a JDBC source connector, parsed out of
// its connection.url.
type JDBC struct {
	Dialect  string
	Location string
	Database string
	SID      string
}

// short technology names for the connector classes shipped by Confluent
var connectorClasses = map[string]string{
	`io.confluent.connect.jdbc.JdbcSourceConnector`:                 `JDBC`,
	`io.confluent.connect.jdbc.JdbcSinkConnector`:                   `JDBC`,
	`io.confluent.connect.activemq.ActiveMQSourceConnectorConfig`:   `ActiveMQ`,
	`io.confluent.connect.s3.S3SinkConnector`:                       `S3`,
	`io.confluent.connect.elasticsearch.ElasticsearchSinkConnector`: `Elasticsearch`,
	`io.confluent.connect.hdfs.HdfsSinkConnector`:                   `HDFS`,
	`io.confluent.connect.ibm.mq.IbmMQSourceConnectorConfig`:        `IBM MQ`,
	`io.confluent.connect.jms.JmsSourceConnector`:                   `JMS`,
}

func newInfo(name string, config map[string]string) *Info {
	class := config[`connector.class`]

	info := &Info{
		Name:   name,
		Type:   typeOf(class),
		Class:  connectorClasses[class],
		Vendor: vendorOf(class),
		Config: config,
	}

	if info.Class == `JDBC` && info.Type == TypeSource {
		info.JDBC = parseJDBCURL(config[`connection.url`])

		if whitelist := config[`table.whitelist`]; whitelist != `` {
			info.Tables = strings.Split(whitelist, `,`)
			for _, table := range info.Tables {
				info.Topics = append(info.Topics, config[`topic.prefix`]+table)
			}
		} else if prefix := config[`topic.prefix`]; prefix != `` {
			// query based connector, everything lands on a single topic
			info.Topics = []string{prefix}
		}

		for _, topic := range info.Topics {
			info.Subjects = append(info.Subjects, topic+`-key`, topic+`-value`)
		}
	}

	return info
}

// typeOf derives the connector direction from its class name.
func typeOf(class string) Type {
	if strings.Contains(class, `Source`) {
		return TypeSource
	}

	if strings.Contains(class, `Sink`) {
		return TypeSink
	}

	return TypeUndetermined
}

func vendorOf(class string) string {
	if strings.Contains(class, `confluent`) {
		return `Confluent`
	}

	return `Unknown`
}

// parseJDBCURL extracts dialect, location and database/SID from a JDBC
// connection url. Unknown dialects return nil.
func parseJDBCURL(connectionURL string) *JDBC {
	if connectionURL == `` {
		return nil
	}

	parts := strings.Split(connectionURL, `/`)

	switch {
	case strings.Contains(connectionURL, `mysql`):
		jdbc := &JDBC{Dialect: `mysql`}
		if len(parts) > 3 {
			jdbc.Location = parts[2]
			jdbc.Database = strings.SplitN(parts[3], `?`, 2)[0]
		}
		return jdbc

	case strings.Contains(connectionURL, `mariadb`):
		jdbc := &JDBC{Dialect: `mariadb`}
		if len(parts) > 3 {
			jdbc.Location = parts[len(parts)-2]
			jdbc.Database = parts[len(parts)-1]
		}
		return jdbc

	case strings.Contains(connectionURL, `postgresql`):
		jdbc := &JDBC{Dialect: `postgresql`}
		if len(parts) > 3 {
			jdbc.Location = parts[2]
			jdbc.Database = parts[len(parts)-1]
		}
		return jdbc

	case strings.Contains(connectionURL, `oracle`):
		jdbc := &JDBC{Dialect: `oracle`}
		at := strings.SplitN(connectionURL, `@`, 2)
		if len(at) == 2 {
			jdbc.Location = strings.SplitN(at[1], `/`, 2)[0]
			jdbc.SID = parts[len(parts)-1]
		}
		return jdbc

	case strings.Contains(connectionURL, `sqlserver`):
		jdbc := &JDBC{Dialect: `sqlserver`}
		segments := strings.Split(connectionURL, `;`)
		hostParts := strings.Split(segments[0], `/`)
		jdbc.Location = hostParts[len(hostParts)-1]
		if kv := strings.SplitN(segments[len(segments)-1], `=`, 2); len(kv) == 2 {
			jdbc.Database = kv[1]
		}
		return jdbc
	}

	return nil
}
