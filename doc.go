/*
Package kafkaconnect provides thin REST clients for the two management
surfaces of a Confluent deployment.

  - schemaregistry wraps the Schema Registry REST interface: register, query
    and delete versioned Avro schemas grouped under named subjects.
  - connect wraps the Kafka Connect REST interface: create, query, pause,
    resume, restart and delete connectors.
  - serde layers a schema-aware Encoder/Decoder on top of the registry client
    for producing and consuming wire-framed Kafka messages.

Every client method performs exactly one HTTP request/response exchange and
surfaces failures as typed errors (ArgumentError, SchemaError,
UnavailableError, RequestError) defined in this package.

Schema registry API : https://docs.confluent.io/platform/current/schema-registry/develop/api.html

Kafka Connect API : https://docs.confluent.io/platform/current/connect/references/restapi.html

Avro: http://avro.apache.org/docs/current/
*/

package kafkaconnect
