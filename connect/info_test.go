package connect

import (
	"reflect"
	"testing"
)

func TestNewInfo_JDBCSourceWhitelist(t *testing.T) {
	info := newInfo(`orders-source`, map[string]string{
		`connector.class`: `io.confluent.connect.jdbc.JdbcSourceConnector`,
		`connection.url`:  `jdbc:mysql://db.local:3306/shop?user=tracker`,
		`table.whitelist`: `orders,customers`,
		`topic.prefix`:    `shop-`,
	})

	if info.Type != TypeSource || info.Class != `JDBC` || info.Vendor != `Confluent` {
		t.Errorf(`unexpected info %+v`, info)
	}

	if !reflect.DeepEqual(info.Tables, []string{`orders`, `customers`}) {
		t.Errorf(`need [orders customers], have %v`, info.Tables)
	}

	if !reflect.DeepEqual(info.Topics, []string{`shop-orders`, `shop-customers`}) {
		t.Errorf(`need the prefixed topics, have %v`, info.Topics)
	}

	want := []string{`shop-orders-key`, `shop-orders-value`, `shop-customers-key`, `shop-customers-value`}
	if !reflect.DeepEqual(info.Subjects, want) {
		t.Errorf(`need %v, have %v`, want, info.Subjects)
	}

	if info.JDBC == nil || info.JDBC.Dialect != `mysql` ||
		info.JDBC.Location != `db.local:3306` || info.JDBC.Database != `shop` {
		t.Errorf(`unexpected jdbc info %+v`, info.JDBC)
	}
}

func TestNewInfo_JDBCSourceQueryBased(t *testing.T) {
	info := newInfo(`audit-source`, map[string]string{
		`connector.class`: `io.confluent.connect.jdbc.JdbcSourceConnector`,
		`connection.url`:  `jdbc:postgresql://db.local:5432/audit`,
		`topic.prefix`:    `audit-events`,
	})

	if len(info.Tables) != 0 {
		t.Errorf(`need no tables for a query based connector, have %v`, info.Tables)
	}

	if !reflect.DeepEqual(info.Topics, []string{`audit-events`}) {
		t.Errorf(`need [audit-events], have %v`, info.Topics)
	}

	if !reflect.DeepEqual(info.Subjects, []string{`audit-events-key`, `audit-events-value`}) {
		t.Errorf(`need the key/value subjects, have %v`, info.Subjects)
	}
}

func TestNewInfo_Sink(t *testing.T) {
	info := newInfo(`archive-sink`, map[string]string{
		`connector.class`: `io.confluent.connect.s3.S3SinkConnector`,
	})

	if info.Type != TypeSink || info.Class != `S3` {
		t.Errorf(`unexpected info %+v`, info)
	}

	if info.JDBC != nil || len(info.Subjects) != 0 {
		t.Errorf(`need no jdbc introspection for a sink, have %+v`, info)
	}
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		class string
		want  Type
	}{
		{`io.confluent.connect.jdbc.JdbcSourceConnector`, TypeSource},
		{`io.confluent.connect.hdfs.HdfsSinkConnector`, TypeSink},
		{`com.example.CustomConnector`, TypeUndetermined},
	}

	for _, test := range tests {
		if have := typeOf(test.class); have != test.want {
			t.Errorf(`need %s for %s, have %s`, test.want, test.class, have)
		}
	}
}

func TestVendorOf(t *testing.T) {
	if vendorOf(`io.confluent.connect.jms.JmsSourceConnector`) != `Confluent` {
		t.Error(`need Confluent`)
	}

	if vendorOf(`com.example.CustomSourceConnector`) != `Unknown` {
		t.Error(`need Unknown`)
	}
}

func TestParseJDBCURL(t *testing.T) {
	tests := []struct {
		url  string
		want *JDBC
	}{
		{`jdbc:mysql://db.local:3306/shop?user=tracker`,
			&JDBC{Dialect: `mysql`, Location: `db.local:3306`, Database: `shop`}},
		{`jdbc:mariadb://db.local:3306/shop`,
			&JDBC{Dialect: `mariadb`, Location: `db.local:3306`, Database: `shop`}},
		{`jdbc:postgresql://db.local:5432/audit`,
			&JDBC{Dialect: `postgresql`, Location: `db.local:5432`, Database: `audit`}},
		{`jdbc:oracle:thin:@db.local:1521/XE`,
			&JDBC{Dialect: `oracle`, Location: `db.local:1521`, SID: `XE`}},
		{`jdbc:sqlserver://db.local:1433;databaseName=shop`,
			&JDBC{Dialect: `sqlserver`, Location: `db.local:1433`, Database: `shop`}},
	}

	for _, test := range tests {
		if have := parseJDBCURL(test.url); !reflect.DeepEqual(have, test.want) {
			t.Errorf(`need %+v for %s, have %+v`, test.want, test.url, have)
		}
	}

	if parseJDBCURL(``) != nil {
		t.Error(`need nil for an empty url`)
	}

	if parseJDBCURL(`jdbc:db2://db.local/shop`) != nil {
		t.Error(`need nil for an unknown dialect`)
	}
}
