package connect

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strconv"
	"testing"

	"github.com/tryfix/kafkaconnect"
)

// testConnect wires a Connect client against the given handler and counts
// the requests the client actually issues.
func testConnect(t *testing.T, handler http.HandlerFunc) (*Connect, *int) {
	t.Helper()

	hits := new(int)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}

	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatal(err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatal(err)
	}

	return NewConnect(WithHost(host), WithPort(port)), hits
}

func respond(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()

	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// stub worker hosting one JDBC source and one S3 sink
func workerHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case `/connectors`:
			respond(t, w, []string{`orders-source`, `archive-sink`})
		case `/connectors/orders-source`:
			respond(t, w, connectorResponse{Name: `orders-source`, Config: map[string]string{
				`connector.class`: `io.confluent.connect.jdbc.JdbcSourceConnector`,
				`connection.url`:  `jdbc:mysql://db.local:3306/shop`,
				`table.whitelist`: `orders`,
				`topic.prefix`:    `shop-`,
			}})
		case `/connectors/archive-sink`:
			respond(t, w, connectorResponse{Name: `archive-sink`, Config: map[string]string{
				`connector.class`: `io.confluent.connect.s3.S3SinkConnector`,
				`topics`:          `shop-orders`,
			}})
		case `/connectors/orders-source/status`, `/connectors/archive-sink/status`:
			res := statusResponse{}
			res.Connector.State = `RUNNING`
			respond(t, w, res)
		default:
			t.Errorf(`unexpected request %s %s`, r.Method, r.URL.Path)
		}
	}
}

func TestConnect_Connectors(t *testing.T) {
	client, _ := testConnect(t, workerHandler(t))

	sources, err := client.Connectors(TypeSource)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(sources, []string{`orders-source`}) {
		t.Errorf(`need [orders-source], have %v`, sources)
	}

	sinks, err := client.Connectors(TypeSink)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(sinks, []string{`archive-sink`}) {
		t.Errorf(`need [archive-sink], have %v`, sinks)
	}
}

func TestConnect_Connectors_InvalidType(t *testing.T) {
	client, hits := testConnect(t, workerHandler(t))

	_, err := client.Connectors(Type(`all`))

	argErr := &kafkaconnect.ArgumentError{}
	if !errors.As(err, &argErr) {
		t.Fatalf(`need an ArgumentError, have %T`, err)
	}

	if *hits != 0 {
		t.Errorf(`need zero network calls, have %d`, *hits)
	}
}

func TestConnect_Info(t *testing.T) {
	client, _ := testConnect(t, workerHandler(t))

	info, err := client.Info(`orders-source`)
	if err != nil {
		t.Fatal(err)
	}

	if info.Type != TypeSource || info.Class != `JDBC` || info.State != StateRunning {
		t.Errorf(`unexpected info %+v`, info)
	}

	if !reflect.DeepEqual(info.Topics, []string{`shop-orders`}) {
		t.Errorf(`need [shop-orders], have %v`, info.Topics)
	}

	if !reflect.DeepEqual(info.Subjects, []string{`shop-orders-key`, `shop-orders-value`}) {
		t.Errorf(`need the key/value subjects, have %v`, info.Subjects)
	}
}

func TestConnect_Status(t *testing.T) {
	client, _ := testConnect(t, workerHandler(t))

	state, err := client.Status(`orders-source`)
	if err != nil {
		t.Fatal(err)
	}

	if state != StateRunning {
		t.Errorf(`need RUNNING, have %s`, state)
	}
}

func TestConnect_Load(t *testing.T) {
	client, _ := testConnect(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != `/connectors` {
			t.Errorf(`unexpected request %s %s`, r.Method, r.URL.Path)
		}

		req := struct {
			Name   string            `json:"name"`
			Config map[string]string `json:"config"`
		}{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}

		if req.Name != `orders-source` || req.Config[`topic.prefix`] != `shop-` {
			t.Errorf(`unexpected request body %+v`, req)
		}

		w.WriteHeader(http.StatusCreated)
	})

	err := client.Load(`orders-source`, map[string]string{
		`connector.class`: `io.confluent.connect.jdbc.JdbcSourceConnector`,
		`topic.prefix`:    `shop-`,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestConnect_Load_EmptyArguments(t *testing.T) {
	client, hits := testConnect(t, workerHandler(t))

	if err := client.Load(``, map[string]string{`k`: `v`}); err == nil {
		t.Error(`need an error for an empty id`)
	}

	if err := client.Load(`orders-source`, nil); err == nil {
		t.Error(`need an error for an empty config`)
	}

	if *hits != 0 {
		t.Errorf(`need zero network calls, have %d`, *hits)
	}
}

func TestConnect_Lifecycle(t *testing.T) {
	tests := []struct {
		name   string
		call   func(*Connect) error
		method string
		path   string
	}{
		{`pause`, func(c *Connect) error { return c.Pause(`orders-source`) },
			http.MethodPut, `/connectors/orders-source/pause`},
		{`resume`, func(c *Connect) error { return c.Resume(`orders-source`) },
			http.MethodPut, `/connectors/orders-source/resume`},
		{`restart`, func(c *Connect) error { return c.Restart(`orders-source`) },
			http.MethodPost, `/connectors/orders-source/restart`},
		{`delete`, func(c *Connect) error { return c.Delete(`orders-source`) },
			http.MethodDelete, `/connectors/orders-source`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			client, _ := testConnect(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != test.method || r.URL.Path != test.path {
					t.Errorf(`need %s %s, have %s %s`, test.method, test.path, r.Method, r.URL.Path)
				}

				w.WriteHeader(http.StatusAccepted)
			})

			if err := test.call(client); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestConnect_Lifecycle_EmptyID(t *testing.T) {
	client, hits := testConnect(t, workerHandler(t))

	calls := []func(string) error{client.Pause, client.Resume, client.Restart, client.Delete}
	for _, call := range calls {
		argErr := &kafkaconnect.ArgumentError{}
		if err := call(``); !errors.As(err, &argErr) {
			t.Errorf(`need an ArgumentError, have %T`, err)
		}
	}

	if _, err := client.Info(``); err == nil {
		t.Error(`need an error for an empty id`)
	}

	if _, err := client.Status(``); err == nil {
		t.Error(`need an error for an empty id`)
	}

	if *hits != 0 {
		t.Errorf(`need zero network calls, have %d`, *hits)
	}
}

func TestConnect_NotFound(t *testing.T) {
	client, _ := testConnect(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	if _, err := client.Status(`missing`); !kafkaconnect.IsNotFound(err) {
		t.Fatalf(`need a 404 RequestError, have %v`, err)
	}
}
