package schemaregistry

import (
	"errors"
	"testing"

	"github.com/tryfix/kafkaconnect"
)

func TestSchema_CanonicalMatchesAcrossVariants(t *testing.T) {
	raw := RawSchema(`{"type": "record", "name": "Order", "fields": [{"name": "id", "type": "int"}]}`)
	structured := StructuredSchema(map[string]interface{}{
		`type`: `record`,
		`name`: `Order`,
		`fields`: []interface{}{
			map[string]interface{}{`name`: `id`, `type`: `int`},
		},
	})

	rawCanonical, err := raw.canonical()
	if err != nil {
		t.Fatal(err)
	}

	structuredCanonical, err := structured.canonical()
	if err != nil {
		t.Fatal(err)
	}

	// identical schema content has to submit an identical payload no matter
	// how the caller spelled it
	if rawCanonical != structuredCanonical {
		t.Errorf(`need %s, have %s`, structuredCanonical, rawCanonical)
	}
}

func TestSchema_CanonicalNormalizesWhitespace(t *testing.T) {
	spaced := RawSchema(`{ "type" : "string" }`)
	compact := RawSchema(`{"type":"string"}`)

	a, err := spaced.canonical()
	if err != nil {
		t.Fatal(err)
	}

	b, err := compact.canonical()
	if err != nil {
		t.Fatal(err)
	}

	if a != b {
		t.Errorf(`need %s, have %s`, b, a)
	}
}

func TestSchema_CanonicalRejectsNonJSON(t *testing.T) {
	_, err := RawSchema(`{"type":"record"`).canonical()

	schemaErr := &kafkaconnect.SchemaError{}
	if !errors.As(err, &schemaErr) {
		t.Fatalf(`need a SchemaError, have %T`, err)
	}
}

func TestSchema_Empty(t *testing.T) {
	if !RawSchema(``).empty() {
		t.Error(`need an empty raw schema to report empty`)
	}

	if !StructuredSchema(nil).empty() {
		t.Error(`need an empty structured schema to report empty`)
	}

	if RawSchema(`"string"`).empty() {
		t.Error(`need a non-empty raw schema to report non-empty`)
	}
}

func TestVersion_String(t *testing.T) {
	if VersionLatest.String() != `Latest` {
		t.Errorf(`need Latest, have %s`, VersionLatest)
	}

	if VersionAll.String() != `All` {
		t.Errorf(`need All, have %s`, VersionAll)
	}

	if Version(3).String() != `3` {
		t.Errorf(`need 3, have %s`, Version(3))
	}
}
