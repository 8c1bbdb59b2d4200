package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func parse(t *testing.T, raw string) Feature {
	t.Helper()
	var f Feature
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		t.Fatalf("feature fixture: %v", err)
	}
	return f
}

func TestFeature_FingerprintIgnoresKeyOrder(t *testing.T) {
	a := parse(t, `{"id":7,"geometry":{"type":"Point","coordinates":[37.6,55.7]},"properties":{"category":36368,"descr":"77:1:3:1"}}`)
	b := parse(t, `{"properties":{"descr":"77:1:3:1","category":36368},"geometry":{"coordinates":[37.6,55.7],"type":"Point"},"id":7}`)

	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("same content hashed differently: %s vs %s", a.Fingerprint(), b.Fingerprint())
	}
}

func TestFeature_FingerprintDistinguishesContent(t *testing.T) {
	a := parse(t, `{"id":7,"geometry":{"type":"Point","coordinates":[37.6,55.7]},"properties":{"category":1}}`)
	b := parse(t, `{"id":8,"geometry":{"type":"Point","coordinates":[37.6,55.7]},"properties":{"category":1}}`)
	c := parse(t, `{"id":7,"geometry":{"type":"Point","coordinates":[37.6,55.8]},"properties":{"category":1}}`)

	if a.Fingerprint() == b.Fingerprint() {
		t.Error("different ids must hash differently")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("different geometries must hash differently")
	}
}

func TestFeature_FingerprintStable(t *testing.T) {
	f := parse(t, `{"id":7,"geometry":{"type":"Point","coordinates":[37.6,55.7]},"properties":{"category":1}}`)
	if f.Fingerprint() != f.Fingerprint() {
		t.Error("fingerprint must be deterministic")
	}
}

func TestFeature_MarshalPreservesRawPayload(t *testing.T) {
	raw := `{"id":7,"geometry":{"type":"Point","coordinates":[37.6,55.7]},"properties":{"options":{"cad_num":"77:1:3:1"},"extra":[1,2,3]}}`
	f := parse(t, raw)
	out, err := json.Marshal(f)
	if err != nil {
		t.Fatal(err)
	}
	var got, want any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(raw), &want); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("marshal dropped payload: got %s", out)
	}
}

func TestFeature_Options(t *testing.T) {
	f := parse(t, `{"id":1,"geometry":{"type":"Point","coordinates":[0,0]},"properties":{"category":36368,"options":{"cad_num":"50:27:20205:1551","land_record_area":500.5,"no_coords":true}}}`)

	if f.Category() != 36368 {
		t.Errorf("Category = %d, want 36368", f.Category())
	}
	if got := f.OptionString("cad_num"); got != "50:27:20205:1551" {
		t.Errorf("OptionString(cad_num) = %q", got)
	}
	if got := f.OptionString("missing"); got != "" {
		t.Errorf("OptionString(missing) = %q, want empty", got)
	}
	if !f.NoCoords() {
		t.Error("NoCoords must be true")
	}

	bare := parse(t, `{"id":2,"geometry":{"type":"Point","coordinates":[0,0]},"properties":{}}`)
	if bare.Options() == nil {
		t.Error("Options must never be nil")
	}
	if bare.NoCoords() {
		t.Error("NoCoords must default to false")
	}
	if bare.Category() != 0 {
		t.Errorf("Category without properties = %d, want 0", bare.Category())
	}
}

func TestFeature_OptionNumber(t *testing.T) {
	f := parse(t, `{"id":1,"geometry":{"type":"Point","coordinates":[0,0]},"properties":{"options":{"as_string":"123","as_number":456}}}`)
	if got := f.OptionNumber("as_string"); got != "123" {
		t.Errorf("OptionNumber(as_string) = %q", got)
	}
	if got := f.OptionNumber("as_number"); got != "456" {
		t.Errorf("OptionNumber(as_number) = %q", got)
	}
	if got := f.OptionNumber("missing"); got != "" {
		t.Errorf("OptionNumber(missing) = %q, want empty", got)
	}
}

func TestExtractCadastralNumbers(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"77:05:0001005:19", []string{"77:05:0001005:19"}},
		{"parcels 50:27:20205:1551 and 50:27:20205:1552.", []string{"50:27:20205:1551", "50:27:20205:1552"}},
		{"no numbers here", nil},
		{"partial 77:05:0001005", nil},
	}
	for _, tt := range tests {
		if got := ExtractCadastralNumbers(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ExtractCadastralNumbers(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
