package domain

import (
	"encoding/json"
	"testing"
)

func TestDefinitionsAreTotal(t *testing.T) {
	defs := Definitions()
	if len(defs) != 17 {
		t.Fatalf("Definitions() has %d entries, want 17", len(defs))
	}

	seen := make(map[string]bool, len(defs))
	for i, def := range defs {
		if def.Type != DataType(i) {
			t.Errorf("definition %d has Type %v", i, def.Type)
		}
		if def.Label == "" || def.Description == "" {
			t.Errorf("definition %s is incomplete", def.Type)
		}
		tag := def.Type.String()
		if tag == "" || seen[tag] {
			t.Errorf("tag %q empty or repeated", tag)
		}
		seen[tag] = true
	}
}

func TestParseDataType(t *testing.T) {
	for _, dt := range AllDataTypes() {
		got, ok := ParseDataType(dt.String())
		if !ok || got != dt {
			t.Errorf("ParseDataType(%q) = %v, %v", dt.String(), got, ok)
		}
	}

	if _, ok := ParseDataType("FullName"); ok {
		t.Error("tags are case-sensitive")
	}
	if _, ok := ParseDataType("ssn"); ok {
		t.Error("unknown tag parsed")
	}
}

func TestDataTypeText(t *testing.T) {
	data, err := json.Marshal(map[string]DataType{"type": PostalCode})
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if string(data) != `{"type":"postalCode"}` {
		t.Errorf("json.Marshal() = %s", data)
	}

	var decoded struct {
		Type DataType `json:"type"`
	}
	if err := json.Unmarshal([]byte(`{"type":"carPlate"}`), &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if decoded.Type != CarPlate {
		t.Errorf("decoded = %v, want carPlate", decoded.Type)
	}

	if err := json.Unmarshal([]byte(`{"type":"ssn"}`), &decoded); err == nil {
		t.Error("unknown tag should fail to decode")
	}

	if DataType(99).Valid() || DataType(-1).Valid() {
		t.Error("out of range data type reported valid")
	}
}

func TestLabelFor(t *testing.T) {
	if got := LabelFor(PostalCode); got != "Codigo postal (CEP)" {
		t.Errorf("LabelFor(postalCode) = %q", got)
	}
}

func TestSortByFavorite(t *testing.T) {
	items := DefaultItems()
	items[Email].Favorite = true
	items[CNPJ].Favorite = true
	items[LoremIpsum].Favorite = true

	sorted := SortByFavorite(Definitions(), &items)

	want := []DataType{CNPJ, Email, LoremIpsum, CPF, FullName}
	for i, dt := range want {
		if sorted[i].Type != dt {
			t.Errorf("sorted[%d] = %s, want %s", i, sorted[i].Type, dt)
		}
	}
	if len(sorted) != NumDataTypes {
		t.Errorf("len(sorted) = %d, want %d", len(sorted), NumDataTypes)
	}
}
