package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestFieldLists(t *testing.T) {
	if got := len(DateFields()); got != 26 {
		t.Errorf("DateFields() = %d полей, ожидалось 26", got)
	}
	if got := len(TextFields()); got != 21 {
		t.Errorf("TextFields() = %d полей, ожидалось 21", got)
	}
	for _, f := range DateFields() {
		if !f.IsDate() {
			t.Errorf("%s: IsDate() = false", f)
		}
	}
	if FieldReference.IsDate() {
		t.Error("reference не должно быть датовым полем")
	}
}

// TestCaseFields_AllFieldsAddressable проверяет, что каждое поле схемы
// доступно через Value/Set и попадает в JSON под своим именем.
func TestCaseFields_AllFieldsAddressable(t *testing.T) {
	var f CaseFields
	all := append(TextFields(), DateFields()...)
	for _, name := range all {
		if !f.Set(name, "v-"+string(name)) {
			t.Fatalf("Set(%s) вернул false", name)
		}
	}

	data, err := json.Marshal(&f)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if len(raw) != len(all) {
		t.Errorf("в JSON %d ключей, ожидалось %d", len(raw), len(all))
	}
	for _, name := range all {
		if raw[string(name)] != "v-"+string(name) {
			t.Errorf("JSON[%s] = %q", name, raw[string(name)])
		}
		if f.Value(name) != "v-"+string(name) {
			t.Errorf("Value(%s) = %q", name, f.Value(name))
		}
	}

	if f.Set("unknownField", "x") {
		t.Error("Set для неизвестного поля должен вернуть false")
	}
}

func TestCaseFields_MapDates(t *testing.T) {
	f := CaseFields{Reference: "A-001", LodgementDate: "x"}
	f.MapDates(strings.ToUpper)
	if f.LodgementDate != "X" {
		t.Errorf("LodgementDate = %q, ожидалось X", f.LodgementDate)
	}
	if f.Reference != "A-001" {
		t.Errorf("текстовое поле изменено: %q", f.Reference)
	}
}

func TestParseColors(t *testing.T) {
	colors, err := ParseColors(map[string]string{
		"reference":     "#FF0000",
		"lodgementDate": "#0f0",
		"comments":      "#123456",
		"agent":         "",
	})
	if err != nil {
		t.Fatalf("ParseColors: %v", err)
	}
	if colors[FieldReference] != "#ff0000" {
		t.Errorf("reference = %q", colors[FieldReference])
	}
	if _, ok := colors[FieldAgent]; ok {
		t.Error("пустой цвет должен снимать подсветку")
	}

	_, err = ParseColors(map[string]string{"notAField": "#fff"})
	if !errors.Is(err, ErrInvalidColors) {
		t.Errorf("ожидалась ErrInvalidColors для неизвестного поля, получено %v", err)
	}

	_, err = ParseColors(map[string]string{"reference": "red"})
	if !errors.Is(err, ErrInvalidColors) {
		t.Errorf("ожидалась ErrInvalidColors для имени цвета, получено %v", err)
	}
}

func TestSanitizeColors(t *testing.T) {
	clean, dropped := SanitizeColors(Colors{
		FieldReference: "#abc",
		"legacyField":  "#fff",
		FieldAgent:     "javascript:alert(1)",
	})
	if len(clean) != 1 || clean[FieldReference] != "#abc" {
		t.Errorf("clean = %v", clean)
	}
	if len(dropped) != 2 {
		t.Errorf("dropped = %v, ожидалось 2 ключа", dropped)
	}
}

func TestUnreadCount(t *testing.T) {
	msgs := []*Message{
		{ID: "1", ReadBy: []string{"u1", "u2"}},
		{ID: "2", ReadBy: []string{"u2"}},
		{ID: "3"},
	}
	if got := UnreadCount(msgs, "u1"); got != 2 {
		t.Errorf("UnreadCount(u1) = %d, ожидалось 2", got)
	}
	if got := UnreadCount(msgs, "u2"); got != 1 {
		t.Errorf("UnreadCount(u2) = %d, ожидалось 1", got)
	}
}
