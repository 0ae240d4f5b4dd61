package caselist

import (
	"testing"

	"github.com/bigkaa/casedesk/internal/domain/model"
)

func newCase(ref string, mutate func(c *model.Case)) *model.Case {
	c := &model.Case{ID: "id-" + ref, IsActive: true}
	c.Reference = ref
	if mutate != nil {
		mutate(c)
	}
	return c
}

func refs(cases []*model.Case) []string {
	out := make([]string, 0, len(cases))
	for _, c := range cases {
		out = append(out, c.Reference)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApply_SortByReference(t *testing.T) {
	cases := []*model.Case{newCase("B-002", nil), newCase("A-010", nil), newCase("A-001", nil)}

	got := refs(Apply(cases, Query{}))
	want := []string{"A-001", "A-010", "B-002"}
	if !equal(got, want) {
		t.Errorf("Apply() = %v, ожидалось %v", got, want)
	}

	// Исходный срез не изменён
	if cases[0].Reference != "B-002" {
		t.Error("Apply() изменил исходный срез")
	}
}

func TestApply_StableTies(t *testing.T) {
	first := newCase("A-001", func(c *model.Case) { c.ID = "first" })
	second := newCase("A-001", func(c *model.Case) { c.ID = "second" })
	got := Apply([]*model.Case{first, newCase("0-000", nil), second}, Query{})
	if got[1].ID != "first" || got[2].ID != "second" {
		t.Errorf("порядок равных ключей нарушен: %s, %s", got[1].ID, got[2].ID)
	}
}

func TestApply_TextSearch(t *testing.T) {
	cases := []*model.Case{
		newCase("R-1", func(c *model.Case) { c.Parties = "John SMITH / Jane Doe" }),
		newCase("R-2", func(c *model.Case) { c.Parties = "Brown"; c.Agency = "Smith & Co" }),
		newCase("R-3", func(c *model.Case) { c.Comments = "call smith" }),
		newCase("R-4", nil),
	}

	got := refs(Apply(cases, Query{Text: "smith"}))
	if !equal(got, []string{"R-1"}) {
		t.Errorf("поиск smith = %v, ожидалось [R-1]", got)
	}

	for _, tt := range []struct {
		name   string
		mutate func(c *model.Case)
	}{
		{"reference", func(c *model.Case) { c.Reference = "SMITH-01" }},
		{"property", func(c *model.Case) { c.Property = "12 Smithfield Rd" }},
		{"agent", func(c *model.Case) { c.Agent = "Anna Smith" }},
	} {
		c := newCase("X", tt.mutate)
		if len(Apply([]*model.Case{c}, Query{Text: "Smith"})) != 1 {
			t.Errorf("поиск по полю %s не сработал", tt.name)
		}
	}

	if len(Apply(cases, Query{Text: "   "})) != len(cases) {
		t.Error("пустой запрос должен находить все карточки")
	}
}

func TestApply_Filters(t *testing.T) {
	cases := []*model.Case{
		newCase("A", func(c *model.Case) { c.BondAmount = "900000"; c.DepositAmount = "100000" }),
		newCase("B", func(c *model.Case) { c.TransferCostReceived = "2024-01-10"; c.BondAmount = "1" }),
		newCase("C", func(c *model.Case) { c.IsActive = false; c.DepositAmount = "5" }),
	}

	tests := []struct {
		filter Filter
		want   []string
	}{
		{FilterNone, []string{"A", "B", "C"}},
		{FilterMissingBond, []string{"C"}},
		{FilterMissingDeposit, []string{"B"}},
		{FilterMissingTransferCost, []string{"A", "C"}},
		{FilterActive, []string{"A", "B"}},
		{FilterInactive, []string{"C"}},
	}

	for _, tt := range tests {
		got := refs(Apply(cases, Query{Filter: tt.filter}))
		if !equal(got, tt.want) {
			t.Errorf("фильтр %q = %v, ожидалось %v", tt.filter, got, tt.want)
		}
	}
}

func TestParseFilter(t *testing.T) {
	for _, s := range []string{"", "none", "NONE"} {
		f, err := ParseFilter(s)
		if err != nil || f != FilterNone {
			t.Errorf("ParseFilter(%q) = (%q, %v)", s, f, err)
		}
	}
	if f, err := ParseFilter("Missing-Bond"); err != nil || f != FilterMissingBond {
		t.Errorf("ParseFilter(Missing-Bond) = (%q, %v)", f, err)
	}
	if _, err := ParseFilter("deleted"); err == nil {
		t.Error("ожидалась ошибка для неизвестного фильтра")
	}
}

func TestGroupByOwner(t *testing.T) {
	owned := func(ref, user string) *model.Case {
		return newCase(ref, func(c *model.Case) { c.CreatedBy = model.UserRef{ID: user, Username: user} })
	}
	sorted := Apply([]*model.Case{
		owned("C-1", "bob"),
		owned("A-1", "alice"),
		newCase("B-1", nil),
		owned("A-2", "bob"),
	}, Query{})

	groups := GroupByOwner(sorted)
	if len(groups) != 3 {
		t.Fatalf("групп = %d, ожидалось 3", len(groups))
	}

	wantOrder := []string{"alice", "bob", UnknownUser}
	for i, g := range groups {
		if g.Username != wantOrder[i] {
			t.Errorf("группа %d = %q, ожидалось %q", i, g.Username, wantOrder[i])
		}
	}
	if got := refs(groups[1].Cases); !equal(got, []string{"A-2", "C-1"}) {
		t.Errorf("карточки bob = %v, ожидалось [A-2 C-1]", got)
	}
}
