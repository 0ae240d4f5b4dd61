// Пакет caselist — поиск, фильтрация, сортировка и группировка карточек
// для Dashboard и «Мои сделки».
package caselist

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/bigkaa/casedesk/internal/domain/model"
)

// UnknownUser — группа для карточек без известного владельца.
const UnknownUser = "Unknown User"

// Filter — взаимоисключающий фильтр списка.
type Filter string

const (
	FilterNone                Filter = ""
	FilterMissingBond         Filter = "missing-bond"
	FilterMissingDeposit      Filter = "missing-deposit"
	FilterMissingTransferCost Filter = "missing-transfer-cost"
	FilterActive              Filter = "active"
	FilterInactive            Filter = "inactive"
)

// Filters возвращает допустимые значения фильтра (кроме пустого).
func Filters() []Filter {
	return []Filter{
		FilterMissingBond, FilterMissingDeposit, FilterMissingTransferCost,
		FilterActive, FilterInactive,
	}
}

// ParseFilter разбирает значение фильтра из запроса. "" и "none" — без фильтра.
func ParseFilter(s string) (Filter, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "none" {
		return FilterNone, nil
	}
	f := Filter(s)
	if slices.Contains(Filters(), f) {
		return f, nil
	}
	return FilterNone, fmt.Errorf("недопустимый фильтр %q", s)
}

// Query — параметры выборки.
type Query struct {
	// Text — подстрока для поиска (без учёта регистра)
	Text string
	// Filter — активный фильтр
	Filter Filter
}

// Group — карточки одного владельца.
type Group struct {
	Username string        `json:"username"`
	Cases    []*model.Case `json:"cases"`
}

// Apply фильтрует карточки и сортирует по reference (стабильно, по возрастанию).
// Исходный срез не изменяется.
func Apply(cases []*model.Case, q Query) []*model.Case {
	needle := strings.ToLower(strings.TrimSpace(q.Text))

	out := make([]*model.Case, 0, len(cases))
	for _, c := range cases {
		if !matchesText(c, needle) || !matchesFilter(c, q.Filter) {
			continue
		}
		out = append(out, c)
	}

	SortByReference(out)
	return out
}

// SortByReference сортирует карточки по reference, сохраняя порядок равных.
func SortByReference(cases []*model.Case) {
	slices.SortStableFunc(cases, func(a, b *model.Case) int {
		return cmp.Compare(a.Reference, b.Reference)
	})
}

// GroupByOwner группирует карточки по username владельца.
// Порядок групп — по первому появлению, порядок внутри группы сохраняется.
func GroupByOwner(cases []*model.Case) []Group {
	var groups []Group
	index := make(map[string]int)

	for _, c := range cases {
		owner := c.CreatedBy.Username
		if owner == "" {
			owner = UnknownUser
		}
		i, ok := index[owner]
		if !ok {
			i = len(groups)
			index[owner] = i
			groups = append(groups, Group{Username: owner})
		}
		groups[i].Cases = append(groups[i].Cases, c)
	}
	return groups
}

// matchesText проверяет вхождение подстроки в reference, parties, property или agent.
func matchesText(c *model.Case, needle string) bool {
	if needle == "" {
		return true
	}
	for _, v := range []string{c.Reference, c.Parties, c.Property, c.Agent} {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

func matchesFilter(c *model.Case, f Filter) bool {
	switch f {
	case FilterMissingBond:
		return c.BondAmount == ""
	case FilterMissingDeposit:
		return c.DepositAmount == ""
	case FilterMissingTransferCost:
		return c.TransferCostReceived == ""
	case FilterActive:
		return c.IsActive
	case FilterInactive:
		return !c.IsActive
	default:
		return true
	}
}
