package model

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ErrInvalidColors — некорректная карта подсветки полей.
var ErrInvalidColors = errors.New("некорректная подсветка полей")

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Colors — подсветка полей: имя поля → CSS-цвет (#rgb или #rrggbb).
// Отсутствие ключа означает «без подсветки».
type Colors map[Field]string

// ParseColors проверяет произвольную карту из запроса:
// ключи должны быть известными полями, значения — hex-цветами.
// Пустое значение цвета снимает подсветку.
func ParseColors(raw map[string]string) (Colors, error) {
	out := make(Colors, len(raw))
	var problems []string

	for key, value := range raw {
		f := Field(key)
		if !f.IsKnown() {
			problems = append(problems, fmt.Sprintf("неизвестное поле %q", key))
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if !hexColorRe.MatchString(value) {
			problems = append(problems, fmt.Sprintf("поле %q: недопустимый цвет %q", key, value))
			continue
		}
		out[f] = strings.ToLower(value)
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return nil, fmt.Errorf("%w: %s", ErrInvalidColors, strings.Join(problems, "; "))
	}
	return out, nil
}

// SanitizeColors отбрасывает из хранимой карты неизвестные поля и некорректные цвета.
// Возвращает очищенную карту и список отброшенных ключей.
func SanitizeColors(c Colors) (Colors, []string) {
	out := make(Colors, len(c))
	var dropped []string
	for f, value := range c {
		if !f.IsKnown() || !hexColorRe.MatchString(value) {
			dropped = append(dropped, string(f))
			continue
		}
		out[f] = value
	}
	sort.Strings(dropped)
	return out, dropped
}

// Clone возвращает копию карты.
func (c Colors) Clone() Colors {
	if c == nil {
		return nil
	}
	out := make(Colors, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
