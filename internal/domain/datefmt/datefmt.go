// Пакет datefmt — нормализация значений датовых полей карточки дела.
//
// Датовое поле хранит одну из трёх форм:
//   - пустая строка (значение отсутствует);
//   - календарная дата YYYY-MM-DD;
//   - служебное значение: N/A, Partly, Requested.
//
// Исторически часть записей сохранена в формате DD/MM/YYYY — такие значения
// принимаются при чтении и переписываются в YYYY-MM-DD при сохранении.
// Ни одна функция пакета не возвращает ошибку: некорректный ввод
// проходит без изменений.
package datefmt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Служебные значения датовых полей.
const (
	SentinelNA        = "N/A"
	SentinelPartly    = "Partly"
	SentinelRequested = "Requested"
)

// Unknown — маркер отсутствующего значения при отображении.
const Unknown = "—"

const (
	isoLayout     = "2006-01-02"
	displayLayout = "02/01/2006"
	localLayout   = "2006-01-02T15:04:05"
	day           = 24 * time.Hour
)

var (
	isoDateRe    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	legacyDateRe = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)
)

// IsSentinel проверяет, является ли значение служебным (точное совпадение).
func IsSentinel(v string) bool {
	switch v {
	case SentinelNA, SentinelPartly, SentinelRequested:
		return true
	}
	return false
}

// NormalizeRead приводит хранимое значение к виду, пригодному для формы.
// Метка времени ISO 8601 обрезается до даты, DD/MM/YYYY переписывается
// в YYYY-MM-DD, остальное возвращается как есть.
func NormalizeRead(v string) string {
	if v == "" || IsSentinel(v) {
		return v
	}
	if isoDateRe.MatchString(v) {
		return v
	}
	if i := strings.IndexByte(v, 'T'); i > 0 && isoDateRe.MatchString(v[:i]) {
		return v[:i]
	}
	if iso, ok := legacyToISO(v); ok {
		return iso
	}
	return v
}

// NormalizeWrite приводит значение формы к хранимому виду.
// Порядок правил:
//  1. пусто или служебное значение — без изменений;
//  2. DD/MM/YYYY — переписывается в YYYY-MM-DD;
//  3. YYYY-MM-DD — без изменений;
//  4. всё остальное — без изменений (сохранение никогда не отклоняется).
func NormalizeWrite(v string) string {
	if v == "" || IsSentinel(v) {
		return v
	}
	if iso, ok := legacyToISO(v); ok {
		return iso
	}
	return v
}

// Parse пытается распознать значение как дату.
// Поддерживаются YYYY-MM-DD, DD/MM/YYYY и метки времени RFC 3339
// (в том числе без смещения — трактуются как UTC).
func Parse(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" || IsSentinel(v) {
		return time.Time{}, false
	}

	if isoDateRe.MatchString(v) {
		t, err := time.ParseInLocation(isoLayout, v, time.UTC)
		return t, err == nil
	}

	if iso, ok := legacyToISO(v); ok {
		t, err := time.ParseInLocation(isoLayout, iso, time.UTC)
		return t, err == nil
	}

	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, localLayout} {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Display форматирует значение для таблиц и отчёта:
// пусто — «—», дата — DD/MM/YYYY, остальное — как есть.
func Display(v string) string {
	if v == "" {
		return Unknown
	}
	t, ok := Parse(v)
	if !ok {
		return v
	}
	return t.Format(displayLayout)
}

// DaysSince возвращает количество полных суток между датой v и clock.Now().
// Второе значение false, если дата пуста, не распознана или лежит в будущем.
func DaysSince(v string, clock Clock) (int, bool) {
	t, ok := Parse(v)
	if !ok {
		return 0, false
	}
	elapsed := clock.Now().Sub(t)
	if elapsed < 0 {
		return 0, false
	}
	return int(elapsed / day), true
}

// DaysSinceLabel — DaysSince в виде строки; «—» для неизвестного значения.
func DaysSinceLabel(v string, clock Clock) string {
	days, ok := DaysSince(v, clock)
	if !ok {
		return Unknown
	}
	return strconv.Itoa(days)
}

// legacyToISO переводит DD/MM/YYYY в YYYY-MM-DD.
// Арифметика ведётся по частям даты в UTC, без учёта локали.
// Несуществующая дата (31/02, 00/13) не конвертируется.
func legacyToISO(v string) (string, bool) {
	m := legacyDateRe.FindStringSubmatch(v)
	if m == nil {
		return "", false
	}

	dd, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	yyyy, _ := strconv.Atoi(m[3])

	if mm < 1 || mm > 12 || dd < 1 || dd > daysIn(yyyy, time.Month(mm)) {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", yyyy, mm, dd), true
}

// daysIn возвращает количество дней в месяце.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
