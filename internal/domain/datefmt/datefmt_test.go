package datefmt

import (
	"testing"
	"time"
)

func TestNormalizeWrite(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "пустое значение", input: "", want: ""},
		{name: "N/A", input: "N/A", want: "N/A"},
		{name: "Partly", input: "Partly", want: "Partly"},
		{name: "Requested", input: "Requested", want: "Requested"},
		{name: "legacy DD/MM/YYYY", input: "05/03/2024", want: "2024-03-05"},
		{name: "legacy последний день года", input: "31/12/2023", want: "2023-12-31"},
		{name: "legacy 29 февраля високосного года", input: "29/02/2024", want: "2024-02-29"},
		{name: "legacy несуществующая дата — без изменений", input: "31/02/2024", want: "31/02/2024"},
		{name: "legacy месяц 13 — без изменений", input: "01/13/2024", want: "01/13/2024"},
		{name: "ISO без изменений", input: "2024-03-05", want: "2024-03-05"},
		{name: "метка времени без изменений", input: "2024-03-05T10:00:00Z", want: "2024-03-05T10:00:00Z"},
		{name: "произвольный текст", input: "pending bank", want: "pending bank"},
		{name: "регистр служебного значения важен", input: "n/a", want: "n/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeWrite(tt.input); got != tt.want {
				t.Errorf("NormalizeWrite(%q) = %q, ожидалось %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeRead(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "пустое значение", input: "", want: ""},
		{name: "служебное значение", input: "Requested", want: "Requested"},
		{name: "метка времени UTC", input: "2024-03-05T00:00:00.000Z", want: "2024-03-05"},
		{name: "метка времени со смещением", input: "2024-03-05T23:30:00+02:00", want: "2024-03-05"},
		{name: "ISO дата", input: "2024-03-05", want: "2024-03-05"},
		{name: "legacy дата", input: "05/03/2024", want: "2024-03-05"},
		{name: "текст с T не обрезается", input: "Transfer pending", want: "Transfer pending"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeRead(tt.input); got != tt.want {
				t.Errorf("NormalizeRead(%q) = %q, ожидалось %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestLegacyRoundTrip проверяет, что результат записи стабилен при повторном чтении.
func TestLegacyRoundTrip(t *testing.T) {
	start := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3*366; i++ {
		d := start.AddDate(0, 0, i)
		legacy := d.Format("02/01/2006")
		want := d.Format("2006-01-02")

		written := NormalizeWrite(legacy)
		if written != want {
			t.Fatalf("NormalizeWrite(%q) = %q, ожидалось %q", legacy, written, want)
		}
		if read := NormalizeRead(written); read != written {
			t.Fatalf("NormalizeRead(%q) = %q, ожидалось идемпотентное чтение", written, read)
		}
	}
}

func TestSentinelsIdentity(t *testing.T) {
	for _, s := range []string{SentinelNA, SentinelPartly, SentinelRequested} {
		if got := NormalizeRead(s); got != s {
			t.Errorf("NormalizeRead(%q) = %q", s, got)
		}
		if got := NormalizeWrite(s); got != s {
			t.Errorf("NormalizeWrite(%q) = %q", s, got)
		}
		if got := Display(s); got != s {
			t.Errorf("Display(%q) = %q", s, got)
		}
	}
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "2024-03-05", want: "05/03/2024"},
		{input: "N/A", want: "N/A"},
		{input: "", want: Unknown},
		{input: "2024-03-05T08:15:00Z", want: "05/03/2024"},
		{input: "05/03/2024", want: "05/03/2024"},
		{input: "awaiting bank", want: "awaiting bank"},
	}

	for _, tt := range tests {
		if got := Display(tt.input); got != tt.want {
			t.Errorf("Display(%q) = %q, ожидалось %q", tt.input, got, tt.want)
		}
	}
}

func TestDaysSince(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	clock := FixedClock(now)

	t.Run("ровно 10 дней назад", func(t *testing.T) {
		v := now.Add(-10 * 24 * time.Hour).Format(time.RFC3339)
		days, ok := DaysSince(v, clock)
		if !ok || days != 10 {
			t.Errorf("DaysSince = (%d, %v), ожидалось (10, true)", days, ok)
		}
	})

	t.Run("дата без времени", func(t *testing.T) {
		days, ok := DaysSince("2024-06-05", clock)
		if !ok || days != 10 {
			t.Errorf("DaysSince = (%d, %v), ожидалось (10, true)", days, ok)
		}
	})

	t.Run("неполные сутки усекаются", func(t *testing.T) {
		v := now.Add(-(2*24*time.Hour + 23*time.Hour)).Format(time.RFC3339)
		days, ok := DaysSince(v, clock)
		if !ok || days != 2 {
			t.Errorf("DaysSince = (%d, %v), ожидалось (2, true)", days, ok)
		}
	})

	t.Run("час в будущем — неизвестно", func(t *testing.T) {
		v := now.Add(time.Hour).Format(time.RFC3339)
		if days, ok := DaysSince(v, clock); ok {
			t.Errorf("DaysSince = %d, ожидалось неизвестное значение", days)
		}
		if got := DaysSinceLabel(v, clock); got != Unknown {
			t.Errorf("DaysSinceLabel = %q, ожидалось %q", got, Unknown)
		}
	})

	for _, v := range []string{"", "N/A", "Partly", "Requested", "not a date"} {
		if _, ok := DaysSince(v, clock); ok {
			t.Errorf("DaysSince(%q): ожидалось неизвестное значение", v)
		}
		if got := DaysSinceLabel(v, clock); got != Unknown {
			t.Errorf("DaysSinceLabel(%q) = %q, ожидалось %q", v, got, Unknown)
		}
	}
}
