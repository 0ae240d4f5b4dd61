// Пакет fees — калькулятор расходов на переоформление:
// налог на переход права (transfer duty) по прогрессивной шкале,
// пошлина регистрационной палаты и вознаграждение конвейенсера.
// Все суммы — в центах (int64), округление — до цента вниз.
package fees

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidAmount — строку не удалось разобрать как сумму.
var ErrInvalidAmount = errors.New("некорректная сумма")

// MaxAmount — наибольшая принимаемая сумма в центах (10 трлн рандов).
// При ней все промежуточные произведения шкал остаются в пределах int64.
const MaxAmount int64 = 1_000_000_000_000_000

// VATPercent — ставка НДС на вознаграждение конвейенсера.
const VATPercent = 15

// bracket — ступень шкалы: для цены выше From налог равен Base + Rate% от превышения.
type bracket struct {
	From int64 // центы
	Base int64 // центы
	Rate int64 // проценты
}

// dutyBrackets — шкала transfer duty (по возрастанию From).
var dutyBrackets = []bracket{
	{From: 0, Base: 0, Rate: 0},
	{From: 1_100_000_00, Base: 0, Rate: 3},
	{From: 1_512_500_00, Base: 12_375_00, Rate: 6},
	{From: 2_117_500_00, Base: 48_675_00, Rate: 8},
	{From: 2_722_500_00, Base: 97_075_00, Rate: 11},
	{From: 12_100_000_00, Base: 1_128_600_00, Rate: 13},
}

// deedsFee — ступень тарифа регистрационной палаты: цена до UpTo включительно → Fee.
type deedsFee struct {
	UpTo int64
	Fee  int64
}

var deedsFees = []deedsFee{
	{UpTo: 100_000_00, Fee: 50_00},
	{UpTo: 200_000_00, Fee: 107_00},
	{UpTo: 300_000_00, Fee: 741_00},
	{UpTo: 600_000_00, Fee: 1_152_00},
	{UpTo: 800_000_00, Fee: 1_600_00},
	{UpTo: 1_000_000_00, Fee: 1_858_00},
	{UpTo: 2_000_000_00, Fee: 2_248_00},
	{UpTo: 4_000_000_00, Fee: 3_130_00},
	{UpTo: 6_000_000_00, Fee: 3_784_00},
	{UpTo: 8_000_000_00, Fee: 4_518_00},
	{UpTo: 10_000_000_00, Fee: 5_247_00},
	{UpTo: 15_000_000_00, Fee: 6_271_00},
	{UpTo: 20_000_000_00, Fee: 7_289_00},
}

// deedsFeeMax — пошлина для цены выше последней ступени.
const deedsFeeMax = 10_218_00

// Параметры вознаграждения конвейенсера: базовая сумма до conveyBaseUpTo
// и надбавка за каждые полные или неполные conveyStep сверх неё.
const (
	conveyBase     = 7_500_00
	conveyBaseUpTo = 500_000_00
	conveyStep     = 100_000_00
	conveyPerStep  = 1_050_00
)

// Quote — расчёт расходов покупателя.
type Quote struct {
	Price           int64 `json:"price"`
	TransferDuty    int64 `json:"transferDuty"`
	DeedsOfficeFee  int64 `json:"deedsOfficeFee"`
	ConveyancingFee int64 `json:"conveyancingFee"`
	VAT             int64 `json:"vat"`
	Total           int64 `json:"total"`
}

// NewQuote рассчитывает расходы для цены в центах.
// Цена вне диапазона [0, MaxAmount] отклоняется с ErrInvalidAmount.
func NewQuote(price int64) (Quote, error) {
	if price < 0 || price > MaxAmount {
		return Quote{}, fmt.Errorf("%w: %d", ErrInvalidAmount, price)
	}
	q := Quote{
		Price:           price,
		TransferDuty:    TransferDuty(price),
		DeedsOfficeFee:  DeedsOfficeFee(price),
		ConveyancingFee: ConveyancingFee(price),
	}
	q.VAT = q.ConveyancingFee * VATPercent / 100
	q.Total = q.TransferDuty + q.DeedsOfficeFee + q.ConveyancingFee + q.VAT
	return q, nil
}

// TransferDuty возвращает налог на переход права в центах.
func TransferDuty(price int64) int64 {
	if price <= 0 {
		return 0
	}
	b := dutyBrackets[0]
	for _, next := range dutyBrackets[1:] {
		if price <= next.From {
			break
		}
		b = next
	}
	return b.Base + (price-b.From)*b.Rate/100
}

// DeedsOfficeFee возвращает пошлину регистрационной палаты в центах.
func DeedsOfficeFee(price int64) int64 {
	if price <= 0 {
		return 0
	}
	for _, f := range deedsFees {
		if price <= f.UpTo {
			return f.Fee
		}
	}
	return deedsFeeMax
}

// ConveyancingFee возвращает вознаграждение конвейенсера без НДС в центах.
func ConveyancingFee(price int64) int64 {
	if price <= 0 {
		return 0
	}
	if price <= conveyBaseUpTo {
		return conveyBase
	}
	steps := (price - conveyBaseUpTo + conveyStep - 1) / conveyStep
	return conveyBase + steps*conveyPerStep
}

// ParseAmount разбирает сумму, введённую в свободной форме, в центы.
// Допускаются префикс валюты ("R", "ZAR"), пробелы и запятые как разделители
// тысяч, запятая или точка как десятичный разделитель (не более двух знаков).
func ParseAmount(s string) (int64, error) {
	raw := s
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(strings.ToUpper(s), "ZAR"), "R")

	var b strings.Builder
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	s = b.String()
	if s == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	whole, frac := s, ""
	// Последний разделитель, за которым 1–2 цифры, считается десятичным.
	if i := strings.LastIndexAny(s, ".,"); i >= 0 && len(s)-i-1 <= 2 && len(s)-i-1 > 0 {
		whole, frac = s[:i], s[i+1:]
	}
	whole = strings.NewReplacer(",", "", ".", "").Replace(whole)

	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units < 0 || units > MaxAmount/100 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	cents := int64(0)
	if frac != "" {
		if len(frac) == 1 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || cents < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
		}
	}
	amount := units*100 + cents
	if amount > MaxAmount {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return amount, nil
}

// FormatAmount форматирует центы как "R 1 250 000.00".
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	digits := strconv.FormatInt(cents/100, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%sR %s.%02d", sign, b.String(), cents%100)
}
