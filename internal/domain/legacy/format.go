package legacy

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
	zeroDateTime   = "0000-00-00 00:00:00"
)

// FormatPrice renders a price with a comma as decimal separator. The value is
// truncated to three decimals first and then rounded to two, so 12.3456 becomes
// "12,35". Zero renders as "0".
func FormatPrice(price float64) string {
	value := decimal.NewFromFloat(price).Truncate(3).Round(2)
	if value.IsZero() {
		return "0"
	}
	return strings.Replace(value.StringFixed(2), ".", ",", 1)
}

// DiscountPercent is the saving of price against pseudo in percent, rounded to
// two decimals. It is 0 when pseudo is 0.
func DiscountPercent(price, pseudo float64) float64 {
	if pseudo == 0 {
		return 0
	}

	hundred := decimal.NewFromInt(100)
	d := decimal.NewFromFloat(price).
		Div(decimal.NewFromFloat(pseudo)).
		Mul(hundred).
		Sub(hundred).
		Round(2).
		Neg()

	return d.InexactFloat64()
}

func pseudoPricePercent(price, pseudo float64) map[string]interface{} {
	discount := DiscountPercent(price, pseudo)
	return map[string]interface{}{
		"int":   int(math.Round(discount)),
		"float": discount,
	}
}

func formatDate(t *time.Time) interface{} {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.Format(dateLayout)
}

func dateToString(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func formatDateTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return zeroDateTime
	}
	return t.Format(dateTimeLayout)
}

func optionalInt(v int) interface{} {
	if v == 0 {
		return nil
	}
	return v
}

// isEmpty reports whether v would be considered unset by legacy templates.
func isEmpty(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case int:
		return val == 0
	case int64:
		return val == 0
	case float64:
		return val == 0
	case string:
		return val == "" || val == "0"
	case []interface{}:
		return len(val) == 0
	case map[string]interface{}:
		return len(val) == 0
	}
	return false
}

func merge(dst map[string]interface{}, src map[string]interface{}) map[string]interface{} {
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
