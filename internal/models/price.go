package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Price holds a menu price as it came from the store. Older documents carry
// bare numbers, newer ones carry pre-formatted strings like "$5000.-";
// both decode into the same type and render through Display.
type Price string

func (p *Price) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Price(s)
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = Price(strconv.FormatFloat(n, 'f', -1, 64))
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(p))
}

// Display renders the canonical customer-facing form: "$<value>.-" for bare
// values, pass-through for anything already carrying a currency symbol,
// empty for missing prices. Rendering an already-rendered price is a no-op.
func (p Price) Display() string {
	s := strings.TrimSpace(string(p))
	if s == "" {
		return ""
	}
	if strings.Contains(s, "$") {
		return s
	}
	return "$" + s + ".-"
}

func (p Price) IsZero() bool {
	return strings.TrimSpace(string(p)) == ""
}

// PriceFromValue converts a raw document value (string, int or float
// depending on schema generation) into a Price.
func PriceFromValue(v interface{}) Price {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return Price(t)
	case float64:
		return Price(strconv.FormatFloat(t, 'f', -1, 64))
	case float32:
		return Price(strconv.FormatFloat(float64(t), 'f', -1, 32))
	case int:
		return Price(strconv.Itoa(t))
	case int32:
		return Price(strconv.FormatInt(int64(t), 10))
	case int64:
		return Price(strconv.FormatInt(t, 10))
	default:
		return ""
	}
}
