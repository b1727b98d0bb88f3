package extract

import (
	"strconv"
	"strings"
)

var currencyPrefixes = []string{"us$", "usd", "$", "€", "£", "eur", "gbp"}

var currencySuffixes = []string{"usd", "dollars", "eur", "euros"}

// ParseAmount normalizes a currency string such as "$1,000.50" or "USD 250"
// to a number. Thousands separators and currency symbols are optional.
func ParseAmount(s string) (float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, p := range currencyPrefixes {
		if strings.HasPrefix(s, p) {
			s = strings.TrimSpace(s[len(p):])
			break
		}
	}
	for _, p := range currencySuffixes {
		if strings.HasSuffix(s, p) {
			s = strings.TrimSpace(s[:len(s)-len(p)])
			break
		}
	}
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// ParsePercent accepts "15%", "15 %", "15 percent" and plain "15".
func ParsePercent(s string) (float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, "percent")
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 || v > 100 {
		return 0, false
	}
	return v, true
}

var units = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
}

var tens = map[string]int{
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50, "sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

// ParseDays reads a day count written as digits or English words up to
// ninety-nine ("thirty", "forty-five", "forty five").
func ParseDays(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, n >= 0
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == ' ' })
	switch len(parts) {
	case 1:
		if n, ok := units[parts[0]]; ok {
			return n, true
		}
		n, ok := tens[parts[0]]
		return n, ok
	case 2:
		t, ok := tens[parts[0]]
		if !ok {
			return 0, false
		}
		u, ok := units[parts[1]]
		if !ok || u > 9 {
			return 0, false
		}
		return t + u, true
	}
	return 0, false
}
