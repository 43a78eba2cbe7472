package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Count is a whole-unit stock figure. Clients send it either as a JSON number
// or as numeric text ("12"); both decode to the same integer and anything
// fractional or non-numeric is rejected.
type Count int

func (c *Count) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}

	n, err := ParseCount(s)
	if err != nil {
		return err
	}
	*c = n
	return nil
}

func ParseCount(s string) (Count, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return Count(n), nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("%q is out of range", s)
	}
	return Count(f), nil
}
