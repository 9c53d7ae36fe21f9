package feature

import (
	"fmt"
	"strconv"
	"strings"
)

/*
Compare takes two value atoms and returns -1, 0 or 1 depending on their
natural order: numbers compare numerically, text lexicographically, and
any number sorts before any text.
*/
func Compare(a, b interface{}) int {
	af, aNum := a.(float64)
	bf, bNum := b.(float64)
	switch {
	case aNum && bNum:
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	case aNum:
		return -1
	case bNum:
		return 1
	}
	return strings.Compare(Format(a), Format(b))
}

/*
Format returns the string representation of a value atom used on clause
strings. Numbers use the shortest representation that parses back to the
same float64.
*/
func Format(v interface{}) string {
	switch vv := v.(type) {
	case string:
		return vv
	case float64:
		return strconv.FormatFloat(vv, 'f', -1, 64)
	case nil:
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// ParseNumber parses a numeric value atom from its string representation.
func ParseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
