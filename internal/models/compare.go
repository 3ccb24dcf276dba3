package models

import (
	"bytes"
	"strings"
)

// sortRank follows the document-store ordering of mixed types so that
// embedded storage sorts the same way the server does.
func sortRank(k Kind) int {
	switch k {
	case KindNull:
		return 1
	case KindInt, KindFloat:
		return 2
	case KindString:
		return 3
	case KindRecord:
		return 4
	case KindSequence:
		return 5
	case KindRaw:
		return 6
	case KindIdentifier:
		return 7
	case KindBool:
		return 8
	case KindTimestamp:
		return 9
	default:
		return 10
	}
}

// CompareValues orders two values: -1 if a < b, 0 if equal, 1 if a > b.
func CompareValues(a, b Value) int {
	ra, rb := sortRank(a.kind), sortRank(b.kind)
	if ra != rb {
		return compareInts(int64(ra), int64(rb))
	}

	switch a.kind {
	case KindNull:
		return 0
	case KindInt, KindFloat:
		if a.kind == KindInt && b.kind == KindInt {
			return compareInts(a.num, b.num)
		}
		return compareFloats(numeric(a), numeric(b))
	case KindString:
		return strings.Compare(a.str, b.str)
	case KindIdentifier:
		return bytes.Compare(a.id[:], b.id[:])
	case KindBool:
		switch {
		case a.flag == b.flag:
			return 0
		case !a.flag:
			return -1
		default:
			return 1
		}
	case KindTimestamp:
		return a.ts.Compare(b.ts)
	default:
		return strings.Compare(a.String(), b.String())
	}
}

func numeric(v Value) float64 {
	if v.kind == KindInt {
		return float64(v.num)
	}
	return v.flt
}

func compareInts(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
