package vote

import (
	"cmp"
	"strings"
	"unicode"
)

// NaturalCompareFold compares two strings case-insensitively, treating runs
// of ASCII digits as numbers, so "Item 9" sorts before "item 10".
func NaturalCompareFold(a, b string) int {
	ar, br := []rune(a), []rune(b)
	i, j := 0, 0
	for i < len(ar) && j < len(br) {
		if isDigit(ar[i]) && isDigit(br[j]) {
			si, sj := i, j
			for i < len(ar) && isDigit(ar[i]) {
				i++
			}
			for j < len(br) && isDigit(br[j]) {
				j++
			}
			na := strings.TrimLeft(string(ar[si:i]), "0")
			nb := strings.TrimLeft(string(br[sj:j]), "0")
			if c := cmp.Compare(len(na), len(nb)); c != 0 {
				return c
			}
			if c := strings.Compare(na, nb); c != 0 {
				return c
			}
			continue
		}

		la, lb := unicode.ToLower(ar[i]), unicode.ToLower(br[j])
		if la != lb {
			return cmp.Compare(la, lb)
		}
		i++
		j++
	}
	return cmp.Compare(len(ar)-i, len(br)-j)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
