// Package version implements ordering over release-version strings.
//
// Versions are compared using generic release-versioning rules: numeric
// components compare numerically, textual qualifiers compare by the
// conventional pre-release ranking (alpha < beta < milestone < rc <
// snapshot < release < sp), and a missing component counts as zero. The
// comparison is intentionally looser than strict SemVer so that values
// like "31.0-jre", "5.3.0.RELEASE", or a bare "17" order sensibly.
package version

import (
	"strconv"
	"strings"
)

// qualifier ranks. An empty qualifier is a release marker; unknown
// qualifiers sort after "sp" and fall back to lexical ordering.
const (
	rankAlpha     = 1
	rankBeta      = 2
	rankMilestone = 3
	rankRC        = 4
	rankSnapshot  = 5
	rankRelease   = 6
	rankSP        = 7
	rankUnknown   = 8
)

var qualifierRanks = map[string]int{
	"alpha":     rankAlpha,
	"a":         rankAlpha,
	"beta":      rankBeta,
	"b":         rankBeta,
	"milestone": rankMilestone,
	"m":         rankMilestone,
	"rc":        rankRC,
	"cr":        rankRC,
	"snapshot":  rankSnapshot,
	"":          rankRelease,
	"ga":        rankRelease,
	"final":     rankRelease,
	"release":   rankRelease,
	"sp":        rankSP,
}

// token is one parsed version component: either a number or a qualifier.
type token struct {
	num     int
	qual    string
	numeric bool
}

// Compare returns -1, 0, or 1 ordering a relative to b.
// Two empty versions compare equal; an empty version is lower than any
// concrete one.
func Compare(a, b string) int {
	if a == "" && b == "" {
		return 0
	}
	if a == "" {
		return -1
	}
	if b == "" {
		return 1
	}

	ta, tb := tokenize(a), tokenize(b)
	n := max(len(ta), len(tb))
	for i := range n {
		var x, y token
		if i < len(ta) {
			x = ta[i]
		}
		if i < len(tb) {
			y = tb[i]
		}
		if c := compareTokens(x, y, i >= len(ta), i >= len(tb)); c != 0 {
			return c
		}
	}
	return 0
}

// IsBelow reports whether v orders strictly below min.
// Following the original contract, a blank version or blank threshold is
// never "below".
func IsBelow(v, min string) bool {
	if v == "" || min == "" {
		return false
	}
	return Compare(v, min) < 0
}

// Highest returns the greatest version among candidates, ignoring blank
// entries entirely. It returns "" when every candidate is blank or the
// slice is empty.
func Highest(candidates []string) string {
	best := ""
	for _, v := range candidates {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if best == "" || Compare(v, best) > 0 {
			best = v
		}
	}
	return best
}

func compareTokens(x, y token, xMissing, yMissing bool) int {
	// A missing slot plays as the zero number: "1.0" == "1.0.0", while
	// "1.0" > "1.0-alpha" because the qualifier ranks below release.
	if xMissing {
		x = token{num: 0, numeric: true}
	}
	if yMissing {
		y = token{num: 0, numeric: true}
	}

	switch {
	case x.numeric && y.numeric:
		return cmp(x.num, y.num)
	case x.numeric:
		// Numbers order above any qualifier, including release markers,
		// except that zero against a release marker is a tie ("1.0" vs
		// "1.0.ga").
		if x.num == 0 && qualifierRank(y.qual) == rankRelease {
			return 0
		}
		if qualifierRank(y.qual) > rankRelease {
			return -1
		}
		return 1
	case y.numeric:
		return -compareTokens(y, x, false, false)
	default:
		rx, ry := qualifierRank(x.qual), qualifierRank(y.qual)
		if rx != ry {
			return cmp(rx, ry)
		}
		return strings.Compare(x.qual, y.qual)
	}
}

func qualifierRank(q string) int {
	if r, ok := qualifierRanks[q]; ok {
		return r
	}
	return rankUnknown
}

// tokenize splits a version string into numeric and qualifier tokens.
// Separators are '.', '-', and '_'; transitions between digits and
// letters also split ("1a" parses as 1, "a"). Tokens are lowercased.
func tokenize(v string) []token {
	v = strings.ToLower(strings.TrimSpace(v))
	var tokens []token
	var cur strings.Builder
	curDigit := false

	flush := func() {
		if cur.Len() == 0 {
			return
		}
		s := cur.String()
		cur.Reset()
		if curDigit {
			n, err := strconv.Atoi(s)
			if err != nil {
				// Numbers too large for int still order; clamp.
				n = int(^uint(0) >> 1)
			}
			tokens = append(tokens, token{num: n, numeric: true})
			return
		}
		tokens = append(tokens, token{qual: s})
	}

	for _, r := range v {
		switch {
		case r == '.' || r == '-' || r == '_':
			flush()
		case r >= '0' && r <= '9':
			if cur.Len() > 0 && !curDigit {
				flush()
			}
			curDigit = true
			cur.WriteRune(r)
		default:
			if cur.Len() > 0 && curDigit {
				flush()
			}
			curDigit = false
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

func cmp(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
