// Package extractor finds "<amount><COIN>/<usd>$" giveaway announcements in
// chat text.
package extractor

import (
	"iter"
	"regexp"
	"strconv"
	"strings"
)

// Match is one giveaway announcement found in a message.
type Match struct {
	CoinAmount float64 `json:"coin_amount"`
	Coin       string  `json:"coin"`
	USDAmount  float64 `json:"usd_amount"`
}

var pattern = regexp.MustCompile(`(\d{1,6}(?:\.\d{1,6})?)\s*([A-Za-z]{1,5})\s*/\s*(\d{1,6}(?:\.\d{1,2})?)\$`)

// Scan returns the matches in text from left to right. The sequence holds no
// state between iterations and can be ranged over any number of times.
func Scan(text string) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		pos := 0
		for pos < len(text) {
			loc := pattern.FindStringSubmatchIndex(text[pos:])
			if loc == nil {
				return
			}
			m, ok := build(text[pos:], loc)
			pos += loc[1]
			if !ok {
				continue
			}
			if !yield(m) {
				return
			}
		}
	}
}

// All materializes Scan(text).
func All(text string) []Match {
	var out []Match
	for m := range Scan(text) {
		out = append(out, m)
	}
	return out
}

func build(s string, loc []int) (Match, bool) {
	amount, err := strconv.ParseFloat(s[loc[2]:loc[3]], 64)
	if err != nil {
		return Match{}, false
	}
	usd, err := strconv.ParseFloat(s[loc[6]:loc[7]], 64)
	if err != nil {
		return Match{}, false
	}
	return Match{
		CoinAmount: amount,
		Coin:       strings.ToUpper(s[loc[4]:loc[5]]),
		USDAmount:  usd,
	}, true
}
