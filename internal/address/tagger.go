// Package address labels the US street address found in free-form listing
// text. Tokens are tagged with usaddress-style component labels; a label
// that shows up in two separate runs makes the parse ambiguous, which is
// reported as a result variant rather than an error.
package address

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Label names an address component.
type Label string

const (
	AddressNumber             Label = "AddressNumber"
	StreetNamePreDirectional  Label = "StreetNamePreDirectional"
	StreetNamePreType         Label = "StreetNamePreType"
	StreetName                Label = "StreetName"
	StreetNamePostType        Label = "StreetNamePostType"
	StreetNamePostDirectional Label = "StreetNamePostDirectional"
	OccupancyType             Label = "OccupancyType"
	OccupancyIdentifier       Label = "OccupancyIdentifier"
	PlaceName                 Label = "PlaceName"
	StateName                 Label = "StateName"
	ZipCode                   Label = "ZipCode"
)

// streetOrder is the order street components are joined in.
var streetOrder = []Label{
	AddressNumber,
	StreetNamePreType,
	StreetNamePreDirectional,
	StreetName,
	StreetNamePostType,
	StreetNamePostDirectional,
}

// Outcome distinguishes a usable labeling from an ambiguous one.
type Outcome int

const (
	// Tagged means every label occurs in at most one contiguous run.
	Tagged Outcome = iota
	// Ambiguous means some label was assigned to two separate runs of tokens.
	Ambiguous
)

func (o Outcome) String() string {
	if o == Ambiguous {
		return "ambiguous"
	}
	return "tagged"
}

// Result is the outcome of tagging a text. Components is empty when the
// outcome is Ambiguous.
type Result struct {
	Outcome    Outcome
	Components map[Label]string
	// Repeated is the label that triggered an Ambiguous outcome.
	Repeated Label
}

// Component returns the tagged value for label.
func (r Result) Component(l Label) (string, bool) {
	v, ok := r.Components[l]
	return v, ok && v != ""
}

// Street joins the house number and street name parts with single spaces,
// skipping absent parts. It returns "" when none were tagged.
func (r Result) Street() string {
	parts := make([]string, 0, len(streetOrder))
	for _, l := range streetOrder {
		if v, ok := r.Component(l); ok {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

// Unit joins the occupancy type and identifier ("Apt 4B").
func (r Result) Unit() string {
	var parts []string
	for _, l := range []Label{OccupancyType, OccupancyIdentifier} {
		if v, ok := r.Component(l); ok {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

var (
	houseNumberRe = regexp.MustCompile(`^\d{1,6}[A-Za-z]?$`)
	ordinalRe     = regexp.MustCompile(`(?i)^\d+(?:st|nd|rd|th)$`)
	occupancyIDRe = regexp.MustCompile(`^#?[A-Za-z0-9][A-Za-z0-9-]{0,5}$`)
	zipRe         = regexp.MustCompile(`^\d{5}(?:-\d{4})?$`)
)

const (
	maxStreetNameTokens = 4
	maxCityTokens       = 3
	maxStateTokens      = 3
)

// token is a whitespace-delimited word with surrounding punctuation split
// off. stop is set when trailing punctuation ends a phrase.
type token struct {
	raw   string
	core  string
	trail string
	start int
	lead  bool
	stop  bool
}

func (t token) comma() bool { return strings.Contains(t.trail, ",") }

type assignment struct {
	idx   int
	label Label
}

// Tagger labels address components in text. The zero value is ready to use
// and safe for concurrent use.
type Tagger struct{}

// New returns a Tagger.
func New() *Tagger {
	return &Tagger{}
}

// Tag scans text for a street address ("123 N Main St Apt 4, Springfield,
// IL 62704") or a bare "City, ST" place and labels its tokens.
func (t *Tagger) Tag(text string) Result {
	toks := tokenize(text)

	var assigned []assignment
	for i := 0; i < len(toks); {
		if street, next, ok := matchStreet(toks, i); ok {
			assigned = append(assigned, street...)
			occ, end := matchOccupancy(toks, next)
			assigned = append(assigned, occ...)
			if place, after, ok := matchPlace(toks, end, afterStreet); ok {
				assigned = append(assigned, place...)
				end = after
			}
			i = end
			continue
		}
		if place, next, ok := matchPlace(toks, i, standalone); ok {
			assigned = append(assigned, place...)
			i = next
			continue
		}
		i++
	}

	return resolve(toks, assigned)
}

// resolve folds the per-token assignments into components, rejecting
// labelings where a label reappears after a different token.
func resolve(toks []token, assigned []assignment) Result {
	sort.Slice(assigned, func(a, b int) bool { return assigned[a].idx < assigned[b].idx })

	values := make(map[Label][]string)
	var last Label
	lastIdx := -2
	for _, a := range assigned {
		contiguous := a.label == last && a.idx == lastIdx+1
		if !contiguous {
			if _, seen := values[a.label]; seen {
				return Result{Outcome: Ambiguous, Components: map[Label]string{}, Repeated: a.label}
			}
		}
		values[a.label] = append(values[a.label], toks[a.idx].core)
		last, lastIdx = a.label, a.idx
	}

	components := make(map[Label]string, len(values))
	for l, words := range values {
		components[l] = strings.Join(words, " ")
	}
	return Result{Outcome: Tagged, Components: components}
}

// matchStreet matches a house number followed by the street name at i.
func matchStreet(toks []token, i int) ([]assignment, int, bool) {
	first := toks[i]
	if first.lead || first.stop || !houseNumberRe.MatchString(first.core) {
		return nil, i, false
	}
	out := []assignment{{i, AddressNumber}}
	j := i + 1

	if j+1 < len(toks) && !toks[j].stop && isDirectional(toks[j].core) {
		out = append(out, assignment{j, StreetNamePreDirectional})
		j++
	}

	// "Route 66", "Highway 1"
	if j+1 < len(toks) && !toks[j].stop && isPreType(toks[j].core) &&
		(isStreetNameWord(toks[j+1].core) || houseNumberRe.MatchString(toks[j+1].core)) {
		out = append(out, assignment{j, StreetNamePreType}, assignment{j + 1, StreetName})
		j += 2
		if j < len(toks) && !toks[j-1].stop && isDirectional(toks[j].core) {
			out = append(out, assignment{j, StreetNamePostDirectional})
			j++
		}
		return out, j, true
	}

	names := 0
	for j < len(toks) {
		tk := toks[j]
		if tk.lead {
			break
		}
		if names > 0 && isStreetType(tk.core) {
			out = append(out, assignment{j, StreetNamePostType})
			j++
			if !tk.stop && j < len(toks) && isDirectional(toks[j].core) {
				out = append(out, assignment{j, StreetNamePostDirectional})
				j++
			}
			return out, j, true
		}
		if names == maxStreetNameTokens || !isStreetNameWord(tk.core) {
			break
		}
		out = append(out, assignment{j, StreetName})
		names++
		j++
		if tk.stop {
			break
		}
	}
	return nil, i, false
}

// matchOccupancy matches "Apt 4B", "Unit 12" or "#5" at j.
func matchOccupancy(toks []token, j int) ([]assignment, int) {
	if j >= len(toks) || toks[j].lead {
		return nil, j
	}
	tk := toks[j]
	if strings.HasPrefix(tk.core, "#") && occupancyIDRe.MatchString(tk.core) && len(tk.core) > 1 {
		return []assignment{{j, OccupancyIdentifier}}, j + 1
	}
	if isOccupancy(tk.core) && !tk.stop && j+1 < len(toks) && occupancyIDRe.MatchString(toks[j+1].core) {
		return []assignment{{j, OccupancyType}, {j + 1, OccupancyIdentifier}}, j + 2
	}
	return nil, j
}

// placeContext is what precedes a candidate place.
type placeContext int

const (
	afterStreet placeContext = iota
	standalone
)

// matchPlace matches "City[,] ST [ZIP]" at j. A standalone place must have
// a comma between city and state. Lower-case cities and states are only
// taken after a street or in front of a ZIP code.
func matchPlace(toks []token, j int, ctx placeContext) ([]assignment, int, bool) {
	bounded := j == 0 || toks[j-1].stop || isStopword(toks[j-1].core)
	for n := 1; n <= maxCityTokens && j+n <= len(toks); n++ {
		city := toks[j : j+n]
		cased, ok := cityWords(city)
		if !ok {
			return nil, j, false
		}
		if ctx == standalone && !cased && !bounded {
			return nil, j, false
		}
		lastCity := city[n-1]
		if ctx == standalone && !lastCity.comma() {
			continue
		}
		if lastCity.stop && !lastCity.comma() {
			return nil, j, false
		}

		k := j + n
		stateLen, stateCased := matchState(toks, k)
		if stateLen == 0 {
			if lastCity.stop {
				return nil, j, false
			}
			continue
		}
		next := k + stateLen
		lastState := toks[next-1]
		zip := next < len(toks) && (!lastState.stop || lastState.comma()) && !toks[next].lead && zipRe.MatchString(toks[next].core)

		if !zip && !placeWithoutZip(ctx, cased, stateCased, lastCity, lastState, next == len(toks)) {
			if lastCity.stop {
				return nil, j, false
			}
			continue
		}

		var out []assignment
		for c := j; c < k; c++ {
			out = append(out, assignment{c, PlaceName})
		}
		for s := k; s < next; s++ {
			out = append(out, assignment{s, StateName})
		}
		if zip {
			out = append(out, assignment{next, ZipCode})
			next++
		}
		return out, next, true
	}
	return nil, j, false
}

// placeWithoutZip decides whether a place with no ZIP code is still an
// address. Properly cased "City, ST" always is. A lower-case state must
// follow a street and a comma and end the phrase ("123 main st, peoria, il").
func placeWithoutZip(ctx placeContext, cased, stateCased bool, lastCity, lastState token, atEnd bool) bool {
	if ctx == standalone {
		return cased && stateCased
	}
	if stateCased {
		return true
	}
	return lastCity.comma() && (lastState.stop || atEnd)
}

// matchState returns the number of tokens at k that spell a state, or 0,
// and whether the state was written with its usual capitalization.
func matchState(toks []token, k int) (int, bool) {
	if k >= len(toks) || toks[k].lead {
		return 0, false
	}
	if isStateAbbr(toks[k].core) {
		return 1, true
	}
	for n := 1; n <= maxStateTokens && k+n <= len(toks); n++ {
		words := make([]string, 0, n)
		for _, tk := range toks[k : k+n] {
			words = append(words, tk.core)
		}
		if ok, cased := stateName(words); ok {
			return n, cased
		}
		if toks[k+n-1].stop {
			break
		}
	}
	if isLowerStateAbbr(toks[k].core) {
		return 1, false
	}
	return 0, false
}

// cityWords reports whether every token is a word that may name a city and
// only the last one carries trailing punctuation. cased is false when any
// of them is lower-case.
func cityWords(city []token) (cased bool, ok bool) {
	cased = true
	for idx, tk := range city {
		if tk.lead || !isWord(tk.core) || isStateAbbr(tk.core) {
			return false, false
		}
		if !isCapitalized(tk.core) {
			if isStopword(tk.core) {
				return false, false
			}
			cased = false
		}
		if tk.stop && idx < len(city)-1 {
			return false, false
		}
	}
	return cased, true
}

// isStreetNameWord accepts ordinals and words other than stopwords. A street
// only counts once a street type closes it, so lower-case words are fine.
func isStreetNameWord(s string) bool {
	if ordinalRe.MatchString(s) {
		return true
	}
	return isWord(s) && (isCapitalized(s) || !isStopword(s))
}

func isCapitalized(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && r != '-' && r != '\'' && r != '.' {
			return false
		}
	}
	return true
}

const (
	leadPunct  = "(\"'[{$"
	trailPunct = ",.;:)!?\"']}"
	stopPunct  = ",.;:)!?"
)

// tokenize splits text on whitespace and separates leading and trailing
// punctuation from each word.
func tokenize(text string) []token {
	var toks []token
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		raw := text[start:end]
		start = -1

		core := strings.TrimLeft(raw, leadPunct)
		lead := len(core) != len(raw)
		trimmed := strings.TrimRight(core, trailPunct)
		trail := core[len(trimmed):]
		if trimmed == "" {
			return
		}
		toks = append(toks, token{
			raw:   raw,
			core:  trimmed,
			trail: trail,
			start: end - len(raw),
			lead:  lead,
			stop:  strings.ContainsAny(trail, stopPunct),
		})
	}
	for idx, r := range text {
		if unicode.IsSpace(r) {
			flush(idx)
			continue
		}
		if start < 0 {
			start = idx
		}
	}
	flush(len(text))
	return toks
}
