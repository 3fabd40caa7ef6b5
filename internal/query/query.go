// Package query implements the console's search language over partner
// applications.
//
// A query is a whitespace-separated list of tokens, all of which must match.
// Double quotes group words into one token. A token is either a bare word,
// matched as a substring against the common text fields, or key:value. A
// leading "!" negates a token. Matching is case-insensitive.
package query

import (
	"regexp"
	"strings"
	"time"

	"github.com/01moynul/lumino-partner-portal/internal/jsonfix"
	"github.com/01moynul/lumino-partner-portal/internal/models"
)

var (
	tokenPattern = regexp.MustCompile(`(?:[^\s"]+|"[^"]*")+`)
	fieldPattern = regexp.MustCompile(`^([\w_]+):(.*)`)
)

// Token is one parsed search term.
type Token struct {
	Raw     string
	Negated bool
	// Key is empty for a bare-word token.
	Key   string
	Value string
}

// Query is a parsed search string.
type Query struct {
	Tokens []Token
}

// Parse lower-cases q and splits it into tokens. Parse never fails.
func Parse(q string) Query {
	q = strings.ToLower(strings.TrimSpace(q))
	raw := tokenPattern.FindAllString(q, -1)

	tokens := make([]Token, 0, len(raw))
	for _, r := range raw {
		t := Token{Raw: r}
		body := r
		if strings.HasPrefix(body, "!") {
			t.Negated = true
			body = body[1:]
		}
		if m := fieldPattern.FindStringSubmatch(body); m != nil {
			t.Key = m[1]
			t.Value = strings.ReplaceAll(m[2], `"`, "")
		} else {
			t.Value = strings.ReplaceAll(body, `"`, "")
		}
		tokens = append(tokens, t)
	}
	return Query{Tokens: tokens}
}

// Empty reports whether the query has no tokens.
func (q Query) Empty() bool {
	return len(q.Tokens) == 0
}

// Match reports whether a satisfies every token.
func (q Query) Match(a *models.Application, now time.Time) bool {
	for _, t := range q.Tokens {
		if !t.Match(a, now) {
			return false
		}
	}
	return true
}

// Match evaluates a single token against a.
func (t Token) Match(a *models.Application, now time.Time) bool {
	// An empty bare word is ignored, negated or not.
	if t.Key == "" && t.Value == "" {
		return true
	}
	result := t.eval(a, now)
	if t.Negated {
		return !result
	}
	return result
}

func (t Token) eval(a *models.Application, now time.Time) (result bool) {
	defer func() {
		if recover() != nil {
			result = false
		}
	}()

	if t.Key == "" {
		return containsAny(generalValues(a), t.Value, false)
	}

	if f, ok := textFilters[t.Key]; ok {
		if f.exact {
			for _, v := range f.values(a) {
				if strings.ToLower(v) == t.Value {
					return true
				}
			}
			return false
		}
		return containsAny(f.values(a), t.Value, f.caseSensitive)
	}

	if get, ok := dateFields[t.Key]; ok {
		return MatchDate(get(a), t.Value, now)
	}

	switch t.Key {
	case "has":
		if t.Value == "" {
			return true
		}
		if flag, ok := hasFlags[t.Value]; ok {
			return flag(a)
		}
		return false

	case "missing":
		if t.Value == "" {
			return true
		}
		if check, ok := missingComposite[t.Value]; ok {
			return check(a)
		}
		column := t.Value
		if mapped, ok := missingColumns[t.Value]; ok {
			column = mapped
		}
		v, _ := a.Field(column)
		return v == ""

	case "custom", "schedule_a":
		switch t.Value {
		case "":
			return true
		case "true", "yes", "1":
			return jsonfix.IsPresent(a.CustomScheduleA)
		case "false", "no", "0":
			return !jsonfix.IsPresent(a.CustomScheduleA)
		}
		text, _ := a.Field("custom_schedule_a")
		return strings.Contains(strings.ToLower(text), t.Value)
	}

	return false
}

func containsAny(values []string, needle string, caseSensitive bool) bool {
	for _, v := range values {
		if !caseSensitive {
			v = strings.ToLower(v)
		}
		if strings.Contains(v, needle) {
			return true
		}
	}
	return false
}

// DateRange bounds the creation date, inclusive, as YYYY-MM-DD strings.
// Empty bounds are open.
type DateRange struct {
	Start string
	End   string
}

// Contains reports whether created falls within the range (by UTC date).
func (r DateRange) Contains(created time.Time) bool {
	day := created.UTC().Format(isoDate)
	if r.Start != "" && day < r.Start {
		return false
	}
	if r.End != "" && day > r.End {
		return false
	}
	return true
}

// Filter returns the applications admitted by both the date range and the query.
func Filter(apps []models.Application, q string, r DateRange, now time.Time) []models.Application {
	parsed := Parse(q)
	out := make([]models.Application, 0, len(apps))
	for i := range apps {
		if !r.Contains(apps[i].CreatedAt) {
			continue
		}
		if parsed.Match(&apps[i], now) {
			out = append(out, apps[i])
		}
	}
	return out
}
