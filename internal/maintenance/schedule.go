// Package maintenance finds and repairs custom fee schedules that were stored
// as JSON strings instead of objects.
package maintenance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/01moynul/lumino-partner-portal/internal/jsonfix"
	"github.com/01moynul/lumino-partner-portal/internal/store"
)

// Repository is the slice of the application store the maintenance jobs use.
type Repository interface {
	ListCustomSchedules(ctx context.Context) ([]store.StoredSchedule, error)
	SetCustomSchedule(ctx context.Context, id string, raw json.RawMessage) error
}

// State classifies a stored schedule.
type State int

const (
	Correct State = iota
	NeedsFix
	Broken
)

const previewLen = 100

// Finding is the classification of one stored schedule.
type Finding struct {
	ID     string
	Email  string
	State  State
	Passes int
	// Object is the unwrapped schedule when State is NeedsFix.
	Object  json.RawMessage
	Preview string
	Reason  string
}

// Classify decides whether raw is already an object, an encoded object that
// can be repaired, or neither.
func Classify(s store.StoredSchedule) Finding {
	f := Finding{ID: s.ID, Email: s.PartnerEmail}

	obj, passes, err := jsonfix.Object(s.Raw)
	f.Passes = passes
	switch {
	case err == nil && passes == 0:
		f.State = Correct
	case err == nil:
		f.State = NeedsFix
		f.Object = obj
		f.Preview = preview(string(s.Raw))
	case errors.Is(err, jsonfix.ErrNotObject), errors.Is(err, jsonfix.ErrTooDeep), errors.Is(err, jsonfix.ErrEmpty):
		f.State = Broken
		f.Reason = "unparseable"
	default:
		f.State = Broken
		f.Reason = "parse error"
	}
	return f
}

func preview(s string) string {
	r := []rune(s)
	if len(r) > previewLen {
		r = r[:previewLen]
	}
	return string(r) + "..."
}

// Report groups findings by state.
type Report struct {
	Total    int
	Correct  []Finding
	NeedsFix []Finding
	Errors   []Finding
}

// Check classifies every stored custom schedule without changing anything.
func Check(ctx context.Context, repo Repository) (*Report, error) {
	rows, err := repo.ListCustomSchedules(ctx)
	if err != nil {
		return nil, err
	}

	r := &Report{Total: len(rows)}
	for _, row := range rows {
		f := Classify(row)
		switch f.State {
		case Correct:
			r.Correct = append(r.Correct, f)
		case NeedsFix:
			r.NeedsFix = append(r.NeedsFix, f)
		default:
			r.Errors = append(r.Errors, f)
		}
	}
	return r, nil
}

var rule = strings.Repeat("=", 70)

// WriteTo prints the report in sections followed by a summary.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	if r.Total == 0 {
		b.WriteString("No applications with custom_schedule_a found.\n")
		n, err := io.WriteString(w, b.String())
		return int64(n), err
	}

	fmt.Fprintf(&b, "Found %d applications with custom_schedule_a data.\n\n", r.Total)

	section := func(title string, items []Finding, line func(Finding)) {
		fmt.Fprintf(&b, "%s\n%s\n%s\n", rule, title, rule)
		if len(items) == 0 {
			b.WriteString("None\n")
		}
		for _, f := range items {
			line(f)
		}
		b.WriteString("\n")
	}

	section("CORRECT FORMAT (Already Objects):", r.Correct, func(f Finding) {
		fmt.Fprintf(&b, "ID: %s | Email: %s\n", f.ID, f.Email)
	})
	section("NEEDS FIXING (Escaped Strings):", r.NeedsFix, func(f Finding) {
		fmt.Fprintf(&b, "ID: %s | Email: %s\n   Status: needs %d parse(s)\n   Preview: %s\n", f.ID, f.Email, f.Passes, f.Preview)
	})
	section("ERRORS (Cannot Parse):", r.Errors, func(f Finding) {
		fmt.Fprintf(&b, "ID: %s | Email: %s | Status: %s\n", f.ID, f.Email, f.Reason)
	})

	fmt.Fprintf(&b, "%s\nSUMMARY:\n%s\n", rule, rule)
	fmt.Fprintf(&b, "Total: %d\nCorrect Format: %d\nNeeds Fixing: %d\nErrors: %d\n%s\n",
		r.Total, len(r.Correct), len(r.NeedsFix), len(r.Errors), rule)

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// FixSummary counts what Fix did.
type FixSummary struct {
	Total          int
	AlreadyCorrect int
	Fixed          int
	Errors         int
}

// Fix rewrites every encoded schedule as the object it contains, writing one
// line per application to w. Running it twice changes nothing the second time.
func Fix(ctx context.Context, repo Repository, w io.Writer) (*FixSummary, error) {
	rows, err := repo.ListCustomSchedules(ctx)
	if err != nil {
		return nil, err
	}

	sum := &FixSummary{Total: len(rows)}
	for _, row := range rows {
		f := Classify(row)
		switch f.State {
		case Correct:
			fmt.Fprintf(w, "✓ Application %s: Already in correct format (object)\n", f.ID)
			sum.AlreadyCorrect++
		case NeedsFix:
			if err := repo.SetCustomSchedule(ctx, f.ID, f.Object); err != nil {
				fmt.Fprintf(w, "✗ Application %s: Error updating - %v\n", f.ID, err)
				sum.Errors++
				continue
			}
			fmt.Fprintf(w, "✓ Application %s: Fixed (parsed %d time(s))\n", f.ID, f.Passes)
			sum.Fixed++
		default:
			fmt.Fprintf(w, "⚠ Application %s: Could not parse to object after %d attempts\n", f.ID, f.Passes)
			sum.Errors++
		}
	}
	return sum, nil
}

// WriteTo prints the fix summary block.
func (s *FixSummary) WriteTo(w io.Writer) (int64, error) {
	rule := strings.Repeat("=", 50)
	n, err := fmt.Fprintf(w, "\n%s\nSummary:\n%s\nTotal applications checked: %d\nAlready correct: %d\nFixed: %d\nErrors: %d\n%s\n",
		rule, rule, s.Total, s.AlreadyCorrect, s.Fixed, s.Errors, rule)
	return int64(n), err
}
