package agreement

import (
	"encoding/json"
	"strings"
	"testing"
	"testing/quick"
	"time"

	"github.com/01moynul/lumino-partner-portal/internal/feeschedule"
	"github.com/01moynul/lumino-partner-portal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.March, 7, 15, 0, 0, 0, time.UTC)

func sampleForm() models.FormData {
	return models.FormData{
		PartnerFullName:     "Jane Doe",
		PartnerEmail:        "jane@example.com",
		BusinessName:        "Doe Payments LLC",
		W9TaxClassification: "llc",
		SignatureFullName:   "Jane Doe",
		SignatureDate:       "2025-03-06",
	}
}

func titles(sections []Section) []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = s.Title
	}
	return out
}

func TestBuildDefaultOrder(t *testing.T) {
	sections := Build(sampleForm(), Overrides{}, Options{Now: fixedNow})

	assert.Equal(t, []string{
		TitleCover, TitlePartner, TitleBusiness, TitleW9,
		TitleSchedule, TitleCodeOfConduct, TitleTerms, TitleSignatures,
	}, titles(sections))
	assert.Equal(t, "Jane Doe\nDoe Payments LLC\nDate: 2025-03-06", sections[0].Content)
	assert.Equal(t, DefaultCodeOfConduct, sections[5].Content)
	assert.Equal(t, DefaultTerms, sections[6].Content)
	assert.Equal(t, feeschedule.Default().Table(), sections[4].Content)
}

func TestCoverDateFallsBackToToday(t *testing.T) {
	form := sampleForm()
	form.SignatureDate = ""
	sections := Build(form, Overrides{}, Options{Now: fixedNow})
	assert.True(t, strings.HasSuffix(sections[0].Content, "Date: 3/7/2025"))
}

func TestSignatureBlock(t *testing.T) {
	sections := Build(models.FormData{PartnerFullName: "Sam"}, Overrides{}, Options{Now: fixedNow})
	sig := sections[len(sections)-1].Content

	want := "By signing below, both parties agree to be bound by the terms of this Agreement.\n\n" +
		"LUMINO TECHNOLOGIES, LLC\n\n" +
		"Signature: _________________________________\n\n" +
		"Name/Title: Zachry Godfrey, CEO\n\n" +
		"Date: 3/7/2025\n\n\n" +
		"PARTNER\n\n" +
		"Signature: _________________________________\n\n" +
		"Name: Sam\n\n" +
		"Date: "
	assert.Equal(t, want, sig)
}

func TestEmptyOverridesMatchDefault(t *testing.T) {
	want := Build(sampleForm(), Overrides{}, Options{Now: fixedNow})

	for _, raw := range []string{"null", `""`, "", "{}", "[]", `"{}"`, "not json", "42"} {
		ov := Overrides{
			ScheduleA:     json.RawMessage(raw),
			Message:       json.RawMessage(raw),
			CodeOfConduct: json.RawMessage(raw),
			Terms:         json.RawMessage(raw),
		}
		got := Build(sampleForm(), ov, Options{Now: fixedNow})
		assert.Equal(t, want, got, "override %q", raw)
	}
}

func TestDoubleEncodedScheduleMatchesObject(t *testing.T) {
	obj := map[string]any{"visaMcFee": map[string]string{"option1": "$0.01"}}
	once, err := json.Marshal(obj)
	require.NoError(t, err)
	twice, err := json.Marshal(string(once))
	require.NoError(t, err)
	thrice, err := json.Marshal(string(twice))
	require.NoError(t, err)

	want := Build(sampleForm(), Overrides{ScheduleA: once}, Options{Now: fixedNow})
	assert.Equal(t, want, Build(sampleForm(), Overrides{ScheduleA: twice}, Options{Now: fixedNow}))
	assert.Equal(t, want, Build(sampleForm(), Overrides{ScheduleA: thrice}, Options{Now: fixedNow}))
	assert.Contains(t, want[4].Content, "$0.01")
}

func TestSingleFieldScheduleOverride(t *testing.T) {
	merged := feeschedule.Merge([]byte(`{"visaMcFee":{"option1":"$0.01"}}`))
	def := feeschedule.Default()

	for _, k := range feeschedule.Keys() {
		if k == "visaMcFee" {
			continue
		}
		assert.Equal(t, def[k], merged[k], k)
	}
	want := def["visaMcFee"]
	want.Option1 = "$0.01"
	assert.Equal(t, want, merged["visaMcFee"])
}

func TestWelcomeMessage(t *testing.T) {
	msg := json.RawMessage(`{"sections":[{"id":"1","type":"header","content":"Hello"},{"id":"2","type":"paragraph","content":"Welcome aboard."},{"id":"3","type":"image","content":"x"}]}`)
	sections := Build(sampleForm(), Overrides{Message: msg}, Options{Now: fixedNow})

	require.Equal(t, TitleWelcome, sections[1].Title)
	assert.Equal(t, "\nHello\n\nWelcome aboard.\n\n", sections[1].Content)
}

func TestCustomTermsDoubleEncoded(t *testing.T) {
	doc, err := json.Marshal(models.ContentDocument{Sections: []models.ContentSection{{Type: "paragraph", Content: "Custom."}}})
	require.NoError(t, err)
	enc, err := json.Marshal(string(doc))
	require.NoError(t, err)

	assert.Equal(t, "Custom.\n", Terms(enc))
	assert.Equal(t, DefaultCodeOfConduct, CodeOfConduct(json.RawMessage(`{"sections":"nope"}`)))
}

func TestBuildIsTotal(t *testing.T) {
	f := func(a, b, c, d string) bool {
		ov := Overrides{
			ScheduleA:     json.RawMessage(a),
			Message:       json.RawMessage(b),
			CodeOfConduct: json.RawMessage(c),
			Terms:         json.RawMessage(d),
		}
		sections := Build(sampleForm(), ov, Options{Now: fixedNow})
		return len(sections) >= 8
	}
	assert.NoError(t, quick.Check(f, nil))
}

func TestPlainText(t *testing.T) {
	out := PlainText([]Section{{"A", "one"}, {"B", "two"}})
	assert.Equal(t, "A\n\none\n\nB\n\ntwo", out)
}
