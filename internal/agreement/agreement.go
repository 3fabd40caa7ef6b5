// Package agreement assembles the partner agreement as an ordered list of
// titled plain-text sections from the wizard form and optional per-invite
// overrides. Assembly is total: any override that cannot be used falls back
// to the standard text.
package agreement

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/01moynul/lumino-partner-portal/internal/feeschedule"
	"github.com/01moynul/lumino-partner-portal/internal/jsonfix"
	"github.com/01moynul/lumino-partner-portal/internal/models"
)

// Section titles, in document order.
const (
	TitleCover         = "LUMINO PARTNER AGREEMENT"
	TitleWelcome       = "WELCOME MESSAGE"
	TitlePartner       = "PARTNER INFORMATION"
	TitleBusiness      = "BUSINESS INFORMATION"
	TitleW9            = "W-9 INFORMATION"
	TitleSchedule      = "SCHEDULE A - FEE SCHEDULE"
	TitleCodeOfConduct = "PARTNER'S CODE OF CONDUCT"
	TitleTerms         = "TERMS AND CONDITIONS"
	TitleSignatures    = "SIGNATURES"
)

// CompanySignatory is printed in the company signature block.
const CompanySignatory = "Zachry Godfrey, CEO"

const blankSignature = "_________________________________"

// Section is one titled block of agreement text.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Overrides are the per-invite customizations, each as stored: an object, a
// JSON string holding one, or nothing.
type Overrides struct {
	ScheduleA     json.RawMessage `json:"customScheduleA"`
	Message       json.RawMessage `json:"customMessage"`
	CodeOfConduct json.RawMessage `json:"customCodeOfConduct"`
	Terms         json.RawMessage `json:"customTerms"`
}

// OverridesFrom collects the override columns of an application row.
func OverridesFrom(app *models.Application) Overrides {
	return Overrides{
		ScheduleA:     app.CustomScheduleA,
		Message:       app.CustomMessage,
		CodeOfConduct: app.CustomCodeOfConduct,
		Terms:         app.CustomTerms,
	}
}

// Options controls the parts of the document that depend on the clock.
type Options struct {
	// Now supplies today's date. Zero means time.Now().
	Now time.Time
}

func (o Options) today() string {
	now := o.Now
	if now.IsZero() {
		now = time.Now()
	}
	return FormatDate(now)
}

// FormatDate renders t as M/D/YYYY.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}

// Build returns the agreement sections in their fixed order.
func Build(form models.FormData, ov Overrides, opts Options) []Section {
	today := opts.today()

	coverDate := form.SignatureDate
	if coverDate == "" {
		coverDate = today
	}

	sections := []Section{{
		Title:   TitleCover,
		Content: fmt.Sprintf("%s\n%s\nDate: %s", form.PartnerFullName, form.BusinessName, coverDate),
	}}

	if welcome, ok := CustomText(ov.Message); ok {
		sections = append(sections, Section{Title: TitleWelcome, Content: welcome})
	}

	sections = append(sections,
		Section{Title: TitlePartner, Content: partnerBlock(form)},
		Section{Title: TitleBusiness, Content: businessBlock(form)},
		Section{Title: TitleW9, Content: w9Block(form)},
		Section{Title: TitleSchedule, Content: feeschedule.Merge(ov.ScheduleA).Table()},
		Section{Title: TitleCodeOfConduct, Content: CodeOfConduct(ov.CodeOfConduct)},
		Section{Title: TitleTerms, Content: Terms(ov.Terms)},
		Section{Title: TitleSignatures, Content: signatureBlock(form, today)},
	)
	return sections
}

// PlainText joins sections as "TITLE\n\ncontent" blocks separated by blank lines.
func PlainText(sections []Section) string {
	blocks := make([]string, 0, len(sections))
	for _, s := range sections {
		blocks = append(blocks, s.Title+"\n\n"+s.Content)
	}
	return strings.Join(blocks, "\n\n")
}

// CodeOfConduct returns the custom code of conduct, or the standard one.
func CodeOfConduct(raw json.RawMessage) string {
	if text, ok := CustomText(raw); ok {
		return text
	}
	return DefaultCodeOfConduct
}

// Terms returns the custom terms, or the standard ones.
func Terms(raw json.RawMessage) string {
	if text, ok := CustomText(raw); ok {
		return text
	}
	return DefaultTerms
}

// CustomText renders a stored content document. ok is false when raw holds
// no object with a sections array.
func CustomText(raw json.RawMessage) (string, bool) {
	var doc struct {
		Sections []json.RawMessage `json:"sections"`
	}
	if err := jsonfix.Decode(raw, &doc); err != nil || doc.Sections == nil {
		return "", false
	}
	return FormatSections(decodeSections(doc.Sections)), true
}

func decodeSections(raws []json.RawMessage) []models.ContentSection {
	out := make([]models.ContentSection, len(raws))
	for i, r := range raws {
		// Entries that do not decode stay zero-valued and render as "".
		var s models.ContentSection
		if err := json.Unmarshal(r, &s); err == nil {
			out[i] = s
		}
	}
	return out
}

// FormatSections renders headers surrounded by newlines and paragraphs
// followed by one, joined with newlines.
func FormatSections(sections []models.ContentSection) string {
	parts := make([]string, len(sections))
	for i, s := range sections {
		switch s.Type {
		case models.SectionHeader:
			parts[i] = "\n" + s.Content + "\n"
		case models.SectionParagraph:
			parts[i] = s.Content + "\n"
		}
	}
	return strings.Join(parts, "\n")
}

func partnerBlock(f models.FormData) string {
	return lines(
		"Full Name: "+f.PartnerFullName,
		"Email: "+f.PartnerEmail,
		"Phone: "+f.PartnerPhone,
		"Address: "+f.PartnerAddress,
		"City: "+f.PartnerCity,
		"State: "+f.PartnerState,
		"ZIP Code: "+f.PartnerZip,
	)
}

func businessBlock(f models.FormData) string {
	return lines(
		"Business Name: "+f.BusinessName,
		"Principal Name: "+f.PrincipalName,
		"Federal Tax ID: "+f.FederalTaxID,
		"Business Type: "+f.BusinessType,
		"Website URL: "+f.WebsiteURL,
		"Address: "+f.BusinessAddress,
		"City: "+f.BusinessCity,
		"State: "+f.BusinessState,
		"ZIP Code: "+f.BusinessZip,
	)
}

func w9Block(f models.FormData) string {
	return lines(
		"Name: "+f.W9Name,
		"Business Name: "+f.W9BusinessName,
		"Tax Classification: "+f.W9TaxClassification,
		"Address: "+f.W9Address,
		"City, State, ZIP: "+f.W9CityStateZip,
	)
}

func signatureBlock(f models.FormData, today string) string {
	partnerSig := f.SignatureFullName
	if partnerSig == "" {
		partnerSig = blankSignature
	}
	return lines(
		"By signing below, both parties agree to be bound by the terms of this Agreement.",
		"",
		"LUMINO TECHNOLOGIES, LLC",
		"",
		"Signature: "+blankSignature,
		"",
		"Name/Title: "+CompanySignatory,
		"",
		"Date: "+today,
		"",
		"",
		"PARTNER",
		"",
		"Signature: "+partnerSig,
		"",
		"Name: "+f.PartnerFullName,
		"",
		"Date: "+f.SignatureDate,
	)
}

func lines(l ...string) string {
	return strings.Join(l, "\n")
}
