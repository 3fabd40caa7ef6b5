// Package pdf paints the partner agreement onto A4 pages.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/01moynul/lumino-partner-portal/internal/agreement"
	"github.com/01moynul/lumino-partner-portal/internal/feeschedule"
	"github.com/01moynul/lumino-partner-portal/internal/models"
	"github.com/go-pdf/fpdf"
)

const (
	margin      = 20.0
	bottomGap   = 10.0
	labelIndent = 50.0
	rowHeight   = 8.0
	cellLine    = 4.0
	bodyLine    = 4.5
)

var (
	colWidths    = []float64{70, 25, 25, 25, 25}
	tableHeaders = []string{"Fee Category", "Option 1", "Option 2", "Option 3", "Option 4"}
	imageTypes   = map[string]string{"png": "PNG", "jpeg": "JPG", "gif": "GIF"}
	unsafeName   = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// ImageLoader fetches signature images by URL or data URL.
type ImageLoader interface {
	Image(ctx context.Context, src string) ([]byte, error)
}

// Options controls rendering.
type Options struct {
	// Now is used for the company signature date. Zero means time.Now().
	Now time.Time
	// Images loads signature overlays. Nil draws no images.
	Images ImageLoader
	// CompanySignatureURL is drawn above the company signature line.
	CompanySignatureURL string
}

// FileName returns the download name for a partner's agreement.
func FileName(partnerName string, date time.Time) string {
	name := "Partner"
	if strings.TrimSpace(partnerName) != "" {
		name = unsafeName.ReplaceAllString(partnerName, "-")
	}
	return fmt.Sprintf("Lumino-Partner-Agreement-%s-%s.pdf", name, date.Format("2006-01-02"))
}

// Render produces the complete signed agreement for app.
func Render(ctx context.Context, app *models.Application, opts Options) ([]byte, error) {
	r := newRenderer(ctx, opts)
	r.render(app)
	return r.output()
}

type renderer struct {
	ctx    context.Context
	doc    *fpdf.Fpdf
	tr     func(string) string
	opts   Options
	width  float64
	height float64
	y      float64
	images int
}

func newRenderer(ctx context.Context, opts Options) *renderer {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(margin, margin, margin)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCreationDate(opts.Now)
	w, h := doc.GetPageSize()
	return &renderer{
		ctx:    ctx,
		doc:    doc,
		tr:     doc.UnicodeTranslatorFromDescriptor(""),
		opts:   opts,
		width:  w,
		height: h,
	}
}

func (r *renderer) output() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render agreement pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *renderer) render(app *models.Application) {
	r.cover(app)

	r.newPage()
	r.heading(agreement.TitlePartner)
	r.fields([][2]string{
		{"Full Name", app.PartnerFullName},
		{"Email", app.PartnerEmail},
		{"Phone", app.PartnerPhone},
		{"Address", app.PartnerAddress},
		{"City", app.PartnerCity},
		{"State", app.PartnerState},
		{"ZIP Code", app.PartnerZip},
	})

	r.y += 10
	r.heading(agreement.TitleBusiness)
	r.fields([][2]string{
		{"Business Name", app.BusinessName},
		{"Principal Name", app.PrincipalName},
		{"Federal Tax ID", app.FederalTaxID},
		{"Business Type", app.BusinessType},
		{"Website URL", app.WebsiteURL},
		{"Address", app.BusinessAddress},
		{"City", app.BusinessCity},
		{"State", app.BusinessState},
		{"ZIP Code", app.BusinessZip},
	})

	if r.y > r.height-80 {
		r.newPage()
	} else {
		r.y += 10
	}
	r.heading(agreement.TitleW9)
	r.fields([][2]string{
		{"Name", app.W9Name},
		{"Business Name", app.W9BusinessName},
		{"Tax Classification", app.W9TaxClassification},
		{"Address", app.W9Address},
		{"City, State, ZIP", app.W9CityStateZip},
		{"TIN Type", strings.ToUpper(app.W9TINType)},
		{"TIN", MaskTIN(app.W9TIN)},
	})

	r.newPage()
	r.heading(agreement.TitleSchedule)
	r.scheduleTable(feeschedule.Merge(app.CustomScheduleA))

	r.newPage()
	r.heading(agreement.TitleCodeOfConduct)
	r.body(agreement.CodeOfConduct(app.CustomCodeOfConduct))

	r.newPage()
	r.heading(agreement.TitleTerms)
	// agreement_text holds the whole signed agreement, so it is never used
	// as a stand-in for the terms section.
	r.body(agreement.Terms(app.CustomTerms))

	r.signatures(app)
}

func (r *renderer) cover(app *models.Application) {
	r.newPage()

	r.doc.SetFont("helvetica", "B", 24)
	r.centered(r.y+40, agreement.TitleCover)
	r.y += 60

	r.doc.SetFont("helvetica", "", 14)
	for _, line := range []string{app.PartnerFullName, app.BusinessName} {
		if line != "" {
			r.centered(r.y, line)
			r.y += 10
		}
	}
	if !app.CreatedAt.IsZero() {
		r.centered(r.y, "Date: "+agreement.FormatDate(app.CreatedAt))
	}

	if welcome, ok := agreement.CustomText(app.CustomMessage); ok && strings.TrimSpace(welcome) != "" {
		r.y += 30
		r.doc.SetFont("helvetica", "", 12)
		for _, line := range strings.Split(welcome, "\n") {
			if strings.TrimSpace(line) == "" {
				r.y += 4
				continue
			}
			r.wrapped(line, margin, r.width-2*margin, 7)
		}
	}
}

func (r *renderer) signatures(app *models.Application) {
	r.newPage()
	r.heading(agreement.TitleSignatures)
	r.y -= 5

	r.doc.SetFont("helvetica", "", 10)
	r.text(margin, r.y, "By signing below, both parties agree to be bound by the terms of this Agreement.")
	r.y += 20

	// --- Company ---
	r.doc.SetFont("helvetica", "B", 12)
	r.text(margin, r.y, "LUMINO TECHNOLOGIES, LLC")
	r.y += 15

	r.doc.SetFont("helvetica", "", 10)
	r.signatureLine()
	r.image(r.opts.CompanySignatureURL, margin+25, r.y-10, 50, 15)
	r.y += 10
	r.text(margin, r.y, "Name/Title: "+agreement.CompanySignatory)
	r.y += 7
	r.text(margin, r.y, "Date: "+agreement.FormatDate(r.opts.Now))
	r.y += 25

	// --- Partner ---
	r.doc.SetFont("helvetica", "B", 12)
	r.text(margin, r.y, "PARTNER")
	r.y += 15

	r.doc.SetFont("helvetica", "", 10)
	r.signatureLine()

	signer := firstNonEmpty(app.SignatureFullName, app.PartnerFullName, "[Partner Name]")
	sig := strings.TrimSpace(app.CodeOfConductSignature)
	drawn := isImageSource(sig) && r.image(sig, margin+25, r.y-10, 50, 15)
	if !drawn {
		typed := app.PartnerFullName
		if sig != "" && !isImageSource(sig) {
			typed = sig
		}
		if typed != "" {
			r.doc.SetFont("helvetica", "I", 10)
			r.text(margin+25, r.y, "/s/ "+typed)
			r.doc.SetFont("helvetica", "", 10)
		}
	}

	r.y += 10
	r.text(margin, r.y, "Name: "+signer)
	r.y += 7

	signedOn := firstNonEmpty(app.CodeOfConductDate, app.SignatureDate)
	shortDate, longDate := "[Date]", "[Date]"
	if signedOn != "" {
		shortDate, longDate = signedOn, signedOn
		if t, ok := parseDate(signedOn); ok {
			shortDate = agreement.FormatDate(t)
			longDate = t.Format("January 2, 2006")
		}
	}
	r.text(margin, r.y, "Date: "+shortDate)
	r.y += 20

	// --- Acknowledgment ---
	r.doc.SetFont("helvetica", "B", 9)
	r.doc.SetDrawColor(0, 0, 0)
	r.doc.Rect(margin, r.y-2.5, 3.5, 3.5, "D")
	r.doc.Line(margin+0.7, r.y-0.8, margin+1.5, r.y+0.2)
	r.doc.Line(margin+1.5, r.y+0.2, margin+2.9, r.y-2)
	r.text(margin+6, r.y+1, "Electronic Execution Acknowledgment")
	r.y += 7

	r.doc.SetFont("helvetica", "", 9)
	ack := fmt.Sprintf("This Agreement was accepted and executed electronically as of %s by %s. "+
		"The parties acknowledge that electronic signatures have the same legal effect as handwritten signatures.",
		longDate, signer)
	r.wrapped(ack, margin+6, r.width-2*margin-6, bodyLine)
}

func (r *renderer) signatureLine() {
	r.doc.SetDrawColor(0, 0, 0)
	r.doc.Line(margin+20, r.y+5, margin+100, r.y+5)
}

func (r *renderer) scheduleTable(s feeschedule.Schedule) {
	r.doc.SetFont("helvetica", "B", 8)
	r.tableHeader()
	r.doc.SetFont("helvetica", "", 8)

	for _, row := range s.Rows() {
		if r.y > r.height-margin {
			r.newPage()
			r.doc.SetFont("helvetica", "B", 8)
			r.tableHeader()
			r.doc.SetFont("helvetica", "", 8)
		}

		cells := []string{row.Category, row.Option1, row.Option2, row.Option3, row.Option4}
		split := make([][]string, len(cells))
		height := rowHeight
		for i, c := range cells {
			if strings.TrimSpace(c) == "" {
				c = "-"
			}
			split[i] = r.doc.SplitText(c, colWidths[i]-4)
			height = max(height, float64(len(split[i]))*cellLine)
		}

		top := r.y - 5
		x := margin
		for i, lines := range split {
			r.doc.Rect(x, top, colWidths[i], height, "D")
			for j, line := range lines {
				r.text(x+2, r.y+float64(j)*cellLine, line)
			}
			x += colWidths[i]
		}
		r.y += height
	}
}

func (r *renderer) tableHeader() {
	total := 0.0
	for _, w := range colWidths {
		total += w
	}
	r.doc.SetFillColor(240, 240, 240)
	r.doc.SetDrawColor(0, 0, 0)
	r.doc.Rect(margin, r.y-5, total, rowHeight, "F")

	x := margin
	for i, h := range tableHeaders {
		r.doc.Rect(x, r.y-5, colWidths[i], rowHeight, "D")
		r.text(x+2, r.y, h)
		x += colWidths[i]
	}
	r.y += rowHeight
}

// body paints long text line by line, turning blank lines into a small gap.
func (r *renderer) body(text string) {
	r.doc.SetFont("helvetica", "", 9)
	for _, line := range strings.Split(text, "\n") {
		if r.y > r.height-25 {
			r.newPage()
		}
		if strings.TrimSpace(line) == "" {
			r.y += 4
			continue
		}
		r.wrapped(line, margin, r.width-2*margin, bodyLine)
	}
}

func (r *renderer) fields(items [][2]string) {
	r.doc.SetFontSize(10)
	for _, item := range items {
		if item[1] == "" {
			continue
		}
		if r.y > r.height-30 {
			r.newPage()
		}
		r.doc.SetFont("helvetica", "B", 10)
		r.text(margin, r.y, item[0]+":")
		r.doc.SetFont("helvetica", "", 10)
		r.text(margin+labelIndent, r.y, item[1])
		r.y += 7
	}
}

func (r *renderer) heading(title string) {
	r.doc.SetFont("helvetica", "B", 16)
	r.text(margin, r.y, title)
	r.y += 15
}

// wrapped splits s to width and starts a new page whenever the cursor
// passes the bottom margin threshold.
func (r *renderer) wrapped(s string, x, width, lineHeight float64) {
	for _, line := range r.doc.SplitText(s, width) {
		if r.y > r.height-margin-bottomGap {
			r.newPage()
		}
		r.text(x, r.y, line)
		r.y += lineHeight
	}
}

func (r *renderer) centered(y float64, s string) {
	s = r.tr(s)
	r.doc.Text((r.width-r.doc.GetStringWidth(s))/2, y, s)
}

func (r *renderer) text(x, y float64, s string) {
	r.doc.Text(x, y, r.tr(s))
}

func (r *renderer) newPage() {
	r.doc.AddPage()
	r.y = margin
}

// image draws src at the given box. Any failure is logged and leaves the
// document untouched.
func (r *renderer) image(src string, x, y, w, h float64) bool {
	if src == "" || r.opts.Images == nil {
		return false
	}
	data, err := r.opts.Images.Image(r.ctx, src)
	if err != nil {
		slog.WarnContext(r.ctx, "could not load signature image", "error", err)
		return false
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		slog.WarnContext(r.ctx, "could not decode signature image", "error", err)
		return false
	}
	typ, ok := imageTypes[format]
	if !ok {
		slog.WarnContext(r.ctx, "unsupported signature image format", "format", format)
		return false
	}

	r.images++
	name := fmt.Sprintf("signature-%d", r.images)
	opt := fpdf.ImageOptions{ImageType: typ}
	r.doc.RegisterImageOptionsReader(name, opt, bytes.NewReader(data))
	if !r.doc.Ok() {
		slog.WarnContext(r.ctx, "could not embed signature image", "error", r.doc.Error())
		r.doc.ClearError()
		return false
	}
	r.doc.ImageOptions(name, x, y, w, h, false, opt, 0, "")
	return true
}

// MaskTIN keeps only the last four digits of a taxpayer id.
func MaskTIN(tin string) string {
	tin = strings.TrimSpace(tin)
	if tin == "" {
		return ""
	}
	if len(tin) > 4 {
		tin = tin[len(tin)-4:]
	}
	return "***-**-" + tin
}

func isImageSource(s string) bool {
	return strings.HasPrefix(s, "data:") || strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "1/2/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
