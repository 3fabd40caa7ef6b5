package pdf

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/01moynul/lumino-partner-portal/internal/agreement"
	"github.com/01moynul/lumino-partner-portal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImages struct {
	data  map[string][]byte
	calls []string
}

func (f *fakeImages) Image(_ context.Context, src string) ([]byte, error) {
	f.calls = append(f.calls, src)
	if b, ok := f.data[src]; ok {
		return b, nil
	}
	return nil, errors.New("not found")
}

func testApp() *models.Application {
	return &models.Application{
		ID:                     "123e4567-e89b-12d3-a456-426614174000",
		CreatedAt:              time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC),
		PartnerFullName:        "Jane Doe",
		PartnerEmail:           "jane@example.com",
		BusinessName:           "Doe Payments",
		W9Name:                 "Jane Doe",
		W9TINType:              "ssn",
		W9TIN:                  "123456789",
		SignatureFullName:      "Jane Q Doe",
		CodeOfConductDate:      "2025-03-05",
		CodeOfConductSignature: "https://cdn.example.com/sig.png",
		CustomScheduleA:        json.RawMessage(`{"visaMcFee":{"option1":"$0.02"}}`),
	}
}

func uncompressed(t *testing.T, app *models.Application, opts Options) (string, *renderer) {
	t.Helper()
	r := newRenderer(context.Background(), opts)
	r.doc.SetCompression(false)
	r.render(app)
	out, err := r.output()
	require.NoError(t, err)
	return string(out), r
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 8, 4))
	for x := 0; x < 8; x++ {
		img.SetGray(x, 2, color.Gray{Y: 0})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRender(t *testing.T) {
	out, err := Render(context.Background(), testApp(), Options{Now: time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestRenderContents(t *testing.T) {
	out, r := uncompressed(t, testApp(), Options{Now: time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)})

	for _, want := range []string{
		"(LUMINO PARTNER AGREEMENT) Tj",
		"(PARTNER INFORMATION) Tj",
		"(SCHEDULE A - FEE SCHEDULE) Tj",
		"($0.02) Tj",
		"(***-**-6789) Tj",
		"(SSN) Tj",
		"(Name/Title: Zachry Godfrey, CEO) Tj",
		"(Date: 3/6/2025) Tj",
		"(Name: Jane Q Doe) Tj",
		"(Date: 3/5/2025) Tj",
		"as of March 5, 2025",
	} {
		assert.Contains(t, out, want)
	}

	conduct := strings.Index(out, "(PARTNER'S CODE OF CONDUCT) Tj")
	terms := strings.Index(out, "(TERMS AND CONDITIONS) Tj")
	require.Positive(t, conduct)
	assert.Greater(t, terms, conduct)

	assert.GreaterOrEqual(t, r.doc.PageCount(), 6)
}

func TestRenderFallsBackToTypedSignature(t *testing.T) {
	images := &fakeImages{data: map[string][]byte{"https://cdn.example.com/sig.png": []byte("not an image")}}
	out, r := uncompressed(t, testApp(), Options{Images: images, CompanySignatureURL: "https://cdn.example.com/ceo.png"})

	assert.ElementsMatch(t, []string{"https://cdn.example.com/ceo.png", "https://cdn.example.com/sig.png"}, images.calls)
	assert.Zero(t, r.images)
	assert.True(t, r.doc.Ok())
	assert.Contains(t, out, "(/s/ Jane Doe) Tj")
}

func TestRenderDrawsImages(t *testing.T) {
	img := pngBytes(t)
	images := &fakeImages{data: map[string][]byte{
		"https://cdn.example.com/sig.png": img,
		"https://cdn.example.com/ceo.png": img,
	}}
	out, r := uncompressed(t, testApp(), Options{Images: images, CompanySignatureURL: "https://cdn.example.com/ceo.png"})

	assert.Equal(t, 2, r.images)
	assert.Contains(t, out, "/Subtype /Image")
	assert.NotContains(t, out, "(/s/ Jane Doe) Tj")
}

func TestRenderTermsIgnoreStoredAgreementText(t *testing.T) {
	app := testApp()
	app.AgreementText = "STORED-AGREEMENT-COPY"
	out, _ := uncompressed(t, app, Options{})
	assert.NotContains(t, out, "STORED-AGREEMENT-COPY")
	assert.Contains(t, out, "("+agreement.TitleTerms+") Tj")
}

func TestRenderTypedSignatureText(t *testing.T) {
	app := testApp()
	app.CodeOfConductSignature = "Jane Doe"
	out, _ := uncompressed(t, app, Options{})
	assert.Contains(t, out, "(/s/ Jane Doe) Tj")
}

func TestRenderPaginatesLongTerms(t *testing.T) {
	short, rs := uncompressed(t, testApp(), Options{})
	require.NotEmpty(t, short)

	paragraph := strings.Repeat("The partner shall comply with every applicable rule. ", 40)
	sections := make([]models.ContentSection, 0, 40)
	for i := 0; i < 40; i++ {
		sections = append(sections, models.ContentSection{ID: "p", Type: models.SectionParagraph, Content: paragraph})
	}
	doc, err := json.Marshal(models.ContentDocument{Sections: sections})
	require.NoError(t, err)

	app := testApp()
	app.CustomTerms = doc
	_, rl := uncompressed(t, app, Options{})

	assert.Greater(t, rl.doc.PageCount(), rs.doc.PageCount()+5)
}

func TestRenderEmptyApplication(t *testing.T) {
	out, err := Render(context.Background(), &models.Application{}, Options{})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestFileName(t *testing.T) {
	d := time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Lumino-Partner-Agreement-Jane-O-Brien-2025-03-06.pdf", FileName("Jane O'Brien", d))
	assert.Equal(t, "Lumino-Partner-Agreement-Partner-2025-03-06.pdf", FileName(" ", d))
}

func TestMaskTIN(t *testing.T) {
	assert.Equal(t, "***-**-6789", MaskTIN("123-45-6789"))
	assert.Equal(t, "***-**-12", MaskTIN("12"))
	assert.Equal(t, "", MaskTIN(""))
}
