package handlers

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/01moynul/lumino-partner-portal/internal/export"
	"github.com/01moynul/lumino-partner-portal/internal/models"
	"github.com/01moynul/lumino-partner-portal/internal/pdf"
	"github.com/01moynul/lumino-partner-portal/internal/query"
	"github.com/01moynul/lumino-partner-portal/internal/store"
	"github.com/01moynul/lumino-partner-portal/internal/webhook"
	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

//
// --- Admin: Application Review Handlers ---
//

// filtered loads every application and applies the q/start/end parameters.
func (h *Handlers) filtered(c *gin.Context) ([]models.Application, error) {
	apps, err := h.Apps.List(c.Request.Context(), 0, 0)
	if err != nil {
		return nil, err
	}
	r := query.DateRange{Start: c.Query("start"), End: c.Query("end")}
	return query.Filter(apps, c.Query("q"), r, h.now()), nil
}

// ListApplications is the handler for GET /v1/admin/applications
// It returns applications newest first, filtered by the search query.
func (h *Handlers) ListApplications(c *gin.Context) {
	// 1. --- Parse Paging ---
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		respondError(c, http.StatusBadRequest, err, "Invalid page")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit < 1 {
		respondError(c, http.StatusBadRequest, err, "Invalid limit")
		return
	}
	limit = min(limit, maxPageSize)

	// 2. --- Load & Filter ---
	apps, err := h.filtered(c)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err, "Failed to fetch applications")
		return
	}

	// 3. --- Paginate ---
	// Pages past the end are empty. Comparing against total/limit first keeps
	// (page-1)*limit from overflowing for absurd page numbers.
	total := len(apps)
	start := total
	if page-1 <= total/limit {
		start = min((page-1)*limit, total)
	}
	end := min(start+limit, total)

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"applications": apps[start:end],
		"total":        total,
		"page":         page,
		"limit":        limit,
	})
}

// GetApplication is the handler for GET /v1/admin/applications/:id
func (h *Handlers) GetApplication(c *gin.Context) {
	app, ok := h.loadApplication(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "application": app})
}

// loadApplication fetches the :id application, writing the error response itself.
func (h *Handlers) loadApplication(c *gin.Context) (*models.Application, bool) {
	app, err := h.Apps.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, nil, "Application not found")
		return nil, false
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, err, "Failed to fetch application")
		return nil, false
	}
	return app, true
}

// DeleteApplication is the handler for DELETE /v1/admin/applications/:id
// The deletion webhook is best-effort.
func (h *Handlers) DeleteApplication(c *gin.Context) {
	// 1. --- Load Before Deleting ---
	// We need the partner's name and email for the deletion webhook.
	app, ok := h.loadApplication(c)
	if !ok {
		return
	}

	// 2. --- Delete ---
	if err := h.Apps.Delete(c.Request.Context(), app.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, http.StatusNotFound, nil, "Application not found")
			return
		}
		respondError(c, http.StatusInternalServerError, err, "Failed to delete application")
		return
	}

	// 3. --- Notify ---
	err := h.Notify.ApplicationDeleted(c.Request.Context(), webhook.Deletion{
		ApplicationID: app.ID,
		PartnerName:   app.PartnerFullName,
		PartnerEmail:  app.PartnerEmail,
		PartnerPhone:  app.PartnerPhone,
		DeletedAt:     h.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		logWarn(c, "delete webhook failed", err, "application_id", app.ID)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Application deleted"})
}

// StatusInput is the body for a status change.
type StatusInput struct {
	Status string `json:"status" binding:"required,oneof=invited submitted pending approved rejected"`
}

// UpdateApplicationStatus is the handler for PATCH /v1/admin/applications/:id/status
func (h *Handlers) UpdateApplicationStatus(c *gin.Context) {
	var input StatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err, "Status must be one of invited, submitted, pending, approved, rejected")
		return
	}

	err := h.Apps.UpdateStatus(c.Request.Context(), c.Param("id"), input.Status)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, nil, "Application not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, err, "Failed to update status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "status": input.Status})
}

// SearchPrefixes is the handler for GET /v1/admin/search-prefixes
// With ?q= it narrows the catalogue to prefixes matching the typed word.
func (h *Handlers) SearchPrefixes(c *gin.Context) {
	prefixes := query.Prefixes()
	if q := c.Query("q"); q != "" {
		prefixes = query.Suggest(q)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "prefixes": prefixes})
}

//
// --- Admin: Downloads ---
//

// AgreementPDF is the handler for GET /v1/admin/applications/:id/agreement.pdf
func (h *Handlers) AgreementPDF(c *gin.Context) {
	app, ok := h.loadApplication(c)
	if !ok {
		return
	}

	opts := pdf.Options{Now: h.now(), Images: h.Fetcher, CompanySignatureURL: h.CEOSignatureURL}
	out, err := pdf.Render(c.Request.Context(), app, opts)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err, "Failed to generate PDF")
		return
	}

	attachment(c, pdf.FileName(app.PartnerFullName, h.now()))
	c.Data(http.StatusOK, "application/pdf", out)
}

// ExportXLSX is the handler for GET /v1/admin/applications/export.xlsx
func (h *Handlers) ExportXLSX(c *gin.Context) {
	h.exportApplications(c, "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.XLSX)
}

// ExportCSV is the handler for GET /v1/admin/applications/export.csv
func (h *Handlers) ExportCSV(c *gin.Context) {
	h.exportApplications(c, "csv", "text/csv; charset=utf-8", export.CSV)
}

func (h *Handlers) exportApplications(c *gin.Context, ext, contentType string, write func(w io.Writer, apps []models.Application) error) {
	apps, err := h.filtered(c)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err, "Failed to fetch applications")
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, apps); err != nil {
		respondError(c, http.StatusInternalServerError, err, "Failed to export applications")
		return
	}

	attachment(c, "lumino-applications-"+h.now().Format("2006-01-02")+"."+ext)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func attachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
}
