package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/01moynul/lumino-partner-portal/internal/jsonfix"
	"github.com/01moynul/lumino-partner-portal/internal/middleware"
	"github.com/01moynul/lumino-partner-portal/internal/models"
	"github.com/01moynul/lumino-partner-portal/internal/store"
	"github.com/gin-gonic/gin"
)

//
// --- Admin: Schedule A Versions ---
//

// ScheduleVersionInput is the body for a new fee schedule version.
type ScheduleVersionInput struct {
	ScheduleAData json.RawMessage `json:"scheduleAData" binding:"required"`
	EffectiveDate string          `json:"effectiveDate"`
	Notes         string          `json:"notes"`
	CreatedBy     string          `json:"createdBy"`
}

// ScheduleHistory is the handler for GET /v1/admin/applications/:id/schedule-a/history
func (h *Handlers) ScheduleHistory(c *gin.Context) {
	versions, err := h.Schedules.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, err, "Failed to fetch history")
		return
	}
	if versions == nil {
		versions = []models.FeeScheduleVersion{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "versions": versions})
}

// CreateScheduleVersion is the handler for POST /v1/admin/applications/:id/schedule-a
// The new version becomes the only active one and is copied onto the application.
func (h *Handlers) CreateScheduleVersion(c *gin.Context) {
	// 1. --- Load Application ---
	app, ok := h.loadApplication(c)
	if !ok {
		return
	}

	// 2. --- Bind & Validate JSON ---
	var input ScheduleVersionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err, "Missing required field: scheduleAData")
		return
	}
	data := jsonfix.Normalize(input.ScheduleAData)
	if data == nil {
		respondError(c, http.StatusBadRequest, nil, "scheduleAData must be a JSON object")
		return
	}

	effective := input.EffectiveDate
	if effective == "" {
		effective = h.now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", effective); err != nil {
		respondError(c, http.StatusBadRequest, err, "effectiveDate must be YYYY-MM-DD")
		return
	}

	createdBy := strings.TrimSpace(input.CreatedBy)
	if createdBy == "" {
		createdBy = fmt.Sprintf("staff:%d", c.GetInt64(middleware.StaffIDKey))
	}

	v := &models.FeeScheduleVersion{
		ApplicationID: app.ID,
		ScheduleData:  data,
		EffectiveDate: effective,
		CreatedBy:     createdBy,
		CreatedAt:     h.now().UTC(),
	}
	if notes := strings.TrimSpace(input.Notes); notes != "" {
		v.Notes = &notes
	}

	// 3. --- Save in One Transaction ---
	// The store deactivates older versions and mirrors the data onto the application.
	err := h.Schedules.CreateActive(c.Request.Context(), v)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, nil, "Application not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, err, "Failed to create version")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"version": v,
		"message": "Schedule A updated successfully",
	})
}
