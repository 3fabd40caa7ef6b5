package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/01moynul/lumino-partner-portal/internal/agreement"
	"github.com/01moynul/lumino-partner-portal/internal/email"
	"github.com/01moynul/lumino-partner-portal/internal/feeschedule"
	"github.com/01moynul/lumino-partner-portal/internal/jsonfix"
	"github.com/01moynul/lumino-partner-portal/internal/models"
	"github.com/01moynul/lumino-partner-portal/internal/store"
	"github.com/01moynul/lumino-partner-portal/internal/webhook"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

//
// --- Partner Wizard Handlers ---
//

// GetInviteCustomization is the handler for GET /v1/invites/:id/customization
// Every override is unwrapped to an object, or null when it cannot be.
func (h *Handlers) GetInviteCustomization(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		respondError(c, http.StatusBadRequest, err, "Invite ID format is invalid")
		return
	}

	app, err := h.Apps.Get(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, nil, "Invite not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, err, "Failed to fetch invite")
		return
	}

	out := gin.H{"success": true, "agent": app.AgentOrDefault()}
	for _, f := range models.JSONFields() {
		raw := *f.Ptr(app)
		norm := jsonfix.Normalize(raw)
		if norm == nil && jsonfix.IsPresent(raw) {
			slog.DebugContext(c.Request.Context(), "unusable override", "invite_id", id, "column", f.Column)
		}
		out[f.Column] = nullableJSON(norm)
	}
	c.JSON(http.StatusOK, out)
}

// PreviewInput is the body for an agreement preview.
type PreviewInput struct {
	FormData models.FormData `json:"formData"`
	InviteID string          `json:"inviteId"`
	agreement.Overrides
}

// PreviewAgreement is the handler for POST /v1/agreement/preview
// Overrides come from the invite when one is given, else from the body.
func (h *Handlers) PreviewAgreement(c *gin.Context) {
	var input PreviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err, "Invalid preview request")
		return
	}

	ov := input.Overrides
	if input.InviteID != "" {
		app, err := h.Apps.Get(c.Request.Context(), input.InviteID)
		switch {
		case err == nil:
			ov = agreement.OverridesFrom(app)
		case !errors.Is(err, store.ErrNotFound):
			respondError(c, http.StatusInternalServerError, err, "Failed to fetch invite")
			return
		}
	}

	sections := agreement.Build(input.FormData, ov, agreement.Options{Now: h.now()})
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"sections": sections,
		"text":     agreement.PlainText(sections),
	})
}

// FileURLs are the uploaded document links sent with a submission.
type FileURLs struct {
	DriversLicenseURL string `json:"driversLicenseUrl"`
	VoidedCheckURL    string `json:"voidedCheckUrl"`
}

// SubmitInput is the body of a wizard submission.
type SubmitInput struct {
	FormData        *models.FormData `json:"formData" binding:"required"`
	FileURLs        FileURLs         `json:"fileUrls"`
	AgreementText   string           `json:"agreementText"`
	InviteID        string           `json:"inviteId"`
	CustomScheduleA json.RawMessage  `json:"customScheduleA"`
}

// SubmitApplication is the handler for POST /v1/applications/submit
// It fills in the invite row (or inserts a new one) and then fires the
// webhook and confirmation email, neither of which can fail the request.
func (h *Handlers) SubmitApplication(c *gin.Context) {
	ctx := c.Request.Context()

	// 1. --- Bind & Validate JSON ---
	var input SubmitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err, "Form data is missing")
		return
	}
	form := *input.FormData
	if input.FileURLs.DriversLicenseURL != "" {
		form.DriversLicenseURL = input.FileURLs.DriversLicenseURL
	}
	if input.FileURLs.VoidedCheckURL != "" {
		form.VoidedCheckURL = input.FileURLs.VoidedCheckURL
	}
	if missing := form.MissingRequired(); len(missing) > 0 {
		slog.WarnContext(ctx, "submission missing fields", "fields", missing)
		body := failure("Missing required fields")
		body["fields"] = missing
		c.JSON(http.StatusBadRequest, body)
		return
	}
	if input.InviteID != "" {
		if _, err := uuid.Parse(input.InviteID); err != nil {
			respondError(c, http.StatusBadRequest, err, "Invite ID format is invalid")
			return
		}
	}

	// 2. --- Find the Invite ---
	// An invite link already created the row, so we update it instead of inserting.
	var app *models.Application
	if input.InviteID != "" {
		existing, err := h.Apps.Get(ctx, input.InviteID)
		switch {
		case err == nil:
			app = existing
		case errors.Is(err, store.ErrNotFound):
			slog.WarnContext(ctx, "invite not found, inserting new application", "invite_id", input.InviteID)
		default:
			respondError(c, http.StatusInternalServerError, err, "Failed to fetch invite")
			return
		}
	}
	isNew := app == nil
	if isNew {
		app = &models.Application{ID: uuid.NewString(), CreatedAt: h.now().UTC()}
	}

	// 3. --- Validate the Schedule ---
	// The wizard may omit the schedule; the one stored on the invite is used then.
	rawSchedule := input.CustomScheduleA
	if !jsonfix.IsPresent(rawSchedule) {
		rawSchedule = app.CustomScheduleA
	}
	scheduleType := "default"
	if jsonfix.Normalize(rawSchedule) != nil {
		scheduleType = "custom"
	}
	schedule := feeschedule.Merge(rawSchedule)
	canonical, err := schedule.MarshalCanonical()
	if err != nil {
		respondError(c, http.StatusInternalServerError, err, "Failed to encode schedule")
		return
	}

	// 4. --- Fill the Row ---
	form.Apply(app)
	app.Status = models.StatusSubmitted
	app.CustomScheduleA = canonical
	app.AgreementText = input.AgreementText
	if app.AgreementText == "" {
		app.AgreementText = agreement.PlainText(agreement.Build(form, agreement.OverridesFrom(app), agreement.Options{Now: h.now()}))
	}

	// 5. --- Save ---
	if isNew {
		err = h.Apps.Create(ctx, app)
	} else {
		err = h.Apps.Update(ctx, app)
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, err, "Failed to save application")
		return
	}

	// 6. --- Best-Effort Notifications ---
	// The application is already saved, so a failed webhook or email is only logged.
	h.notifySubmitted(c, app, form, input, schedule, scheduleType)

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"applicationId": app.ID,
		"message":       "Application submitted successfully",
	})
}

func (h *Handlers) notifySubmitted(c *gin.Context, app *models.Application, form models.FormData, input SubmitInput, schedule feeschedule.Schedule, scheduleType string) {
	ctx := c.Request.Context()

	var fields map[string]any
	if b, err := json.Marshal(form); err == nil {
		_ = json.Unmarshal(b, &fields)
	}
	err := h.Notify.ApplicationSubmitted(ctx, webhook.Submission{
		FormData:      fields,
		URLs:          webhook.UploadURLs{DriversLicense: form.DriversLicenseURL, VoidedCheck: form.VoidedCheckURL},
		SubmittedAt:   h.now().UTC(),
		InviteID:      input.InviteID,
		ScheduleA:     schedule,
		ScheduleAType: scheduleType,
	})
	if err != nil {
		logWarn(c, "submission webhook failed", err, "application_id", app.ID)
	}

	to := append(append([]string{}, h.NotifyEmails...), form.PartnerEmail)
	msg, err := email.ConfirmationMessage(to, form.PartnerFullName)
	if err == nil {
		err = h.Mail.Send(ctx, msg)
	}
	if err != nil {
		logWarn(c, "confirmation email failed", err, "application_id", app.ID)
	}
}
