package handlers

import (
	"errors"
	"net/http"

	"github.com/01moynul/lumino-partner-portal/internal/agreement"
	"github.com/01moynul/lumino-partner-portal/internal/invite"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

const qrSize = 256

//
// --- Admin: Invitation Handlers ---
//

// InviteInput is the body for a single invitation.
type InviteInput struct {
	Email string `json:"email" binding:"required"`
	Agent string `json:"agent"`
	agreement.Overrides
}

// BulkInviteInput is the body for a multi-recipient invitation.
type BulkInviteInput struct {
	Emails []string `json:"emails" binding:"required,min=1,max=100"`
	Agent  string   `json:"agent"`
	agreement.Overrides
}

// ResendInput is the body for re-sending an existing invite.
type ResendInput struct {
	Email string `json:"email" binding:"required"`
	Agent string `json:"agent"`
}

// CreateInvite is the handler for POST /v1/admin/invites
func (h *Handlers) CreateInvite(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input InviteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err, "Email is required")
		return
	}

	// 2. --- Create & Send ---
	res, err := h.Invites.Invite(c.Request.Context(), input.Email, invite.Request{Agent: input.Agent, Overrides: input.Overrides})
	switch {
	case errors.Is(err, invite.ErrInvalidEmail):
		respondError(c, http.StatusBadRequest, err, err.Error())
		return
	case err != nil && res.InviteID == "":
		respondError(c, http.StatusInternalServerError, err, "Failed to create invite")
		return
	case err != nil:
		// The row exists; staff can still share the link by hand.
		logWarn(c, "invite email failed", err, "invite_id", res.InviteID)
		body := failure("Failed to send email")
		body["result"] = res
		c.JSON(http.StatusBadGateway, body)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"inviteId": res.InviteID,
		"link":     res.Link,
		"message":  "Invite sent successfully",
	})
}

// BulkInvite is the handler for POST /v1/admin/invites/bulk
// It answers 200 when every invite went out, 207 when some did and 502 when none did.
func (h *Handlers) BulkInvite(c *gin.Context) {
	var input BulkInviteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err, "Provide between 1 and 100 email addresses")
		return
	}

	results := h.Invites.InviteMany(c.Request.Context(), input.Emails, invite.Request{Agent: input.Agent, Overrides: input.Overrides})
	sent, failed := invite.Tally(results)

	status := http.StatusOK
	switch {
	case sent == 0:
		status = http.StatusBadGateway
	case failed > 0:
		status = http.StatusMultiStatus
	}
	c.JSON(status, gin.H{
		"success": failed == 0,
		"sent":    sent,
		"failed":  failed,
		"results": results,
	})
}

// ResendInvite is the handler for POST /v1/admin/invites/:id/resend
func (h *Handlers) ResendInvite(c *gin.Context) {
	var input ResendInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, err, "Email is required")
		return
	}

	err := h.Invites.Resend(c.Request.Context(), input.Email, c.Param("id"), input.Agent)
	switch {
	case errors.Is(err, invite.ErrInvalidEmail), errors.Is(err, invite.ErrInvalidInviteID):
		respondError(c, http.StatusBadRequest, err, err.Error())
		return
	case err != nil:
		respondError(c, http.StatusBadGateway, err, "Failed to send email")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Invite sent successfully"})
}

// InviteQRCode is the handler for GET /v1/admin/invites/:id/qr.png
func (h *Handlers) InviteQRCode(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		respondError(c, http.StatusBadRequest, err, "Invite ID format is invalid")
		return
	}

	png, err := qrcode.Encode(h.Invites.Link(id), qrcode.Medium, qrSize)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err, "Failed to generate QR code")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
