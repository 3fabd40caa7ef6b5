// Package webhook posts best-effort JSON notifications to the automation
// endpoints configured for submissions and deletions.
package webhook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// Submission is the payload sent when a partner submits an application.
type Submission struct {
	FormData      map[string]any `json:"formData"`
	URLs          UploadURLs     `json:"urls"`
	SubmittedAt   time.Time      `json:"submittedAt"`
	InviteID      string         `json:"inviteId,omitempty"`
	ScheduleA     any            `json:"scheduleA"`
	ScheduleAType string         `json:"scheduleAType"`
}

// UploadURLs are the document links included in a submission.
type UploadURLs struct {
	DriversLicense string `json:"driversLicense"`
	VoidedCheck    string `json:"voidedCheck"`
}

// Deletion is the payload sent after an application is deleted.
type Deletion struct {
	ApplicationID string `json:"applicationId"`
	PartnerName   string `json:"partnerName"`
	PartnerEmail  string `json:"partnerEmail"`
	PartnerPhone  string `json:"partnerPhone"`
	DeletedAt     string `json:"deletedAt"`
}

// Notifier posts to the configured endpoints. An empty URL disables that event.
type Notifier struct {
	client    *resty.Client
	submitURL string
	deleteURL string
}

func NewNotifier(submitURL, deleteURL string, timeout time.Duration) *Notifier {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "lumino-partner-portal")
	return &Notifier{client: client, submitURL: submitURL, deleteURL: deleteURL}
}

// ApplicationSubmitted notifies the submission endpoint.
func (n *Notifier) ApplicationSubmitted(ctx context.Context, s Submission) error {
	return n.post(ctx, n.submitURL, s)
}

// ApplicationDeleted notifies the deletion endpoint.
func (n *Notifier) ApplicationDeleted(ctx context.Context, d Deletion) error {
	return n.post(ctx, n.deleteURL, d)
}

func (n *Notifier) post(ctx context.Context, url string, body any) error {
	if url == "" {
		return nil
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(url)
	if err != nil {
		return fmt.Errorf("webhook: request to %s failed: %w", url, err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook: %s responded %d: %s", url, resp.StatusCode(), truncate(resp.String(), 200))
	}

	slog.DebugContext(ctx, "webhook delivered", "url", url, "status", resp.StatusCode())
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
