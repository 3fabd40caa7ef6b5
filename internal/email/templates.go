package email

import (
	"bytes"
	"fmt"
	"html/template"
)

var inviteTmpl = template.Must(template.New("invite").Parse(`
<div style="font-family: sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto;">
  <div style="text-align: center; margin-bottom: 30px;">
    <h1 style="color: #1a1a1a; font-size: 28px;">LUMINO</h1>
    <p style="color: #666; font-size: 14px;">Payments with Purpose</p>
  </div>

  <h2 style="color: #1a1a1a;">You're Invited to Join Our Partner Program!</h2>

  <p>Hello,</p>

  <p>You've been personally invited{{if .Agent}} by <strong>{{.Agent}}</strong>{{end}} to join the Lumino Partner Program. We're excited to potentially welcome you to our growing network of partners who are transforming the payments industry.</p>

  <div style="text-align: center; margin: 30px 0;">
    <a href="{{.Link}}" style="background-color: #007bff; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px; font-weight: bold; display: inline-block;">
      Complete Your Application
    </a>
  </div>

  <p>This personalized link will connect your application directly with our team, ensuring you receive dedicated support throughout the process.</p>

  <p><strong>What makes Lumino different:</strong></p>
  <ul>
    <li>Residual revenue sharing</li>
    <li>Next-generation dual-pricing gateway</li>
    <li>Built-in rewards engine for customer loyalty</li>
    <li>Transparent, partner-first economics</li>
    <li>AI-driven automation and streamlined operations</li>
  </ul>

  <p>If you have any questions, feel free to reach out to our <a href="mailto:support@golumino.com">partner team</a>.</p>

  <p>We look forward to partnering with you!</p>

  <div style="margin-top: 40px; padding-top: 20px; border-top: 1px solid #eee; text-align: center; color: #666; font-size: 12px;">
    <p>Lumino Technologies<br>
    4201 Main St Suite 201, Houston, TX 77002<br>
    1-866-488-4168 | www.golumino.com</p>
  </div>
</div>
`))

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`
<div style="font-family: sans-serif; line-height: 1.6; color: #333; padding: 20px;">
  <h1 style="font-size: 24px; color: #1a1a1a; margin-bottom: 10px;">
    Thank you for your application, {{.Name}}!
  </h1>
  <p>
    We've successfully received your partner application. Our team will review your submission and get in touch with you shortly.
  </p>
  <p>
    If you have any questions, feel free to reach out to <a href="mailto:support@golumino.com">support@golumino.com</a>.
  </p>
</div>
`))

// InviteSubject is the subject line of every invitation.
const InviteSubject = "You're Invited to Join the Lumino Partner Program"

// InviteMessage builds the invitation for one recipient.
func InviteMessage(to, agent, link string) (Message, error) {
	var buf bytes.Buffer
	err := inviteTmpl.Execute(&buf, struct {
		Agent string
		Link  string
	}{agent, link})
	if err != nil {
		return Message{}, fmt.Errorf("failed to render invite email: %w", err)
	}
	return Message{To: []string{to}, Subject: InviteSubject, HTML: buf.String()}, nil
}

// ConfirmationMessage builds the submission notice sent to staff and the partner.
func ConfirmationMessage(to []string, partnerName string) (Message, error) {
	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, struct{ Name string }{partnerName}); err != nil {
		return Message{}, fmt.Errorf("failed to render confirmation email: %w", err)
	}
	return Message{
		To:      to,
		Subject: "Lumino Partner Application - " + partnerName,
		HTML:    buf.String(),
	}, nil
}
