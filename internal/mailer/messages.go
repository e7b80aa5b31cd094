package mailer

import (
	"fmt"
	"html"
	"net/url"
	"strings"
)

// PasswordReset builds the recovery message. The raw token goes into the
// link query string; it must never be persisted or logged elsewhere.
func PasswordReset(frontendURL string, to string, token string) Message {
	resetURL := strings.TrimRight(frontendURL, "/") + "/reset-password?token=" + url.QueryEscape(token)

	body := fmt.Sprintf(`<h1>Password Reset</h1>
<p>You requested a password reset. Click the link below to reset your password:</p>
<a href="%s">Reset Password</a>
<p>If you didn't request this, please ignore this email.</p>
<p>This link will expire in 1 hour.</p>`, resetURL)

	return Message{
		To:      []string{to},
		Subject: "Password Reset",
		HTML:    body,
	}
}

// ContactNotification tells the site owner about a new contact form entry
func ContactNotification(adminEmail string, name, email, subject, message string) Message {
	body := fmt.Sprintf(`<h1>New Contact Form Submission</h1>
<p><strong>Name:</strong> %s</p>
<p><strong>Email:</strong> %s</p>
<p><strong>Subject:</strong> %s</p>
<p><strong>Message:</strong></p>
<p>%s</p>`,
		html.EscapeString(name),
		html.EscapeString(email),
		html.EscapeString(subject),
		strings.ReplaceAll(html.EscapeString(message), "\n", "<br>"),
	)

	return Message{
		To:      []string{adminEmail},
		Subject: "New Contact Form Submission: " + subject,
		HTML:    body,
	}
}

// Newsletter addresses the sender itself and hides the list in Bcc
func Newsletter(from string, recipients []string, subject string, content string) Message {
	return Message{
		To:      []string{from},
		Bcc:     recipients,
		Subject: subject,
		HTML:    content,
	}
}
