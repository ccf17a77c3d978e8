// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// MagicLinkData holds data for the sign-in email.
type MagicLinkData struct {
	SiteName  string
	Code      string
	MagicLink string
	ExpiresIn string // e.g. "10 minutes"
}

var magicLinkHTML = template.Must(template.New("magiclink").Parse(magicLinkHTMLTemplate))

// BuildMagicLinkEmail creates the sign-in email. The caller sets To.
func BuildMagicLinkEmail(data MagicLinkData) Email {
	var html bytes.Buffer
	_ = magicLinkHTML.Execute(&html, data)

	return Email{
		Subject:  fmt.Sprintf("Your %s sign-in link", data.SiteName),
		TextBody: buildMagicLinkText(data),
		HTMLBody: html.String(),
	}
}

func buildMagicLinkText(data MagicLinkData) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Continue your journey with %s.\n\n", data.SiteName)
	buf.WriteString("Open this link to sign in:\n")
	buf.WriteString(data.MagicLink + "\n\n")
	fmt.Fprintf(&buf, "Or enter this code on the sign-in page: %s\n\n", data.Code)
	fmt.Fprintf(&buf, "The link and code expire in %s.\n\n", data.ExpiresIn)
	buf.WriteString("If you did not request this email, you can safely ignore it.\n")
	return buf.String()
}

const magicLinkHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Sign in</title>
</head>
<body style="margin:0;padding:0;font-family:Georgia,'Times New Roman',serif;background-color:#f0ebe0;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color:#f0ebe0;">
    <tr>
      <td align="center" style="padding:40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width:480px;background-color:#ffffff;border-radius:8px;">
          <tr>
            <td style="padding:32px 32px 16px;text-align:center;">
              <h1 style="margin:0;font-size:24px;font-weight:600;color:#2a1f15;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding:16px 32px;text-align:center;">
              <a href="{{.MagicLink}}" style="display:inline-block;padding:14px 32px;background-color:#2a1f15;color:#f0ebe0;text-decoration:none;font-size:16px;border-radius:6px;">Continue your journey</a>
              <p style="margin:24px 0 8px;font-size:14px;color:#5d4e3a;">Or enter this code:</p>
              <p style="margin:0;font-size:28px;letter-spacing:8px;color:#2a1f15;font-family:'Courier New',monospace;">{{.Code}}</p>
              <p style="margin:24px 0 0;font-size:13px;color:#5d4e3a;">The link and code expire in {{.ExpiresIn}}.</p>
            </td>
          </tr>
          <tr>
            <td style="padding:24px 32px;border-top:1px solid #e8dfd0;">
              <p style="margin:0;font-size:12px;color:#5d4e3a;text-align:center;">If you did not request this email, you can safely ignore it.</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

// FormatExpiry renders a verification lifetime for email copy.
func FormatExpiry(minutes int) string {
	switch {
	case minutes <= 1:
		return "1 minute"
	case minutes < 60:
		return fmt.Sprintf("%d minutes", minutes)
	case minutes == 60:
		return "1 hour"
	case minutes%60 == 0:
		return fmt.Sprintf("%d hours", minutes/60)
	default:
		return fmt.Sprintf("%d minutes", minutes)
	}
}
