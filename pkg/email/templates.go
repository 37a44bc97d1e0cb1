package email

import "html/template"

const layoutOpen = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1.0"></head>
<body style="margin:0;padding:0;background-color:#f4f5f7;font-family:Arial,Helvetica,sans-serif;">
  <table width="100%" cellpadding="0" cellspacing="0" style="padding:40px 0;">
    <tr><td align="center">
      <table width="520" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;padding:40px;">
        <tr><td>
          <h1 style="color:#1f2937;font-size:22px;margin:0 0 24px 0;">{{.CompanyName}}</h1>`

const layoutClose = `
          <p style="color:#9ca3af;font-size:12px;margin:32px 0 0 0;">{{.CompanyName}}</p>
        </td></tr>
      </table>
    </td></tr>
  </table>
</body>
</html>`

// templates, tüm email gövdeleri. Paket yüklenirken bir kez derlenir.
var templates = template.Must(template.New("email").Parse(
	`{{define "welcome"}}` + layoutOpen + `
          <p style="color:#374151;font-size:15px;line-height:1.6;">Hi {{.FirstName}},</p>
          <p style="color:#374151;font-size:15px;line-height:1.6;">Welcome aboard! Your account is ready. Browse the course catalog and enroll in your first session.</p>
          <p><a href="{{.FrontendURL}}/courses" style="color:#4f46e5;">Explore courses</a></p>` + layoutClose + `{{end}}` +

		`{{define "password_reset"}}` + layoutOpen + `
          <p style="color:#374151;font-size:15px;line-height:1.6;">Hi {{.FirstName}},</p>
          <p style="color:#374151;font-size:15px;line-height:1.6;">We received a request to reset your password. Use the code below to choose a new one:</p>
          <p style="font-size:28px;letter-spacing:6px;font-weight:bold;color:#111827;">{{.OTP}}</p>
          <p style="color:#6b7280;font-size:13px;">If you didn't request a password reset, you can safely ignore this email.</p>` + layoutClose + `{{end}}` +

		`{{define "enrollment_confirmation"}}` + layoutOpen + `
          <p style="color:#374151;font-size:15px;line-height:1.6;">Hi {{.FirstName}},</p>
          <p style="color:#374151;font-size:15px;line-height:1.6;">Your enrollment in <strong>{{.Course}}</strong> has been received.</p>
          <ul style="color:#374151;font-size:15px;line-height:1.6;">
            <li>Starts: {{.StartDate}}</li>
            <li>Ends: {{.EndDate}}</li>
            {{if .Location}}<li>Location: {{.Location}}</li>{{end}}
          </ul>
          <p><a href="{{.FrontendURL}}/enrollments" style="color:#4f46e5;">View my enrollments</a></p>` + layoutClose + `{{end}}` +

		`{{define "certificate"}}` + layoutOpen + `
          <p style="color:#374151;font-size:15px;line-height:1.6;">Congratulations {{.FirstName}}!</p>
          <p style="color:#374151;font-size:15px;line-height:1.6;">You have completed every lesson of <strong>{{.Course}}</strong>.</p>
          <p><a href="{{.Link}}" style="color:#4f46e5;">Download your certificate</a></p>` + layoutClose + `{{end}}`,
))
