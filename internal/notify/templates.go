package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"text/template"
)

const confirmationText = `Hello {{.PatientName}},

Your appointment has been confirmed!

Details:
Appointment ID: #{{.AppointmentID}}
Doctor: Dr. {{.DoctorName}}
Specialization: {{.Specialization}}
Date: {{.Date}}
Time: {{.Time}}
{{- if .Description}}
Description: {{.Description}}
{{- end}}

Please arrive 10 minutes before your scheduled time.
Bring any relevant medical records or test results.

Thank you for choosing our Hospital Management System!
Hospital Management Team
`

const confirmationHTML = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body>
<div class="container">
<h1>Appointment Confirmed</h1>
<p>Hello {{.PatientName}},</p>
<p>Your appointment has been confirmed!</p>
<table>
<tr><td>Appointment ID</td><td>#{{.AppointmentID}}</td></tr>
<tr><td>Doctor</td><td>Dr. {{.DoctorName}}</td></tr>
<tr><td>Specialization</td><td>{{.Specialization}}</td></tr>
<tr><td>Date</td><td>{{.Date}}</td></tr>
<tr><td>Time</td><td>{{.Time}}</td></tr>
{{- if .Description}}
<tr><td>Description</td><td>{{.Description}}</td></tr>
{{- end}}
</table>
<p>Please arrive 10 minutes before your scheduled time.</p>
<p>Thank you for choosing our Hospital Management System!</p>
</div>
</body>
</html>
`

const resetText = `Your password reset token is: {{.Token}}

This token expires in {{.Minutes}} minutes.
If you didn't request this, you can safely ignore this email.
`

const resetHTML = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body>
<div class="container">
<h1>Password Reset</h1>
<p>Hello,</p>
<p>We received a request to reset your password. Use the token below to complete the process:</p>
<div class="token-box">{{.Token}}</div>
<p>This token will expire in {{.Minutes}} minutes.</p>
<p>If you didn't request this, you can safely ignore this email.</p>
</div>
</body>
</html>
`

var (
	confirmationTextTmpl = template.Must(template.New("confirmation.txt").Parse(confirmationText))
	confirmationHTMLTmpl = htmltemplate.Must(htmltemplate.New("confirmation.html").Parse(confirmationHTML))
	resetTextTmpl        = template.Must(template.New("reset.txt").Parse(resetText))
	resetHTMLTmpl        = htmltemplate.Must(htmltemplate.New("reset.html").Parse(resetHTML))
)

func render(text *template.Template, html *htmltemplate.Template, data any) (string, string, error) {
	var textBuf, htmlBuf bytes.Buffer
	if err := text.Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("notify: render %s: %w", text.Name(), err)
	}
	if err := html.Execute(&htmlBuf, data); err != nil {
		return "", "", fmt.Errorf("notify: render %s: %w", html.Name(), err)
	}
	return textBuf.String(), htmlBuf.String(), nil
}
