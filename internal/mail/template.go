package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

var otpTemplate = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; }
    .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 30px; text-align: center; color: white; }
    .content { padding: 30px; background: #f9fafb; }
    .otp-code { font-size: 32px; font-weight: bold; letter-spacing: 10px; text-align: center; margin: 30px 0; padding: 20px; background: white; border-radius: 10px; border: 2px dashed #e5e7eb; }
    .footer { padding: 20px; text-align: center; color: #6b7280; font-size: 12px; border-top: 1px solid #e5e7eb; }
  </style>
</head>
<body>
  <div class="header">
    <h1>{{.AppName}}</h1>
    <p>{{.Heading}}</p>
  </div>
  <div class="content">
    <h2>{{.Greeting}}</h2>
    <p>{{.Intro}}</p>
    <div class="otp-code">{{.Code}}</div>
    <p>This code will expire in <strong>{{.ExpiryMinutes}} minutes</strong>.</p>
    <p>If you didn't request this code, please ignore this email.</p>
    <p>Best regards,<br><strong>{{.AppName}} Team</strong></p>
  </div>
  <div class="footer">
    <p>This is an automated message, please do not reply.</p>
    <p>&copy; {{.Year}} {{.AppName}}. All rights reserved.</p>
  </div>
</body>
</html>`))

type otpTemplateData struct {
	AppName       string
	Heading       string
	Greeting      string
	Intro         string
	Code          string
	ExpiryMinutes int
	Year          int
}

// VerificationEmail renders the email-verification OTP message.
func VerificationEmail(appName, code string, ttl time.Duration) (Message, error) {
	return renderOTP(appName, code, ttl, otpTemplateData{
		Heading:  "Email Verification",
		Greeting: "Welcome!",
		Intro:    "Thank you for registering. Use the following OTP code to verify your email address:",
	}, fmt.Sprintf("Your OTP Code - %s", appName))
}

// ResetEmail renders the password-reset OTP message.
func ResetEmail(appName, code string, ttl time.Duration) (Message, error) {
	return renderOTP(appName, code, ttl, otpTemplateData{
		Heading:  "Password Reset",
		Greeting: "Hello,",
		Intro:    "We received a request to reset your password. Use the following code to continue:",
	}, fmt.Sprintf("Your Password Reset Code - %s", appName))
}

func renderOTP(appName, code string, ttl time.Duration, data otpTemplateData, subject string) (Message, error) {
	data.AppName = appName
	data.Code = code
	data.ExpiryMinutes = int(ttl.Minutes())
	data.Year = time.Now().Year()

	var buf bytes.Buffer
	if err := otpTemplate.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("render otp email: %w", err)
	}

	text := fmt.Sprintf(
		"Your OTP verification code is: %s\n\n"+
			"This code will expire in %d minutes.\n\n"+
			"If you didn't request this code, please ignore this email.\n\n"+
			"Best regards,\n%s Team\n",
		code, data.ExpiryMinutes, appName,
	)

	return Message{Subject: subject, HTML: buf.String(), Text: text}, nil
}
