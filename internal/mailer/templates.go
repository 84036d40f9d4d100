package mailer

import (
	"html/template"
	texttemplate "text/template"
)

type otpData struct {
	AppName string
	Code    string
	Minutes int
}

var otpTextTemplate = texttemplate.Must(texttemplate.New("otp.txt").Parse(
	"Your OTP for password reset is: {{.Code}}\nThis OTP will expire in {{.Minutes}} minutes.\n"))

var otpHTMLTemplate = template.Must(template.New("otp.html").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px;">
    <h2 style="color: #333; margin-bottom: 20px;">Password Reset OTP</h2>
    <p style="color: #555;">You have requested to reset your password for {{.AppName}}.</p>
    <div style="text-align: center; margin: 30px 0;">
      <div style="background-color: #e9ecef; padding: 15px; border-radius: 5px; font-size: 24px; font-weight: bold; letter-spacing: 5px; color: #007bff; display: inline-block;">
        {{.Code}}
      </div>
    </div>
    <p style="color: #666; font-size: 14px;">This OTP will expire in {{.Minutes}} minutes.</p>
    <p style="color: #666; font-size: 14px;">If you didn't request this password reset, please ignore this email.</p>
    <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
    <p style="color: #999; font-size: 12px; text-align: center;">This is an automated message from {{.AppName}}. Please do not reply to this email.</p>
  </div>
</div>
`))
