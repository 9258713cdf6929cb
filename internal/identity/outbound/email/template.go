package email

const otpHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Your OTP Code</title>
</head>
<body style="margin:0;padding:0;background:#f4f4f7;font-family:Arial,Helvetica,sans-serif;color:#333333;">
  <div style="max-width:600px;margin:0 auto;padding:24px;">
    <div style="background:linear-gradient(135deg,#667eea 0%,#764ba2 100%);padding:28px;border-radius:10px 10px 0 0;text-align:center;">
      <h1 style="margin:0;color:#ffffff;font-size:26px;">Notes App</h1>
    </div>
    <div style="background:#ffffff;padding:32px;border-radius:0 0 10px 10px;">
      <h2 style="margin-top:0;color:#333333;">Your OTP Code</h2>
      <p>Use this code to complete your authentication:</p>
      <div style="background:#f4f4f7;border:2px dashed #667eea;border-radius:8px;padding:20px;text-align:center;margin:24px 0;">
        <span style="font-size:32px;font-weight:bold;letter-spacing:8px;color:#667eea;">{{.code}}</span>
      </div>
      <p>This code will expire in <strong>{{.expires}}</strong>.</p>
      <p>If you didn't request this code, please ignore this email.</p>
      <hr style="border:none;border-top:1px solid #eeeeee;margin:24px 0;">
      <p style="font-size:12px;color:#999999;">This is an automated message from Notes App. Please do not reply to this email.</p>
    </div>
  </div>
</body>
</html>
`

const otpTextTemplate = `Your Notes App OTP Code

Your verification code is: {{.code}}

This code will expire in {{.expires}}.

If you didn't request this code, please ignore this email.
`
