package email

import (
	"bytes"
	"context"
	htmltemplate "html/template"
	"strconv"
	"text/template"
	"time"

	"github.com/shandysiswandi/notekeep/internal/identity/usecase"
	"github.com/shandysiswandi/notekeep/internal/pkg/instrument"
	"github.com/shandysiswandi/notekeep/internal/pkg/mail"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const subjectOTP = "Your Notes App OTP Code"

var (
	otpHTML = htmltemplate.Must(htmltemplate.New("otp_html").Option("missingkey=zero").Parse(otpHTMLTemplate))
	otpText = template.Must(template.New("otp_text").Option("missingkey=zero").Parse(otpTextTemplate))
)

type Mail struct {
	client mail.Mail
	ins    instrument.Instrumentation
}

func New(client mail.Mail, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, ins: ins}
}

// SendOTP renders the passcode email and hands it to the mail client.
func (m *Mail) SendOTP(ctx context.Context, msg usecase.OTPNotification) error {
	ctx, span := m.ins.Tracer("identity.outbound.email").Start(ctx, "SendOTP")
	defer span.End()

	span.SetAttributes(attribute.String("email.subject", subjectOTP))

	message, err := buildOTPMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := m.client.Send(ctx, message); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func buildOTPMessage(msg usecase.OTPNotification) (mail.Message, error) {
	data := map[string]any{
		"code":    msg.Code,
		"expires": expiryText(msg.TTL),
	}

	var html bytes.Buffer
	if err := otpHTML.Execute(&html, data); err != nil {
		return mail.Message{}, err
	}

	var text bytes.Buffer
	if err := otpText.Execute(&text, data); err != nil {
		return mail.Message{}, err
	}

	return mail.Message{
		To:       []string{msg.Email},
		Subject:  subjectOTP,
		TextBody: text.String(),
		HTMLBody: html.String(),
	}, nil
}

func expiryText(ttl time.Duration) string {
	minutes := int(ttl / time.Minute)
	if minutes <= 1 {
		return "1 minute"
	}
	return strconv.Itoa(minutes) + " minutes"
}
