package mail

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSMTP_RequiresHostPort(t *testing.T) {
	_, err := NewSMTP(SMTPConfig{Host: "", Port: 587})
	assert.ErrorIs(t, err, ErrSMTPHostPortRequired)

	_, err = NewSMTP(SMTPConfig{Host: "smtp.local"})
	assert.ErrorIs(t, err, ErrSMTPHostPortRequired)
}

func TestSMTP_SendValidation(t *testing.T) {
	s, err := NewSMTP(SMTPConfig{Host: "127.0.0.1", Port: 1})
	require.NoError(t, err)

	err = s.Send(context.Background(), Message{Subject: "x"})
	assert.ErrorIs(t, err, ErrSMTPNoRecipients)

	err = s.Send(context.Background(), Message{To: []string{"a@b.co"}})
	assert.ErrorIs(t, err, ErrSMTPNoSender)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = s.Send(ctx, Message{To: []string{"a@b.co"}, From: "no-reply@notekeep.app"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildRaw(t *testing.T) {
	raw := string(buildRaw("no-reply@notekeep.app", Message{
		To:       []string{"a@b.co"},
		Cc:       []string{"c@d.co"},
		Subject:  "Your Notes App OTP Code",
		TextBody: "code 123456",
		HTMLBody: "<b>123456</b>",
	}))

	assert.Contains(t, raw, "From: no-reply@notekeep.app\r\n")
	assert.Contains(t, raw, "To: a@b.co\r\n")
	assert.Contains(t, raw, "Cc: c@d.co\r\n")
	assert.Contains(t, raw, "Subject: Your Notes App OTP Code\r\n")
	assert.Contains(t, raw, "Content-Type: multipart/alternative; boundary=notekeep-boundary-")
	assert.Contains(t, raw, "code 123456")
	assert.Contains(t, raw, "<b>123456</b>")
}

func TestBuildBody_SinglePart(t *testing.T) {
	body, ct := buildBody(Message{TextBody: "plain"})
	assert.Equal(t, "plain", body)
	assert.True(t, strings.HasPrefix(ct, "text/plain"))

	body, ct = buildBody(Message{HTMLBody: "<p>x</p>"})
	assert.Equal(t, "<p>x</p>", body)
	assert.True(t, strings.HasPrefix(ct, "text/html"))
}
