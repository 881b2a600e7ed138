package errorreport

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stanstork/timeline-notify/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmailNotifierDisabled(t *testing.T) {
	n, err := NewEmailNotifier(config.EmailConfig{SMTPHost: "smtp.example.com"}, zerolog.Nop())
	require.NoError(t, err)
	assert.Nil(t, n)

	n, err = NewEmailNotifier(config.EmailConfig{AlertRecipients: []string{"ops@example.com"}}, zerolog.Nop())
	require.NoError(t, err)
	assert.Nil(t, n)
}

func TestNewEmailNotifierRequiresFrom(t *testing.T) {
	_, err := NewEmailNotifier(config.EmailConfig{
		SMTPHost:        "smtp.example.com",
		AlertRecipients: []string{"ops@example.com"},
	}, zerolog.Nop())
	assert.Error(t, err)
}

func TestEmailNotifierNotify(t *testing.T) {
	n, err := NewEmailNotifier(config.EmailConfig{
		From:            "timeline@example.com",
		SMTPHost:        "smtp.example.com",
		AlertRecipients: []string{" ops@example.com ", ""},
	}, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, n)

	var (
		gotAddr string
		gotTo   []string
		gotMsg  string
	)
	n.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		return nil
	}

	require.NoError(t, n.Notify(context.Background(), testReport("")))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"ops@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: [Timeline] Error in timeline_plugin_notification")
	assert.Contains(t, gotMsg, "insert event 1: connection refused")

	n.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("refused") }
	assert.Error(t, n.Notify(context.Background(), testReport("")))
}
