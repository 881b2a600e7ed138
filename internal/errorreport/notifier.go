package errorreport

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/stanstork/timeline-notify/internal/models"
)

type Notifier interface {
	Notify(ctx context.Context, report models.ErrorReport) error
}

func sanitizeRecipients(recipients []string) []string {
	var cleaned []string
	for _, recipient := range recipients {
		if recipient = strings.TrimSpace(recipient); recipient != "" {
			cleaned = append(cleaned, recipient)
		}
	}
	return cleaned
}

func logNotifyError(logger zerolog.Logger, err error, channel string, report models.ErrorReport) {
	if err == nil {
		return
	}
	logger.Warn().
		Err(err).
		Str("report_id", report.ID).
		Str("channel", channel).
		Msg("failed to deliver error report")
}
