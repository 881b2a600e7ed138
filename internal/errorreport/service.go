// Package errorreport forwards runtime failures to operator-facing channels.
// Reports are fire-and-forget: callers never wait for or see delivery errors.
package errorreport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stanstork/timeline-notify/internal/models"
)

// Reporter accepts an error together with the plugin it came from and the
// destination the operator configured for reports.
type Reporter interface {
	Report(err error, plugin *models.PluginKind, destination string)
}

type Service struct {
	logger    zerolog.Logger
	notifiers []Notifier
	timeout   time.Duration
	now       func() time.Time
	wg        sync.WaitGroup
}

func NewService(logger zerolog.Logger, timeout time.Duration, notifiers ...Notifier) *Service {
	active := make([]Notifier, 0, len(notifiers))
	for _, notifier := range notifiers {
		if notifier != nil {
			active = append(active, notifier)
		}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{
		logger:    logger.With().Str("component", "error_reporter").Logger(),
		notifiers: active,
		timeout:   timeout,
		now:       time.Now,
	}
}

// Report logs err and dispatches it to every notifier on a detached
// goroutine.
func (s *Service) Report(err error, plugin *models.PluginKind, destination string) {
	if err == nil {
		return
	}
	report := models.ErrorReport{
		ID:          uuid.NewString(),
		Plugin:      plugin,
		Message:     err.Error(),
		Destination: destination,
		CreatedAt:   s.now().UTC(),
	}

	event := s.logger.Error().Err(err).Str("report_id", report.ID)
	if plugin != nil {
		event = event.Str("plugin", string(*plugin))
	}
	event.Msg("error reported")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error().Interface("panic", r).Str("report_id", report.ID).Msg("error reporter panicked")
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.dispatch(ctx, report)
	}()
}

// Wait blocks until in-flight reports finish. Used on shutdown.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) dispatch(ctx context.Context, report models.ErrorReport) {
	for _, notifier := range s.notifiers {
		if err := notifier.Notify(ctx, report); err != nil {
			logNotifyError(s.logger, err, notifierChannelName(notifier), report)
		}
	}
}

func notifierChannelName(n Notifier) string {
	type named interface {
		String() string
	}
	if v, ok := n.(named); ok {
		return v.String()
	}
	return fmt.Sprintf("%T", n)
}
