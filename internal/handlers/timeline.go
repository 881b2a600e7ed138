package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stanstork/timeline-notify/internal/authz"
	"github.com/stanstork/timeline-notify/internal/models"
	"github.com/stanstork/timeline-notify/internal/plugin"
	"github.com/stanstork/timeline-notify/internal/response"
	"golang.org/x/sync/errgroup"
)

// PluginSource lists the plugins whose events make up the timeline.
type PluginSource interface {
	Plugins() []plugin.Plugin
}

type TimelineHandler struct {
	plugins PluginSource
	logger  zerolog.Logger
}

func NewTimelineHandler(plugins PluginSource, logger zerolog.Logger) *TimelineHandler {
	return &TimelineHandler{
		plugins: plugins,
		logger:  logger.With().Str("handler", "timeline").Logger(),
	}
}

// Events returns every plugin's compressed events in [from, to], keyed by
// plugin kind. Plugins are queried concurrently; any failure fails the call.
func (h *TimelineHandler) Events(w http.ResponseWriter, r *http.Request) {
	tr, err := parseRange(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	plugins := h.plugins.Plugins()
	results := make([][]models.CompressedEvent, len(plugins))

	g, ctx := errgroup.WithContext(r.Context())
	for i, p := range plugins {
		g.Go(func() error {
			events, err := p.CompressedEvents(ctx, tr)
			if err != nil {
				return err
			}
			results[i] = events
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		h.logger.Error().Err(err).Msg("failed to query timeline")
		response.Internal(w, err)
		return
	}

	out := make(map[models.PluginKind][]models.CompressedEvent, len(plugins))
	total := 0
	for i, p := range plugins {
		out[p.Kind()] = results[i]
		total += len(results[i])
	}

	sub, _ := authz.SubjectFromRequest(r)
	h.logger.Debug().Str("subject", sub).Int("events", total).Msg("timeline served")
	response.JSON(w, http.StatusOK, out)
}

func parseRange(r *http.Request) (models.TimeRange, error) {
	q := r.URL.Query()
	from, err := parseTime(q.Get("from"), "from")
	if err != nil {
		return models.TimeRange{}, err
	}
	to, err := parseTime(q.Get("to"), "to")
	if err != nil {
		return models.TimeRange{}, err
	}
	return models.NewTimeRange(from, to)
}

func parseTime(raw, name string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, &paramError{name: name, msg: "is required"}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, &paramError{name: name, msg: "must be an RFC3339 timestamp"}
	}
	return t, nil
}

type paramError struct {
	name string
	msg  string
}

func (e *paramError) Error() string {
	return e.name + " " + e.msg
}
