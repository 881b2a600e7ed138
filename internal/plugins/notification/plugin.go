// Package notification is the timeline plugin that ingests app
// notifications pushed over HTTP and shows them on the timeline.
package notification

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stanstork/timeline-notify/internal/appnames"
	"github.com/stanstork/timeline-notify/internal/config"
	"github.com/stanstork/timeline-notify/internal/errorreport"
	"github.com/stanstork/timeline-notify/internal/icons"
	"github.com/stanstork/timeline-notify/internal/idgen"
	"github.com/stanstork/timeline-notify/internal/models"
	"github.com/stanstork/timeline-notify/internal/plugin"
	"github.com/stanstork/timeline-notify/internal/repository"
)

const Kind = models.PluginNotification

// Notification is the stored event payload.
type Notification struct {
	App     string `json:"app"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Card is the payload attached to compressed events. App carries the
// display name; AppID keeps the raw identifier the icon is looked up by.
type Card struct {
	Notification
	AppID   string `json:"app_id"`
	IconURL string `json:"icon_url"`
}

type Plugin struct {
	password  string
	reportURL string
	db        repository.EventRepository
	reporter  errorreport.Reporter
	apps      *appnames.Index
	icons     icons.Lookup
	ids       *idgen.Millis
	logger    zerolog.Logger
}

// New is the plugin.Factory for the notification plugin. A missing plugin
// config section or an unreadable apps file fails initialization.
func New(_ context.Context, data plugin.Data) (plugin.Plugin, error) {
	cfg := data.Config.Plugins.Notification
	if cfg == nil {
		return nil, fmt.Errorf("no config was provided for %s", Kind)
	}

	apps, err := appnames.Load(data.Fs, cfg.AppsFile)
	if err != nil {
		return nil, errors.Wrap(err, "init app names lookup table")
	}

	resolver := icons.NewResolver(data.Fs, iconConfig(cfg))

	logger := data.Logger.With().Str("plugin", string(Kind)).Logger()
	logger.Info().Int("apps", apps.Len()).Str("apps_file", cfg.AppsFile).Msg("app names loaded")

	return &Plugin{
		password:  data.Config.Password,
		reportURL: data.Config.ErrorReportURL,
		db:        data.Database,
		reporter:  data.Reporter,
		apps:      apps,
		icons:     icons.NewCachedResolver(resolver, cfg.IconCacheSize, cfg.IconCacheTTL),
		ids:       idgen.NewMillis(),
		logger:    logger,
	}, nil
}

func iconConfig(cfg *config.NotificationPluginConfig) icons.Config {
	return icons.Config{
		InstallDir:  cfg.AppIconFiles,
		BundledDir:  cfg.BundledIconDir,
		Extension:   cfg.IconExtension,
		DefaultIcon: cfg.DefaultIcon,
	}
}

func (p *Plugin) Kind() models.PluginKind {
	return Kind
}

func (p *Plugin) Routes() []plugin.RouteSpec {
	return []plugin.RouteSpec{
		{Method: http.MethodGet, Path: "/notification/{password:[^/]*}/{app:[^/]*}/{title:[^/]*}/{content:[^/]*}", Handler: p.NewNotification, SecretSegment: true},
		{Method: http.MethodGet, Path: "/icon/{app:[^/]*}", Handler: p.AppIcon},
	}
}

// CompressedEvents streams this plugin's events in r from the store and
// labels each with the app's display name. Store order is kept. A single
// undecodable event fails the whole query.
func (p *Plugin) CompressedEvents(ctx context.Context, r models.TimeRange) ([]models.CompressedEvent, error) {
	filter := repository.And(repository.RangeFilter(r), repository.PluginFilter(Kind))

	cursor, err := p.db.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrStoreRead, err)
	}
	defer cursor.Close()

	result := make([]models.CompressedEvent, 0)
	for cursor.Next() {
		var event models.Event
		if err := cursor.Scan(&event); err != nil {
			return nil, fmt.Errorf("%w: %w", models.ErrStoreRead, err)
		}
		var n Notification
		if err := event.Decode(&n); err != nil {
			return nil, fmt.Errorf("%w: %w", models.ErrStoreRead, err)
		}

		card := p.card(n)
		result = append(result, models.CompressedEvent{
			Title: card.App,
			Time:  event.Timing,
			Data:  card,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrStoreRead, err)
	}
	return result, nil
}

func (p *Plugin) card(n Notification) Card {
	appID := n.App
	n.App = p.apps.NameOr(appID)
	return Card{
		Notification: n,
		AppID:        appID,
		IconURL:      IconPath(appID),
	}
}

// IconPath is the URL path the icon for appID is served from.
func IconPath(appID string) string {
	return plugin.MountPrefix + "/" + string(Kind) + "/icon/" + url.PathEscape(appID)
}
