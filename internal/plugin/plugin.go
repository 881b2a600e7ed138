// Package plugin defines the capability every timeline plugin implements and
// the registry the host uses to initialize, mount and query them.
package plugin

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stanstork/timeline-notify/internal/config"
	"github.com/stanstork/timeline-notify/internal/errorreport"
	"github.com/stanstork/timeline-notify/internal/models"
	"github.com/stanstork/timeline-notify/internal/repository"
)

// RouteSpec is one HTTP route, relative to the plugin's mount path.
type RouteSpec struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
	// SecretSegment marks the first path variable as a credential that must
	// not show up in access logs.
	SecretSegment bool
}

type Plugin interface {
	Kind() models.PluginKind
	Routes() []RouteSpec
	// CompressedEvents returns this plugin's events in r, ready for display.
	CompressedEvents(ctx context.Context, r models.TimeRange) ([]models.CompressedEvent, error)
}

// Data is everything the host hands to a plugin at initialization.
type Data struct {
	Config   *config.Config
	Database repository.EventRepository
	Reporter errorreport.Reporter
	Fs       afero.Fs
	Logger   zerolog.Logger
}

// Factory builds a plugin. An error aborts host startup.
type Factory func(ctx context.Context, data Data) (Plugin, error)
