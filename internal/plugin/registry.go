package plugin

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/stanstork/timeline-notify/internal/models"
)

// MountPrefix is where plugin routes live: MountPrefix + "/" + kind.
const MountPrefix = "/api/plugin"

type Registry struct {
	mu        sync.RWMutex
	factories map[models.PluginKind]Factory
	plugins   map[models.PluginKind]Plugin
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[models.PluginKind]Factory),
		plugins:   make(map[models.PluginKind]Plugin),
	}
}

// Register adds a factory. Registering the same kind twice is an error.
func (r *Registry) Register(kind models.PluginKind, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("plugin %s already registered", kind)
	}
	r.factories[kind] = factory
	return nil
}

// Init runs every registered factory in kind order. The first failure stops
// initialization.
func (r *Registry) Init(ctx context.Context, data Data) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kinds := make([]models.PluginKind, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	for _, kind := range kinds {
		p, err := r.factories[kind](ctx, data)
		if err != nil {
			return fmt.Errorf("init plugin %s: %w: %w", kind, models.ErrInitialization, err)
		}
		if p.Kind() != kind {
			return fmt.Errorf("plugin registered as %s reports kind %s", kind, p.Kind())
		}
		r.plugins[kind] = p
		data.Logger.Info().Str("plugin", string(kind)).Msg("plugin initialized")
	}
	return nil
}

func (r *Registry) Get(kind models.PluginKind) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[kind]
	return p, ok
}

// Plugins returns initialized plugins ordered by kind.
func (r *Registry) Plugins() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Plugin, 0, len(r.plugins))
	for _, p := range r.plugins {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind() < out[j].Kind() })
	return out
}

// Mount registers each plugin's routes under MountPrefix/<kind>.
func (r *Registry) Mount(router *mux.Router) {
	for _, p := range r.Plugins() {
		sub := router.PathPrefix(MountPrefix + "/" + string(p.Kind())).Subrouter()
		for _, route := range p.Routes() {
			sub.HandleFunc(route.Path, route.Handler).Methods(route.Method)
		}
	}
}

// SecretPrefixes returns the mounted path prefixes that are immediately
// followed by a secret segment, one per route flagged SecretSegment.
func (r *Registry) SecretPrefixes() []string {
	var prefixes []string
	for _, p := range r.Plugins() {
		for _, route := range p.Routes() {
			if !route.SecretSegment {
				continue
			}
			static, _, _ := strings.Cut(route.Path, "{")
			prefixes = append(prefixes, MountPrefix+"/"+string(p.Kind())+static)
		}
	}
	return prefixes
}
