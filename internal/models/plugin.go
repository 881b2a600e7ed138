package models

// PluginKind tags events and routes with the plugin that owns them so that
// several plugins can share one event store.
type PluginKind string

const (
	PluginNotification PluginKind = "timeline_plugin_notification"
)

func (k PluginKind) String() string {
	return string(k)
}
