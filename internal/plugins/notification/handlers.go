package notification

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gorilla/mux"
	"github.com/stanstork/timeline-notify/internal/models"
	"github.com/stanstork/timeline-notify/internal/response"
)

// NewNotification stores one notification. The secret is compared verbatim
// with the configured password; a mismatch writes nothing. Segments must
// decode to valid UTF-8 without NUL so they are stored byte for byte.
func (p *Plugin) NewNotification(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	password, err := url.PathUnescape(vars["password"])
	if err != nil || password != p.password {
		p.logger.Warn().Str("remote_addr", r.RemoteAddr).Msg("rejected notification with bad secret")
		response.Unauthorized(w)
		return
	}

	var n Notification
	for name, dst := range map[string]*string{"app": &n.App, "title": &n.Title, "content": &n.Content} {
		v, err := url.PathUnescape(vars[name])
		if err != nil || !utf8.ValidString(v) || strings.ContainsRune(v, 0) {
			response.BadRequest(w, "invalid "+name+" segment")
			return
		}
		*dst = v
	}

	id, at := p.ids.Next()
	event, err := models.NewEvent(id, models.Instant(at), Kind, n)
	if err == nil {
		err = p.db.RegisterSingleEvent(r.Context(), event)
	}
	if err != nil {
		err = fmt.Errorf("%w: %w", models.ErrStoreWrite, err)
		kind := Kind
		p.reporter.Report(err, &kind, p.reportURL)
		p.logger.Error().Err(err).Str("app", n.App).Msg("failed to store notification")
		response.Internal(w, err)
		return
	}

	p.logger.Debug().Str("event_id", id).Str("app", n.App).Msg("notification stored")
	response.OK(w)
}

// AppIcon serves the most specific icon available for the app id.
func (p *Plugin) AppIcon(w http.ResponseWriter, r *http.Request) {
	app, err := url.PathUnescape(mux.Vars(r)["app"])
	if err != nil {
		app = ""
	}

	f, name, ok := p.icons.Resolve(app)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	defer f.Close()

	modTime := time.Time{}
	if info, err := f.Stat(); err == nil {
		modTime = info.ModTime()
	}
	http.ServeContent(w, r, name, modTime, f)
}
