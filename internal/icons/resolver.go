// Package icons resolves an app id to an icon file through an ordered chain
// of directories, ending at a shared default icon.
package icons

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

type Config struct {
	// InstallDir holds operator supplied icons named by the raw app id.
	InstallDir string
	// BundledDir holds the icons shipped with the plugin, named by the
	// lowercased app id.
	BundledDir string
	// Extension is tried after the bare lowercased id in BundledDir.
	Extension string
	// DefaultIcon is a file in BundledDir served when nothing else matches.
	DefaultIcon string
}

// Resolver is stateless; concurrent callers run independent chains.
type Resolver struct {
	fs  afero.Fs
	cfg Config
}

func NewResolver(fs afero.Fs, cfg Config) *Resolver {
	return &Resolver{fs: fs, cfg: cfg}
}

// Candidates lists the paths tried for app, most specific first.
func (r *Resolver) Candidates(app string) []string {
	var paths []string
	if safeName(app) {
		if r.cfg.InstallDir != "" {
			paths = append(paths, filepath.Join(r.cfg.InstallDir, app))
		}
		if r.cfg.BundledDir != "" {
			lower := strings.ToLower(app)
			paths = append(paths, filepath.Join(r.cfg.BundledDir, lower))
			if r.cfg.Extension != "" && !strings.HasSuffix(lower, r.cfg.Extension) {
				paths = append(paths, filepath.Join(r.cfg.BundledDir, lower+r.cfg.Extension))
			}
		}
	}
	if r.cfg.BundledDir != "" && r.cfg.DefaultIcon != "" {
		paths = append(paths, filepath.Join(r.cfg.BundledDir, r.cfg.DefaultIcon))
	}
	return paths
}

// Resolve opens the first existing candidate for app. The caller closes the
// returned file. ok is false when no tier resolves.
func (r *Resolver) Resolve(app string) (file afero.File, name string, ok bool) {
	for _, p := range r.Candidates(app) {
		if f, found := r.Open(p); found {
			return f, p, true
		}
	}
	return nil, "", false
}

// Open opens p when it is an existing regular file. Any failure is a miss.
func (r *Resolver) Open(p string) (afero.File, bool) {
	info, err := r.fs.Stat(p)
	if err != nil || !info.Mode().IsRegular() {
		return nil, false
	}
	f, err := r.fs.Open(p)
	if err != nil {
		return nil, false
	}
	return f, true
}

// safeName rejects ids that would escape the icon directories.
func safeName(app string) bool {
	if app == "" || app == "." || app == ".." {
		return false
	}
	if strings.ContainsAny(app, `/\`) || strings.ContainsRune(app, 0) {
		return false
	}
	return path.Base(app) == app
}
