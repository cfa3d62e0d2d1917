// Package install materializes a resolved version on disk: the client
// jar, the asset objects and the (possibly native) libraries.
package install

import (
	"net/http"

	"github.com/launchbox/launchbox/internals/downloadmgr"
	"github.com/launchbox/launchbox/internals/sources"
	"github.com/launchbox/launchbox/internals/workspace"
)

// Installer downloads version files into a workspace
type Installer struct {
	Workspace *workspace.Workspace
	Source    sources.Source
	// HTTPClient is used for every download of this installer, single
	// document fetches and batch items alike. downloadmgr's own pooled
	// client is used when it is nil.
	HTTPClient *http.Client
	// MaxConcurrent bounds parallel downloads per batch,
	// downloadmgr.DefaultConcurrent when zero
	MaxConcurrent int
}

// New creates an installer over the given workspace and source
func New(ws *workspace.Workspace, source sources.Source) *Installer {
	return &Installer{Workspace: ws, Source: source}
}

// Result aggregates one batch pass. Failed items are counted, never fatal.
type Result struct {
	Total   int
	Success int
	Failed  int
	// Skipped counts entries with no reachable download location
	Skipped int
}

func (i *Installer) manager() *downloadmgr.Manager {
	mgr := downloadmgr.New()
	mgr.MaxConcurrent = i.MaxConcurrent
	return mgr
}

// item builds a download item bound to this installer's http client
func (i *Installer) item(url string, target string, sha1 string) *downloadmgr.Item {
	return &downloadmgr.Item{Client: i.HTTPClient, URL: url, Target: target, Sha1: sha1}
}
