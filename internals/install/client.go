package install

import (
	"context"

	"github.com/launchbox/launchbox/internals/downloadmgr"
	"github.com/launchbox/launchbox/internals/minecraft"
)

// ErrNoClientDownload is returned for descriptors without a client jar
type ErrNoClientDownload struct {
	ID string
}

func (e *ErrNoClientDownload) Error() string {
	return "descriptor " + e.ID + " has no client download"
}

// Client downloads the main client jar of a version into
// versions/<name>/<name>.jar, verified against the descriptor's sha1.
// A verified jar already on disk costs no network traffic.
func (i *Installer) Client(ctx context.Context, desc *minecraft.VersionDescriptor, versionName string, progress downloadmgr.ProgressFunc) error {
	dl := desc.Downloads.Client
	if dl.URL == "" {
		return &ErrNoClientDownload{ID: desc.ID}
	}

	item := i.item(i.Source.Rewrite(dl.URL), i.Workspace.JarPath(versionName), dl.Sha1)
	item.Progress = progress
	return item.Download(ctx)
}

// Server downloads the server jar next to the client one, when the
// version publishes it
func (i *Installer) Server(ctx context.Context, desc *minecraft.VersionDescriptor, versionName string, progress downloadmgr.ProgressFunc) error {
	dl := desc.Downloads.Server
	if dl.URL == "" {
		return &ErrNoClientDownload{ID: desc.ID}
	}

	item := i.item(i.Source.Rewrite(dl.URL), i.Workspace.JarPath(versionName+"-server"), dl.Sha1)
	item.Progress = progress
	return item.Download(ctx)
}
