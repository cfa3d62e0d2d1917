// Package resolver fetches and caches the minecraft version manifest
// and per-version descriptors.
package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"

	"github.com/launchbox/launchbox/internals/minecraft"
	"github.com/launchbox/launchbox/internals/sources"
	"github.com/launchbox/launchbox/internals/workspace"
)

// cacheTTL is how long the on-disk manifest and descriptor caches are trusted
const cacheTTL = 24 * time.Hour

// descriptorCacheSize bounds the in-memory descriptor cache
const descriptorCacheSize = 32

// ErrUnknownVersion is returned when a version id is not listed in the manifest
type ErrUnknownVersion struct {
	ID string
}

func (e *ErrUnknownVersion) Error() string {
	return fmt.Sprintf("version %q does not exist in the version manifest", e.ID)
}

// ErrManifest is returned when the manifest is unreachable and no
// usable cache exists
type ErrManifest struct {
	Cause error
}

func (e *ErrManifest) Error() string {
	return fmt.Sprintf("version manifest is not available: %v", e.Cause)
}

func (e *ErrManifest) Unwrap() error { return e.Cause }

// manifestEnvelope is the on-disk cache format of the version manifest
type manifestEnvelope struct {
	CacheTime int64                      `json:"cacheTime"`
	Manifest  *minecraft.VersionManifest `json:"manifest"`
}

// Resolver caches the version manifest and per-version descriptors,
// first in memory, then on disk
type Resolver struct {
	Workspace *workspace.Workspace
	Source    sources.Source
	Client    *http.Client

	manifest    *minecraft.VersionManifest
	descriptors *lru.Cache[string, *minecraft.VersionDescriptor]
	now         func() time.Time
}

// New creates a resolver over the given workspace and source
func New(ws *workspace.Workspace, source sources.Source, client *http.Client) *Resolver {
	if client == nil {
		client = http.DefaultClient
	}
	descriptors, _ := lru.New[string, *minecraft.VersionDescriptor](descriptorCacheSize)
	return &Resolver{
		Workspace:   ws,
		Source:      source,
		Client:      client,
		descriptors: descriptors,
		now:         time.Now,
	}
}

// Manifest returns the version manifest. An in-memory copy wins, then
// a disk cache younger than 24 hours, then the network.
func (r *Resolver) Manifest(ctx context.Context, forceRefresh bool) (*minecraft.VersionManifest, error) {
	if r.manifest != nil && !forceRefresh {
		return r.manifest, nil
	}

	if !forceRefresh {
		if cached, ok := r.readManifestCache(); ok {
			r.manifest = cached
			return cached, nil
		}
	}

	manifest, err := r.fetchManifest(ctx)
	if err != nil {
		// a stale cache is still better than nothing
		if envelope, rerr := r.readManifestEnvelope(); rerr == nil {
			r.manifest = envelope.Manifest
			return envelope.Manifest, nil
		}
		return nil, &ErrManifest{Cause: err}
	}

	r.manifest = manifest
	return manifest, nil
}

func (r *Resolver) readManifestEnvelope() (*manifestEnvelope, error) {
	buf, err := os.ReadFile(r.Workspace.ManifestPath())
	if err != nil {
		return nil, err
	}
	envelope := &manifestEnvelope{}
	if err := json.Unmarshal(buf, envelope); err != nil {
		return nil, err
	}
	if envelope.Manifest == nil {
		return nil, errors.New("manifest cache has no manifest")
	}
	return envelope, nil
}

func (r *Resolver) readManifestCache() (*minecraft.VersionManifest, bool) {
	envelope, err := r.readManifestEnvelope()
	if err != nil {
		return nil, false
	}
	age := r.now().Sub(time.Unix(envelope.CacheTime, 0))
	if age < 0 || age > cacheTTL {
		return nil, false
	}
	return envelope.Manifest, true
}

func (r *Resolver) fetchManifest(ctx context.Context) (*minecraft.VersionManifest, error) {
	buf, err := r.get(ctx, r.Source.ManifestURL())
	if err != nil {
		return nil, err
	}

	manifest := &minecraft.VersionManifest{}
	if err := json.Unmarshal(buf, manifest); err != nil {
		return nil, errors.Wrap(err, "parsing version manifest")
	}

	envelope := manifestEnvelope{CacheTime: r.now().Unix(), Manifest: manifest}
	raw, err := json.Marshal(envelope)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(r.Workspace.Root, os.ModePerm); err != nil {
		return nil, err
	}
	if err := os.WriteFile(r.Workspace.ManifestPath(), raw, 0666); err != nil {
		return nil, err
	}

	return manifest, nil
}

// Descriptor returns the pristine descriptor for a version id, using
// the same two-level cache discipline as Manifest: an in-memory copy
// wins, then a disk cache younger than 24 hours, then the network.
func (r *Resolver) Descriptor(ctx context.Context, id string, forceRefresh bool) (*minecraft.VersionDescriptor, error) {
	if !forceRefresh {
		if desc, ok := r.descriptors.Get(id); ok {
			return desc, nil
		}
		if desc, ok := r.readDescriptorCache(id); ok {
			r.descriptors.Add(id, desc)
			return desc, nil
		}
	}

	manifest, err := r.Manifest(ctx, false)
	if err != nil {
		return nil, err
	}
	stub, ok := manifest.Get(id)
	if !ok {
		return nil, &ErrUnknownVersion{ID: id}
	}

	buf, err := r.get(ctx, r.Source.Rewrite(stub.URL))
	if err != nil {
		return nil, errors.Wrapf(err, "fetching descriptor of %s", id)
	}

	desc := &minecraft.VersionDescriptor{}
	if err := json.Unmarshal(buf, desc); err != nil {
		return nil, errors.Wrapf(err, "parsing descriptor of %s", id)
	}

	if err := r.Workspace.WriteDescriptorCache(id, buf, r.now()); err != nil {
		return nil, err
	}

	r.descriptors.Add(id, desc)
	return desc, nil
}

func (r *Resolver) readDescriptorCache(id string) (*minecraft.VersionDescriptor, bool) {
	raw, fetchedAt, err := r.Workspace.ReadDescriptorCache(id)
	if err != nil {
		return nil, false
	}
	age := r.now().Sub(fetchedAt)
	if age < 0 || age > cacheTTL {
		return nil, false
	}
	desc := &minecraft.VersionDescriptor{}
	if err := json.Unmarshal(raw, desc); err != nil {
		return nil, false
	}
	return desc, true
}

// Latest returns the stubs of the latest release and snapshot
func (r *Resolver) Latest(ctx context.Context) (release *minecraft.VersionStub, snapshot *minecraft.VersionStub, err error) {
	manifest, err := r.Manifest(ctx, false)
	if err != nil {
		return nil, nil, err
	}
	release, _ = manifest.LatestRelease()
	snapshot, _ = manifest.LatestSnapshot()
	return release, snapshot, nil
}

// DownloadURLs are the source-routed jar locations of one version
type DownloadURLs struct {
	Client string
	Server string
}

// DownloadURLs returns the client (and server, when published) jar
// urls of a version, already routed through the source
func (r *Resolver) DownloadURLs(ctx context.Context, id string) (*DownloadURLs, error) {
	desc, err := r.Descriptor(ctx, id, false)
	if err != nil {
		return nil, err
	}
	urls := &DownloadURLs{
		Client: r.Source.Rewrite(desc.Downloads.Client.URL),
	}
	if desc.Downloads.Server.URL != "" {
		urls.Server = r.Source.Rewrite(desc.Downloads.Server.URL)
	}
	return urls, nil
}

func (r *Resolver) get(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := r.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("invalid status code %d from %s", res.StatusCode, url)
	}
	return io.ReadAll(res.Body)
}
