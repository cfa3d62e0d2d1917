// Package workspace owns the on-disk data directory layout shared by
// the resolver, the install pipelines and the launcher.
package workspace

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/launchbox/launchbox/internals/minecraft"
	"github.com/pkg/errors"
)

// Workspace is the root data directory. One workspace must only be
// used by a single operation at a time.
type Workspace struct {
	Root string
}

// New returns a workspace rooted at the given directory
func New(root string) *Workspace {
	return &Workspace{Root: root}
}

// Default returns the workspace under the user's home directory
func Default() (*Workspace, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return New(filepath.Join(home, ".launchbox")), nil
}

// ManifestPath is the cached version manifest (with its timestamp envelope)
func (w *Workspace) ManifestPath() string {
	return filepath.Join(w.Root, "version_manifest.json")
}

// DescriptorCachePath is the pristine per-version descriptor cache,
// untouched by mod loader overlays
func (w *Workspace) DescriptorCachePath(id string) string {
	return filepath.Join(w.Root, "versions_info_cache", id+".json")
}

// VersionDir returns versions/<name>
func (w *Workspace) VersionDir(name string) string {
	return filepath.Join(w.Root, "versions", name)
}

// DescriptorPath returns versions/<name>/<name>.json, the effective
// (possibly merged) descriptor
func (w *Workspace) DescriptorPath(name string) string {
	return filepath.Join(w.VersionDir(name), name+".json")
}

// JarPath returns versions/<name>/<name>.jar
func (w *Workspace) JarPath(name string) string {
	return filepath.Join(w.VersionDir(name), name+".jar")
}

// NativesDir returns versions/<name>/<name>-natives
func (w *Workspace) NativesDir(name string) string {
	return filepath.Join(w.VersionDir(name), name+"-natives")
}

// LibrariesDir returns the shared libraries folder
func (w *Workspace) LibrariesDir() string {
	return filepath.Join(w.Root, "libraries")
}

// LibraryPath resolves a library-relative path inside LibrariesDir
func (w *Workspace) LibraryPath(rel string) string {
	return filepath.Join(w.LibrariesDir(), rel)
}

// AssetsDir returns the shared assets folder
func (w *Workspace) AssetsDir() string {
	return filepath.Join(w.Root, "assets")
}

// AssetIndexPath returns assets/indexes/<id>.json
func (w *Workspace) AssetIndexPath(id string) string {
	return filepath.Join(w.AssetsDir(), "indexes", id+".json")
}

// AssetObjectPath returns the content-addressed path of one asset
func (w *Workspace) AssetObjectPath(hash string) string {
	return filepath.Join(w.AssetsDir(), "objects", hash[:2], hash)
}

// ForgeDownloadsDir holds downloaded forge installer jars
func (w *Workspace) ForgeDownloadsDir() string {
	return filepath.Join(w.Root, "downloads", "forge")
}

// FabricDownloadsDir holds downloaded fabric artifacts
func (w *Workspace) FabricDownloadsDir() string {
	return filepath.Join(w.Root, "downloads", "fabric")
}

// descriptorCacheFile is the on-disk format of the pristine descriptor
// cache: like the manifest cache, the document travels inside a
// timestamp envelope
type descriptorCacheFile struct {
	CacheTime  int64           `json:"cacheTime"`
	Descriptor json.RawMessage `json:"descriptor"`
}

// WriteDescriptorCache stores pristine descriptor bytes together with
// their acquisition time
func (w *Workspace) WriteDescriptorCache(id string, raw []byte, fetchedAt time.Time) error {
	if !json.Valid(raw) {
		return errors.Errorf("descriptor of %s is not valid json", id)
	}
	// the envelope is assembled by hand: json.Marshal would compact the
	// raw descriptor instead of keeping its bytes
	envelope := []byte(`{"cacheTime":` + strconv.FormatInt(fetchedAt.Unix(), 10) + `,"descriptor":`)
	envelope = append(envelope, raw...)
	envelope = append(envelope, '}')

	path := w.DescriptorCachePath(id)
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(path, envelope, 0666)
}

// ReadDescriptorCache returns the pristine descriptor bytes of a
// version and when they were fetched
func (w *Workspace) ReadDescriptorCache(id string) ([]byte, time.Time, error) {
	buf, err := os.ReadFile(w.DescriptorCachePath(id))
	if err != nil {
		return nil, time.Time{}, err
	}
	envelope := &descriptorCacheFile{}
	if err := json.Unmarshal(buf, envelope); err != nil {
		return nil, time.Time{}, errors.Wrapf(err, "parsing descriptor cache of %s", id)
	}
	if len(envelope.Descriptor) == 0 {
		return nil, time.Time{}, errors.Errorf("descriptor cache of %s is empty", id)
	}
	return envelope.Descriptor, time.Unix(envelope.CacheTime, 0), nil
}

// HasVersion reports whether a version directory with a descriptor exists
func (w *Workspace) HasVersion(name string) bool {
	_, err := os.Stat(w.DescriptorPath(name))
	return err == nil
}

// ReadDescriptor loads the effective descriptor of an installed version
func (w *Workspace) ReadDescriptor(name string) (*minecraft.VersionDescriptor, error) {
	buf, err := os.ReadFile(w.DescriptorPath(name))
	if err != nil {
		return nil, err
	}
	desc := &minecraft.VersionDescriptor{}
	if err := json.Unmarshal(buf, desc); err != nil {
		return nil, errors.Wrapf(err, "parsing descriptor of %s", name)
	}
	return desc, nil
}

// WriteDescriptor persists a descriptor atomically (temp write + rename)
func (w *Workspace) WriteDescriptor(name string, desc *minecraft.VersionDescriptor) error {
	raw, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return err
	}
	return w.WriteDescriptorRaw(name, raw)
}

// WriteDescriptorRaw persists raw descriptor bytes atomically
func (w *Workspace) WriteDescriptorRaw(name string, raw []byte) error {
	dir := w.VersionDir(name)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, name+".json.tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), w.DescriptorPath(name))
}

// ResetNativesDir destroys and recreates the natives directory of a
// version, so no stale binaries survive a library pass
func (w *Workspace) ResetNativesDir(name string) (string, error) {
	dir := w.NativesDir(name)
	if err := os.RemoveAll(dir); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", err
	}
	return dir, nil
}
