package install

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mholt/archiver/v3"

	"github.com/launchbox/launchbox/internals/minecraft"
)

// ErrExtraction is returned when a native jar could not be unpacked
type ErrExtraction struct {
	Archive string
	Cause   error
}

func (e *ErrExtraction) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.Archive, e.Cause)
}

func (e *ErrExtraction) Unwrap() error { return e.Cause }

// installNatives downloads every native classifier jar and unpacks
// its contents, directory structure included, into
// versions/<name>/<name>-natives. The directory is
// destroyed and recreated first so no stale binaries survive.
func (i *Installer) installNatives(ctx context.Context, natives minecraft.Libraries, versionName string, osName string, arch string) (*Result, error) {
	nativesDir, err := i.Workspace.ResetNativesDir(versionName)
	if err != nil {
		return nil, err
	}

	result := &Result{Total: len(natives)}
	for _, lib := range natives {
		artifact, ok := lib.NativeArtifact(osName, arch)
		if !ok || artifact.Empty() {
			result.Skipped++
			continue
		}

		path := artifact.Path
		if path == "" {
			path = lib.Filepath()
		}
		target := i.Workspace.LibraryPath(filepath.FromSlash(path))

		item := i.item(i.Source.Rewrite(artifact.URL), target, artifact.Sha1)
		if item.URL == "" {
			item.URL = lib.DownloadURL(i.Source)
		}
		if err := item.Download(ctx); err != nil {
			log.Printf("[WARN] native download failed: %v", err)
			result.Failed++
			continue
		}

		var exclude []string
		if lib.Extract != nil {
			exclude = lib.Extract.Exclude
		}
		if err := extractNative(target, nativesDir, exclude); err != nil {
			log.Printf("[WARN] %v", &ErrExtraction{Archive: target, Cause: err})
			result.Failed++
			continue
		}
		result.Success++
	}

	// signing metadata has no business next to shared objects
	if err := os.RemoveAll(filepath.Join(nativesDir, "META-INF")); err != nil {
		return nil, err
	}

	return result, nil
}

// extractNative unpacks a native jar into dest, skipping excluded entries
func extractNative(jarPath string, dest string, exclude []string) error {
	z := archiver.Zip{}
	return z.Walk(jarPath, func(f archiver.File) error {
		header, ok := f.Header.(zip.FileHeader)
		if !ok {
			return nil
		}
		name := filepath.ToSlash(header.Name)
		if excluded(name, exclude) {
			return nil
		}
		if f.IsDir() {
			return os.MkdirAll(filepath.Join(dest, filepath.FromSlash(name)), os.ModePerm)
		}

		target := filepath.Join(dest, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
			return err
		}
		out, err := os.Create(target)
		if err != nil {
			return err
		}
		defer out.Close()
		_, err = io.Copy(out, f)
		return err
	})
}

// excluded matches an archive entry against the extract exclusion
// list. Entries are path prefixes ("META-INF/") but glob patterns work
// too.
func excluded(name string, exclude []string) bool {
	for _, pattern := range exclude {
		if strings.HasPrefix(name, pattern) {
			return true
		}
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
