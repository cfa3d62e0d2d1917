package install

import (
	"context"
	"log"
	"runtime"

	"github.com/launchbox/launchbox/internals/minecraft"
)

// Libraries materializes every applicable library of a descriptor:
// plain jars land in the shared libraries folder, natives are
// downloaded and then unpacked into the per-version natives dir.
// The natives dir is wiped and rebuilt on every pass.
func (i *Installer) Libraries(ctx context.Context, desc *minecraft.VersionDescriptor, versionName string, progress func(pct int)) (*Result, error) {
	osName := minecraft.NormalizeOS(runtime.GOOS)
	arch := minecraft.NormalizeArch(runtime.GOARCH)

	required := desc.Libraries.RequiredFor(osName, arch)

	var plain minecraft.Libraries
	var natives minecraft.Libraries
	for _, lib := range required {
		if lib.Native(osName, arch) {
			natives = append(natives, lib)
		} else {
			plain = append(plain, lib)
		}
	}

	result := &Result{Total: len(required)}

	mgr := i.manager()
	if progress != nil {
		mgr.OnProgress = progress
	}
	for _, lib := range plain {
		url := lib.DownloadURL(i.Source)
		path := lib.Filepath()
		if url == "" || path == "" {
			result.Skipped++
			continue
		}
		mgr.Add(i.item(url, i.Workspace.LibraryPath(path), lib.Downloads.Artifact.Sha1))
	}

	summary := mgr.Start(ctx)
	result.Success += summary.Success
	result.Failed += summary.Failed
	for _, res := range summary.Results {
		if res.Err != nil {
			log.Printf("[WARN] library download failed: %v", res.Err)
		}
	}

	nativeResult, err := i.installNatives(ctx, natives, versionName, osName, arch)
	if err != nil {
		return nil, err
	}
	result.Success += nativeResult.Success
	result.Failed += nativeResult.Failed
	result.Skipped += nativeResult.Skipped

	return result, nil
}
