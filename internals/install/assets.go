package install

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/launchbox/launchbox/internals/minecraft"
)

// indexShare is the progress share of the asset index fetch; object
// downloads fill the rest
const indexShare = 2

// Assets resolves the asset index of a version and fans out all
// missing content-addressed objects. Individual object failures are
// counted but never abort the batch.
func (i *Installer) Assets(ctx context.Context, desc *minecraft.VersionDescriptor, progress func(pct int)) (*Result, error) {
	index, err := i.assetIndex(ctx, desc)
	if err != nil {
		return nil, err
	}
	if progress != nil {
		progress(indexShare)
	}

	mgr := i.manager()
	result := &Result{Total: len(index.Objects)}

	for _, object := range index.Objects {
		target := i.Workspace.AssetObjectPath(object.Hash)
		// the file name is the sha1, presence implies correctness
		if _, err := os.Stat(target); err == nil {
			result.Success++
			continue
		}
		mgr.Add(i.item(object.DownloadURL(i.Source), target, ""))
	}

	preExisting := result.Success
	if progress != nil && mgr.Len() > 0 {
		mgr.OnProgress = func(pct int) {
			progress(indexShare + pct*(100-indexShare)/100)
		}
	}

	summary := mgr.Start(ctx)
	result.Success += summary.Success
	result.Failed = summary.Failed

	if progress != nil && preExisting == result.Total {
		progress(100)
	}
	return result, nil
}

// assetIndex fetches (or reuses) assets/indexes/<id>.json, verified by
// the descriptor's recorded sha1
func (i *Installer) assetIndex(ctx context.Context, desc *minecraft.VersionDescriptor) (*minecraft.AssetIndex, error) {
	ref := desc.AssetIndex
	if ref.URL == "" {
		return nil, errors.Errorf("descriptor %s has no asset index", desc.ID)
	}

	target := i.Workspace.AssetIndexPath(ref.ID)
	item := i.item(i.Source.Rewrite(ref.URL), target, ref.Sha1)
	if err := item.Download(ctx); err != nil {
		return nil, errors.Wrap(err, "fetching asset index")
	}

	buf, err := os.ReadFile(target)
	if err != nil {
		return nil, err
	}
	index := &minecraft.AssetIndex{}
	if err := json.Unmarshal(buf, index); err != nil {
		return nil, errors.Wrap(err, "parsing asset index")
	}
	return index, nil
}
