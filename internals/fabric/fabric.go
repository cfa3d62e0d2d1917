// Package fabric installs the fabric mod loader on top of an
// installed minecraft version by merging its published launch profile.
package fabric

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/sjson"

	"github.com/launchbox/launchbox/internals/install"
	"github.com/launchbox/launchbox/internals/minecraft"
	"github.com/launchbox/launchbox/internals/sources"
	"github.com/launchbox/launchbox/internals/workspace"
)

// DefaultMetaBase is the public fabric meta api. It has no mirror.
const DefaultMetaBase = "https://meta.fabricmc.net/v2"

// ErrTargetMissing is returned when the install target version does
// not exist in the workspace
type ErrTargetMissing struct {
	VersionName string
}

func (e *ErrTargetMissing) Error() string {
	return fmt.Sprintf("version %q is not installed, download it before adding a mod loader", e.VersionName)
}

// Installer layers fabric profiles onto installed versions
type Installer struct {
	Workspace *workspace.Workspace
	Source    sources.Source
	Client    *http.Client
	// MetaBase overrides the fabric meta endpoint, DefaultMetaBase
	// when empty
	MetaBase      string
	MaxConcurrent int
}

// New creates a fabric installer over the given workspace
func New(ws *workspace.Workspace, source sources.Source) *Installer {
	return &Installer{Workspace: ws, Source: source}
}

// InstallResult reports a finished fabric install
type InstallResult struct {
	TargetName     string
	LoaderVersion  string
	DescriptorPath string
	Libraries      *install.Result
}

// Install fetches the fabric launch profile for mcVersion/loaderVersion,
// merges it into the target's descriptor and materializes the fabric
// libraries. The target version must already be installed. An empty
// loaderVersion selects the latest stable loader.
func (f *Installer) Install(ctx context.Context, mcVersion string, loaderVersion string, targetName string) (*InstallResult, error) {
	if targetName == "" {
		targetName = mcVersion
	}
	if !f.Workspace.HasVersion(targetName) {
		return nil, &ErrTargetMissing{VersionName: targetName}
	}

	if loaderVersion == "" {
		latest, err := f.latestStableLoader(ctx, mcVersion)
		if err != nil {
			return nil, err
		}
		loaderVersion = latest
	}

	overlay, err := f.fetchProfile(ctx, mcVersion, loaderVersion)
	if err != nil {
		return nil, err
	}

	base, err := f.Workspace.ReadDescriptor(targetName)
	if err != nil {
		return nil, err
	}
	// reinstalling over a previous overlay starts from the pristine
	// descriptor again, so libraries don't pile up
	if base.FabricVersion != "" || base.ForgeVersion != "" {
		if pristine, perr := f.readPristine(mcVersion); perr == nil {
			base = pristine
		}
	}

	merged := minecraft.Merge(base, overlay)

	raw, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return nil, err
	}
	raw, err = sjson.SetBytes(raw, "fabricVersion", loaderVersion)
	if err != nil {
		return nil, err
	}
	if err := f.Workspace.WriteDescriptorRaw(targetName, raw); err != nil {
		return nil, err
	}

	libResult, err := f.materializeLibraries(ctx, overlay, targetName)
	if err != nil {
		return nil, err
	}

	return &InstallResult{
		TargetName:     targetName,
		LoaderVersion:  loaderVersion,
		DescriptorPath: f.Workspace.DescriptorPath(targetName),
		Libraries:      libResult,
	}, nil
}

// materializeLibraries downloads the loader's own libraries. The
// vanilla ones are already on disk from the base install.
func (f *Installer) materializeLibraries(ctx context.Context, overlay *minecraft.VersionDescriptor, targetName string) (*install.Result, error) {
	fabricOnly := &minecraft.VersionDescriptor{ID: overlay.ID}
	for _, lib := range overlay.Libraries {
		if strings.Contains(lib.Name, "fabricmc") || strings.Contains(lib.Name, "fabric") {
			fabricOnly.Libraries = append(fabricOnly.Libraries, lib)
		}
	}

	installer := install.New(f.Workspace, f.Source)
	installer.HTTPClient = f.Client
	installer.MaxConcurrent = f.MaxConcurrent
	return installer.Libraries(ctx, fabricOnly, targetName, nil)
}

// readPristine loads the cached un-merged descriptor. Its age does not
// matter here, it only serves as the rebase point for a reinstall.
func (f *Installer) readPristine(mcVersion string) (*minecraft.VersionDescriptor, error) {
	raw, _, err := f.Workspace.ReadDescriptorCache(mcVersion)
	if err != nil {
		return nil, err
	}
	desc := &minecraft.VersionDescriptor{}
	if err := json.Unmarshal(raw, desc); err != nil {
		return nil, err
	}
	return desc, nil
}

// fetchProfile loads the ready-made launch profile from the meta api
func (f *Installer) fetchProfile(ctx context.Context, mcVersion string, loaderVersion string) (*minecraft.VersionDescriptor, error) {
	profileURL := fmt.Sprintf(
		"%s/versions/loader/%s/%s/profile/json",
		f.metaBase(),
		url.PathEscape(mcVersion),
		url.PathEscape(loaderVersion),
	)

	buf, err := f.get(ctx, profileURL)
	if err != nil {
		return nil, errors.Wrap(err, "fetching fabric profile")
	}

	profile := &minecraft.VersionDescriptor{}
	if err := json.Unmarshal(buf, profile); err != nil {
		return nil, errors.Wrap(err, "parsing fabric profile")
	}
	return profile, nil
}

func (f *Installer) metaBase() string {
	if f.MetaBase != "" {
		return f.MetaBase
	}
	return DefaultMetaBase
}

func (f *Installer) get(ctx context.Context, rawurl string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return nil, err
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("invalid status code %d from %s", res.StatusCode, rawurl)
	}
	return io.ReadAll(res.Body)
}
