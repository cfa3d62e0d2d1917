// Package forge installs the forge mod loader by running the upstream
// installer jar and merging the version json it emits.
package forge

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/launchbox/launchbox/internals/downloadmgr"
	"github.com/launchbox/launchbox/internals/install"
	"github.com/launchbox/launchbox/internals/minecraft"
	"github.com/launchbox/launchbox/internals/sources"
	"github.com/launchbox/launchbox/internals/workspace"
)

// ErrTargetMissing is returned when the install target version does
// not exist in the workspace
type ErrTargetMissing struct {
	VersionName string
}

func (e *ErrTargetMissing) Error() string {
	return fmt.Sprintf("version %q is not installed, download it before adding a mod loader", e.VersionName)
}

// ErrInstallerFailed is returned when the forge installer exits non-zero
type ErrInstallerFailed struct {
	Code   int
	Output string
}

func (e *ErrInstallerFailed) Error() string {
	return fmt.Sprintf("forge installer exited with code %d", e.Code)
}

// Installer runs the forge installer and merges its output
type Installer struct {
	Workspace *workspace.Workspace
	Source    sources.Source
	// JavaPath is the java binary the installer runs with. The
	// installer is a jar, there is no way around an external runtime.
	JavaPath string
	Client   *http.Client
	// OnProgress receives coarse stage hints scraped from the
	// installer output ("Installing", "Extracting", "Downloading")
	OnProgress    func(stage string)
	MaxConcurrent int
}

// New creates a forge installer over the given workspace
func New(ws *workspace.Workspace, source sources.Source, javaPath string) *Installer {
	return &Installer{Workspace: ws, Source: source, JavaPath: javaPath}
}

// InstallResult reports a finished forge install
type InstallResult struct {
	TargetName     string
	ForgeVersion   string
	DescriptorPath string
	JarPath        string
}

// progressHints are the substrings of installer output worth surfacing
var progressHints = []string{"Installing", "Extracting", "Downloading"}

// Install downloads the forge installer for mcVersion/forgeVersion,
// runs it against a scratch dir, merges the emitted version json into
// the target descriptor and materializes the merged library set. The
// target version must already be installed.
func (f *Installer) Install(ctx context.Context, mcVersion string, forgeVersion string, targetName string) (*InstallResult, error) {
	if targetName == "" {
		targetName = mcVersion
	}
	if !f.Workspace.HasVersion(targetName) {
		return nil, &ErrTargetMissing{VersionName: targetName}
	}
	if f.JavaPath == "" {
		return nil, errors.New("forge needs a java runtime, none was configured")
	}
	if _, err := exec.LookPath(f.JavaPath); err != nil {
		return nil, errors.Wrapf(err, "java binary %q not found", f.JavaPath)
	}

	installerJar, err := f.downloadInstaller(ctx, mcVersion, forgeVersion)
	if err != nil {
		return nil, err
	}

	tmpDir, err := os.MkdirTemp("", "launchbox-forge-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	if err := f.runInstaller(ctx, installerJar, tmpDir); err != nil {
		return nil, err
	}

	profilePath, err := locateProfile(tmpDir)
	if err != nil {
		return nil, err
	}

	result, err := f.applyProfile(profilePath, mcVersion, forgeVersion, targetName)
	if err != nil {
		return nil, err
	}

	merged, err := f.Workspace.ReadDescriptor(targetName)
	if err != nil {
		return nil, err
	}
	installer := install.New(f.Workspace, f.Source)
	installer.HTTPClient = f.Client
	installer.MaxConcurrent = f.MaxConcurrent
	if _, err := installer.Libraries(ctx, merged, targetName, nil); err != nil {
		return nil, err
	}

	return result, nil
}

// downloadInstaller fetches the installer jar into downloads/forge/
func (f *Installer) downloadInstaller(ctx context.Context, mcVersion string, forgeVersion string) (string, error) {
	name := fmt.Sprintf("forge-%s-%s-installer.jar", mcVersion, forgeVersion)
	target := filepath.Join(f.Workspace.ForgeDownloadsDir(), name)

	item := &downloadmgr.Item{
		Client: f.Client,
		URL:    f.Source.Rewrite(installerURL(mcVersion, forgeVersion)),
		Target: target,
	}
	if err := item.Download(ctx); err != nil {
		return "", errors.Wrap(err, "downloading forge installer")
	}
	return target, nil
}

// installerURL is the canonical forge maven location of an installer jar
func installerURL(mcVersion string, forgeVersion string) string {
	full := mcVersion + "-" + forgeVersion
	return fmt.Sprintf(
		"https://maven.minecraftforge.net/net/minecraftforge/forge/%s/forge-%s-installer.jar",
		full, full,
	)
}

// runInstaller spawns `java -jar installer --installClient <dir>` and
// waits for it, surfacing coarse progress and capturing all output
func (f *Installer) runInstaller(ctx context.Context, installerJar string, tmpDir string) error {
	cmd := exec.CommandContext(ctx, f.JavaPath, "-jar", installerJar, "--installClient", tmpDir)
	cmd.Dir = tmpDir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "starting forge installer")
	}

	var captured strings.Builder
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := scanner.Text()
		captured.WriteString(line)
		captured.WriteByte('\n')

		if f.OnProgress == nil {
			continue
		}
		for _, hint := range progressHints {
			if strings.Contains(line, hint) {
				f.OnProgress(hint)
				break
			}
		}
	}
	// drain whatever the scanner did not take
	io.Copy(io.Discard, stdout)

	if err := cmd.Wait(); err != nil {
		code := -1
		if cmd.ProcessState != nil {
			code = cmd.ProcessState.ExitCode()
		}
		return &ErrInstallerFailed{Code: code, Output: captured.String()}
	}
	return nil
}

// locateProfile finds the version json the installer emitted into the
// scratch dir, preferring one that identifies as forge
func locateProfile(tmpDir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(tmpDir, "versions", "*", "*.json"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", errors.Errorf("forge installer emitted no version json under %s", tmpDir)
	}

	for _, match := range matches {
		buf, err := os.ReadFile(match)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(gjson.GetBytes(buf, "id").String()), "forge") {
			return match, nil
		}
	}
	return matches[0], nil
}

// applyProfile merges the emitted version json into the target
// descriptor and copies the emitted jar over the target's jar when the
// installer produced one
func (f *Installer) applyProfile(profilePath string, mcVersion string, forgeVersion string, targetName string) (*InstallResult, error) {
	buf, err := os.ReadFile(profilePath)
	if err != nil {
		return nil, err
	}
	overlay := &minecraft.VersionDescriptor{}
	if err := json.Unmarshal(buf, overlay); err != nil {
		return nil, errors.Wrap(err, "parsing forge version json")
	}

	base, err := f.Workspace.ReadDescriptor(targetName)
	if err != nil {
		return nil, err
	}
	// reinstalling over a previous overlay starts from the pristine
	// descriptor again, so libraries don't pile up
	if base.ForgeVersion != "" || base.FabricVersion != "" {
		if pristine, perr := f.readPristine(mcVersion); perr == nil {
			base = pristine
		}
	}

	merged := minecraft.Merge(base, overlay)

	raw, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return nil, err
	}
	raw, err = sjson.SetBytes(raw, "forgeVersion", forgeVersion)
	if err != nil {
		return nil, err
	}
	if err := f.Workspace.WriteDescriptorRaw(targetName, raw); err != nil {
		return nil, err
	}

	jarPath := f.Workspace.JarPath(targetName)
	emittedJar := strings.TrimSuffix(profilePath, ".json") + ".jar"
	if _, err := os.Stat(emittedJar); err == nil {
		if err := copyFile(emittedJar, jarPath); err != nil {
			return nil, errors.Wrap(err, "copying forge jar")
		}
	}

	return &InstallResult{
		TargetName:     targetName,
		ForgeVersion:   forgeVersion,
		DescriptorPath: f.Workspace.DescriptorPath(targetName),
		JarPath:        jarPath,
	}, nil
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

func copyFile(src string, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
