package minecraft

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/launchbox/launchbox/internals/sources"
)

// Libraries is a collection of minecraft libs
type Libraries []Library

// Required returns only the libraries that apply on the current platform
func (l Libraries) Required() Libraries {
	return l.RequiredFor(NormalizeOS(runtime.GOOS), NormalizeArch(runtime.GOARCH))
}

// RequiredFor returns only the libraries whose rules allow the given
// platform, in declaration order
func (l Libraries) RequiredFor(osName string, arch string) Libraries {
	required := make(Libraries, 0, len(l))
	for _, lib := range l {
		if !EvalRules(lib.Rules, osName, arch, nil) {
			continue
		}
		required = append(required, lib)
	}
	return required
}

// Library is a minecraft library
type Library struct {
	// Name is the maven coordinate "group:artifact:version[:classifier]".
	// It can derive path and url when no explicit artifact is present
	Name      string `json:"name"`
	Downloads struct {
		Artifact Artifact `json:"artifact,omitempty"`
		// Classifiers hold additional artifacts, keyed by classifier.
		// Native libraries live here on pre-1.19 versions
		Classifiers map[string]Artifact `json:"classifiers,omitempty"`
	} `json:"downloads,omitempty"`
	// URL is a maven base url used by fabric/forge library entries
	URL   string `json:"url,omitempty"`
	Rules []Rule `json:"rules,omitempty"`
	// Natives maps an os name to the classifier holding its native jar
	Natives map[string]string `json:"natives,omitempty"`
	// Extract lists path prefixes excluded when unpacking a native jar
	Extract *ExtractRules `json:"extract,omitempty"`
}

// ExtractRules control native jar extraction
type ExtractRules struct {
	Exclude []string `json:"exclude,omitempty"`
}

// Native reports whether this library is a platform native for the
// given os/arch rather than a plain classpath jar
func (l *Library) Native(osName string, arch string) bool {
	if _, ok := l.Natives[osName]; ok {
		return true
	}
	if _, ok := l.Downloads.Classifiers["natives-"+osName]; ok {
		return true
	}

	parts := strings.Split(l.Name, ":")
	if len(parts) >= 4 && strings.HasPrefix(parts[3], "natives-") {
		return true
	}
	// modern lwjgl-style coordinates encode the platform in the version
	// field, e.g. "…:3.3.1-natives-linux"
	if len(parts) >= 3 {
		v := parts[2]
		if v == osName || v == osName+"-"+arch || strings.Contains(v, "natives-") {
			return true
		}
	}
	return false
}

// NativeHere is Native for the current platform
func (l *Library) NativeHere() bool {
	return l.Native(NormalizeOS(runtime.GOOS), NormalizeArch(runtime.GOARCH))
}

// nativeClassifier resolves the classifier key for the given os.
// Pre-1.19 manifests sometimes template the arch into the key.
func (l *Library) nativeClassifier(osName string, arch string) string {
	key := l.Natives[osName]
	if key == "" {
		key = "natives-" + osName
	}
	bits := "64"
	if arch == "x86" || arch == "arm32" {
		bits = "32"
	}
	return strings.ReplaceAll(key, "${arch}", bits)
}

// NativeArtifact returns the downloadable native artifact for the
// given platform. ok is false when this library carries none.
func (l *Library) NativeArtifact(osName string, arch string) (Artifact, bool) {
	key := l.nativeClassifier(osName, arch)
	if a, ok := l.Downloads.Classifiers[key]; ok {
		return a, true
	}
	// post-1.19: the native jar is the main artifact of a
	// "natives-os" suffixed library entry
	if l.Native(osName, arch) && !l.Downloads.Artifact.Empty() {
		return l.Downloads.Artifact, true
	}
	return Artifact{}, false
}

// Filepath returns the library path relative to the libraries folder,
// preferring the recorded artifact path and deriving from the maven
// coordinate otherwise
func (l *Library) Filepath() string {
	if l.Downloads.Artifact.Path != "" {
		return filepath.FromSlash(l.Downloads.Artifact.Path)
	}
	return filepath.FromSlash(l.mavenPath())
}

// mavenPath derives "group/artifact/version/artifact-version[-classifier].jar"
// from the Name coordinate. Returns "" for malformed names.
func (l *Library) mavenPath() string {
	parts := strings.Split(l.Name, ":")
	if len(parts) < 3 {
		return ""
	}
	group := strings.ReplaceAll(parts[0], ".", "/")
	artifact := parts[1]
	version := parts[2]

	file := artifact + "-" + version
	if len(parts) >= 4 {
		file += "-" + parts[3]
	}
	return group + "/" + artifact + "/" + version + "/" + file + ".jar"
}

// DownloadURL returns the url this library's jar is fetched from,
// routed through the given source
func (l *Library) DownloadURL(source sources.Source) string {
	switch {
	case l.Downloads.Artifact.URL != "":
		return source.Rewrite(l.Downloads.Artifact.URL)
	case l.URL != "":
		return source.Rewrite(strings.TrimSuffix(l.URL, "/") + "/" + l.mavenPath())
	default:
		return source.LibraryBase() + "/" + l.mavenPath()
	}
}
