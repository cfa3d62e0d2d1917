// Package sources routes upstream download URLs between the canonical
// Mojang servers and the BMCLAPI mirror.
package sources

import (
	"net/url"
	"strings"
)

// Source selects which set of upstream servers to download from
type Source uint8

const (
	// Mojang is the canonical upstream
	Mojang Source = iota
	// BMCLAPI is a mirror hosted by bangbang93, usually faster from Asia
	BMCLAPI
)

const (
	mojangManifestURL = "https://launchermeta.mojang.com/mc/game/version_manifest.json"
	mojangResources   = "https://resources.download.minecraft.net"
	mojangLibraries   = "https://libraries.minecraft.net"

	bmclapiBase      = "https://bmclapi2.bangbang93.com"
	bmclapiResources = bmclapiBase + "/assets"
	bmclapiLibraries = bmclapiBase + "/maven"
)

// Parse returns the source matching the given name.
// Unknown names fall back to Mojang.
func Parse(name string) Source {
	switch strings.ToLower(name) {
	case "bmclapi", "bangbang93", "mirror":
		return BMCLAPI
	default:
		return Mojang
	}
}

func (s Source) String() string {
	if s == BMCLAPI {
		return "bmclapi"
	}
	return "mojang"
}

// ManifestURL returns the version manifest endpoint for this source
func (s Source) ManifestURL() string {
	if s == BMCLAPI {
		return bmclapiBase + "/mc/game/version_manifest.json"
	}
	return mojangManifestURL
}

// ResourceBase returns the base url that asset objects are served from
func (s Source) ResourceBase() string {
	if s == BMCLAPI {
		return bmclapiResources
	}
	return mojangResources
}

// LibraryBase returns the base url that library jars are served from
func (s Source) LibraryBase() string {
	if s == BMCLAPI {
		return bmclapiLibraries
	}
	return mojangLibraries
}

// hostRewrites maps canonical upstream hosts to their BMCLAPI replacement.
// The value is a full url prefix the original path gets appended to.
var hostRewrites = map[string]string{
	"launchermeta.mojang.com":           bmclapiBase,
	"piston-meta.mojang.com":            bmclapiBase,
	"launcher.mojang.com":               bmclapiBase,
	"resources.download.minecraft.net":  bmclapiResources,
	"libraries.minecraft.net":           bmclapiLibraries,
	"files.minecraftforge.net/maven":    bmclapiLibraries,
	"maven.minecraftforge.net":          bmclapiLibraries,
}

// Rewrite maps a canonical upstream url into this source's url space.
// Unknown hosts pass through unchanged, as does every url for the
// Mojang source. The rewrite is stateless.
func (s Source) Rewrite(rawurl string) string {
	if s != BMCLAPI {
		return rawurl
	}
	u, err := url.Parse(rawurl)
	if err != nil {
		return rawurl
	}
	if prefix, ok := hostRewrites[u.Host]; ok {
		return prefix + u.Path
	}
	// forge maven lives under a path prefix, not a bare host
	if prefix, ok := hostRewrites[u.Host+firstPathSegment(u.Path)]; ok {
		return prefix + strings.TrimPrefix(u.Path, firstPathSegment(u.Path))
	}
	return rawurl
}

func firstPathSegment(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i != -1 {
		return "/" + trimmed[:i]
	}
	return "/" + trimmed
}
