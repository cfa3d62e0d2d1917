package fabric

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/pkg/errors"
)

// LoaderVersion is one published fabric loader build
type LoaderVersion struct {
	Separator string `json:"separator"`
	Build     int    `json:"build"`
	Maven     string `json:"maven"`
	Version   string `json:"version"`
	Stable    bool   `json:"stable"`
}

type loaderEntry struct {
	Loader LoaderVersion `json:"loader"`
}

// Loaders lists the loader versions available for a minecraft version,
// newest first (the meta api's order)
func (f *Installer) Loaders(ctx context.Context, mcVersion string) ([]LoaderVersion, error) {
	listURL := fmt.Sprintf("%s/versions/loader/%s", f.metaBase(), url.PathEscape(mcVersion))

	buf, err := f.get(ctx, listURL)
	if err != nil {
		return nil, errors.Wrap(err, "listing fabric loaders")
	}

	entries := make([]loaderEntry, 0)
	if err := json.Unmarshal(buf, &entries); err != nil {
		return nil, errors.Wrap(err, "parsing fabric loader list")
	}

	loaders := make([]LoaderVersion, 0, len(entries))
	for _, entry := range entries {
		loaders = append(loaders, entry.Loader)
	}
	return loaders, nil
}

// latestStableLoader picks the newest stable loader for a minecraft
// version, falling back to the newest overall
func (f *Installer) latestStableLoader(ctx context.Context, mcVersion string) (string, error) {
	loaders, err := f.Loaders(ctx, mcVersion)
	if err != nil {
		return "", err
	}
	if len(loaders) == 0 {
		return "", errors.Errorf("no fabric loader published for minecraft %s", mcVersion)
	}
	for _, loader := range loaders {
		if loader.Stable {
			return loader.Version, nil
		}
	}
	return loaders[0].Version, nil
}
