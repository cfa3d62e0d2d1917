package minecraft

import "github.com/launchbox/launchbox/internals/sources"

// AssetIndex is just a map containing AssetObjects
type AssetIndex struct {
	Objects map[string]AssetObject `json:"objects"`
}

// AssetObject is one content-addressed minecraft asset
type AssetObject struct {
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}

// UnixPath returns the content-addressed path including the folder,
// example: fe/fe32f3b8…
func (a *AssetObject) UnixPath() string {
	return a.Hash[:2] + "/" + a.Hash
}

// DownloadURL returns the download url for this asset on the given source
func (a *AssetObject) DownloadURL(source sources.Source) string {
	return source.ResourceBase() + "/" + a.UnixPath()
}
