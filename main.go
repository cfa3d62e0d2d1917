package main

import (
	"net/http"

	"github.com/launchbox/launchbox/cmd"
	"github.com/launchbox/launchbox/internals/ownhttp"
)

// set by goreleaser
var (
	version string
	commit  string
)

func main() {
	cmd.Version = version
	cmd.Commit = commit

	// replace default http client
	http.DefaultClient = ownhttp.New("launchbox/" + cmd.Version)

	cmd.Execute()
}
