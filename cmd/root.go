package cmd

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/launchbox/launchbox/internals/cmdlog"
	"github.com/launchbox/launchbox/internals/ownhttp"
	"github.com/launchbox/launchbox/internals/resolver"
	"github.com/launchbox/launchbox/internals/sources"
	"github.com/launchbox/launchbox/internals/workspace"
)

// Version and Commit are set from main (goreleaser fills them in)
var (
	Version = "dev"
	Commit  = ""
)

var logger = cmdlog.New()

var (
	cfgFile       string
	dataDirFlag   string
	sourceFlag    string
	disableColors bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "launchbox",
	Short: "Download, assemble and launch Minecraft",
	Long:  "launchbox fetches Minecraft versions with their assets and libraries,\nlayers Forge or Fabric on top and starts the game",

	Example: `
  launchbox versions
  launchbox download 1.19.2
  launchbox install-fabric 1.19.2
  launchbox launch 1.19.2 --username steve`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	rootCmd.Version = Version
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.launchbox/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory (default is $HOME/.launchbox)")
	rootCmd.PersistentFlags().StringVar(&sourceFlag, "source", "", "download source: mojang or bmclapi")
	rootCmd.PersistentFlags().BoolVar(&disableColors, "no-color", false, "disable color output")

	viper.SetDefault("source", "mojang")
	viper.SetDefault("maxConcurrent", 6)
	viper.SetDefault("launcherName", "launchbox")
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if disableColors || os.Getenv("CI") != "" {
		color.Disable()
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(filepath.Join(home, ".launchbox"))
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	viper.SetEnvPrefix("launchbox")
	viper.AutomaticEnv()

	// a missing config file is fine, everything has defaults
	viper.ReadInConfig()

	if dataDirFlag != "" {
		viper.Set("dataDir", dataDirFlag)
	}
	if sourceFlag != "" {
		viper.Set("source", sourceFlag)
	}
}

func dataWorkspace() *workspace.Workspace {
	if dir := viper.GetString("dataDir"); dir != "" {
		return workspace.New(dir)
	}
	ws, err := workspace.Default()
	if err != nil {
		logger.Fail("could not determine the data directory: " + err.Error())
	}
	return ws
}

func downloadSource() sources.Source {
	return sources.Parse(viper.GetString("source"))
}

func apiClient() *http.Client {
	client := ownhttp.New("launchbox/" + Version)
	// some mirrors ban aggressive clients, a limit can be configured
	if rps := viper.GetFloat64("requestsPerSecond"); rps > 0 {
		client.Transport = ownhttp.NewThrottleTransport(
			client.Transport,
			rate.NewLimiter(rate.Limit(rps), 1),
		)
	}
	return client
}

func newResolver(ws *workspace.Workspace) *resolver.Resolver {
	return resolver.New(ws, downloadSource(), apiClient())
}
