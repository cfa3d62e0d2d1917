package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/launchbox/launchbox/internals/fabric"
	"github.com/launchbox/launchbox/internals/merrors"
)

var fabricLoaderVersion string

var installFabricCmd = &cobra.Command{
	Use:   "install-fabric <minecraft-version>",
	Short: "Install the Fabric loader on top of a downloaded version",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		mcVersion := args[0]

		ws := dataWorkspace()
		f := fabric.New(ws, downloadSource())
		f.Client = apiClient()
		f.MaxConcurrent = viper.GetInt("maxConcurrent")

		result, err := f.Install(context.Background(), mcVersion, fabricLoaderVersion, "")
		if err != nil {
			if _, ok := err.(*fabric.ErrTargetMissing); ok {
				logger.Fail((&merrors.CliError{
					Err:  err.Error(),
					Help: fmt.Sprintf("run \"launchbox download %s\" first", mcVersion),
				}).Error())
			}
			logger.Fail(err.Error())
		}

		if result.Libraries.Failed != 0 {
			logger.Warn(fmt.Sprintf("%d loader libraries failed to download", result.Libraries.Failed))
		}
		logger.Info(fmt.Sprintf("Fabric %s installed into %s", result.LoaderVersion, result.TargetName))
	},
}

func init() {
	installFabricCmd.Flags().StringVar(&fabricLoaderVersion, "loader", "", "fabric loader version (default: latest stable)")
	rootCmd.AddCommand(installFabricCmd)
}
