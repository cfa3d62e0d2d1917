package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/launchbox/launchbox/internals/forge"
	"github.com/launchbox/launchbox/internals/merrors"
)

var forgeJavaPath string

var installForgeCmd = &cobra.Command{
	Use:   "install-forge <minecraft-version> <forge-version>",
	Short: "Install the Forge loader on top of a downloaded version",
	Long: `Install the Forge loader by running the upstream Forge installer.
This needs a working java binary, the installer is a jar.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		mcVersion := args[0]
		forgeVersion := args[1]

		ws := dataWorkspace()
		f := forge.New(ws, downloadSource(), forgeJavaPath)
		f.Client = apiClient()
		f.MaxConcurrent = viper.GetInt("maxConcurrent")
		f.OnProgress = func(stage string) {
			logger.Log("installer: " + stage)
		}

		result, err := f.Install(context.Background(), mcVersion, forgeVersion, "")
		if err != nil {
			switch ferr := err.(type) {
			case *forge.ErrTargetMissing:
				logger.Fail((&merrors.CliError{
					Err:  ferr.Error(),
					Help: fmt.Sprintf("run \"launchbox download %s\" first", mcVersion),
				}).Error())
			case *forge.ErrInstallerFailed:
				logger.Warn(ferr.Output)
				logger.Fail(ferr.Error())
			}
			logger.Fail(err.Error())
		}

		logger.Info(fmt.Sprintf("Forge %s installed into %s", result.ForgeVersion, result.TargetName))
	},
}

func init() {
	installForgeCmd.Flags().StringVar(&forgeJavaPath, "java", "java", "java binary used to run the forge installer")
	rootCmd.AddCommand(installForgeCmd)
}
