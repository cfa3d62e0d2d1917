package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/launchbox/launchbox/internals/install"
	"github.com/launchbox/launchbox/internals/merrors"
	"github.com/launchbox/launchbox/internals/resolver"
)

var downloadRefresh bool

var downloadCmd = &cobra.Command{
	Use:     "download <version>",
	Short:   "Download a Minecraft version with its assets and libraries",
	Aliases: []string{"install"},
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		versionID := args[0]

		ws := dataWorkspace()
		rsv := newResolver(ws)
		ctx := context.Background()

		desc, err := rsv.Descriptor(ctx, versionID, downloadRefresh)
		if err != nil {
			if _, ok := err.(*resolver.ErrUnknownVersion); ok {
				logger.Fail((&merrors.CliError{
					Err:  err.Error(),
					Help: "run \"launchbox versions --all\" to see what can be downloaded",
				}).Error())
			}
			logger.Fail(err.Error())
		}

		if err := ws.WriteDescriptor(versionID, desc); err != nil {
			logger.Fail(err.Error())
		}

		installer := install.New(ws, downloadSource())
		installer.MaxConcurrent = viper.GetInt("maxConcurrent")

		task := logger.NewTask(3)

		task.Step("⬇", "Downloading client jar")
		jarSpinner := newMaybeSpinner()
		jarSpinner.Start()
		err = installer.Client(ctx, desc, versionID, func(done, total int64, pct int) {
			jarSpinner.Update(fmt.Sprintf("%s / %s (%d%%)",
				humanize.Bytes(uint64(done)), humanize.Bytes(uint64(total)), pct))
		})
		jarSpinner.Stop()
		if err != nil {
			logger.Fail(err.Error())
		}

		task.Step("🎨", "Downloading assets")
		assetSpinner := newMaybeSpinner()
		assetSpinner.Start()
		assets, err := installer.Assets(ctx, desc, func(pct int) {
			assetSpinner.Update(fmt.Sprintf("%d%%", pct))
		})
		assetSpinner.Stop()
		if err != nil {
			logger.Fail(err.Error())
		}
		if assets.Failed != 0 {
			logger.Warn(fmt.Sprintf("%d of %d assets failed to download", assets.Failed, assets.Total))
		}

		task.Step("📚", "Downloading libraries")
		libSpinner := newMaybeSpinner()
		libSpinner.Start()
		libs, err := installer.Libraries(ctx, desc, versionID, func(pct int) {
			libSpinner.Update(fmt.Sprintf("%d%%", pct))
		})
		libSpinner.Stop()
		if err != nil {
			logger.Fail(err.Error())
		}
		if libs.Failed != 0 {
			logger.Warn(fmt.Sprintf("%d of %d libraries failed to download", libs.Failed, libs.Total))
		}

		logger.Info("Installed " + versionID)
	},
}

// maybeSpinner is a spinner that degrades to plain lines on dumb terminals
type maybeSpinner struct {
	spin    bool
	spinner *spinner.Spinner
	last    string
}

func newMaybeSpinner() *maybeSpinner {
	s := &maybeSpinner{
		spin:    isatty.IsTerminal(os.Stdout.Fd()),
		spinner: spinner.New(spinner.CharSets[9], 300*time.Millisecond),
	}
	s.spinner.Prefix = " "
	return s
}

func (m *maybeSpinner) Start() {
	if m.spin {
		m.spinner.Start()
	}
}

func (m *maybeSpinner) Stop() {
	if m.spin {
		m.spinner.Stop()
	}
}

func (m *maybeSpinner) Update(t string) {
	m.spinner.Suffix = " " + t
	if !m.spin && t != m.last {
		m.last = t
		fmt.Println(t)
	}
}

func init() {
	downloadCmd.Flags().BoolVar(&downloadRefresh, "refresh", false, "refetch the version descriptor")
	rootCmd.AddCommand(downloadCmd)
}
