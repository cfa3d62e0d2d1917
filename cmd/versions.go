package cmd

import (
	"context"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/jwalton/gchalk"
	"github.com/spf13/cobra"

	"github.com/launchbox/launchbox/internals/minecraft"
)

var (
	versionsSnapshots bool
	versionsAll       bool
	versionsRefresh   bool
)

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List available Minecraft versions",
	Run: func(cmd *cobra.Command, args []string) {
		ws := dataWorkspace()
		rsv := newResolver(ws)

		manifest, err := rsv.Manifest(context.Background(), versionsRefresh)
		if err != nil {
			logger.Fail(err.Error())
		}

		listed := make([]minecraft.VersionStub, 0, len(manifest.Versions))
		for _, stub := range manifest.Versions {
			switch stub.Type {
			case minecraft.TypeRelease:
				listed = append(listed, stub)
			case minecraft.TypeSnapshot:
				if versionsSnapshots || versionsAll {
					listed = append(listed, stub)
				}
			default:
				if versionsAll {
					listed = append(listed, stub)
				}
			}
		}

		// releases sort newest first; semver handles 1.9 vs 1.10 right
		sort.SliceStable(listed, func(a, b int) bool {
			va, errA := semver.NewVersion(listed[a].ID)
			vb, errB := semver.NewVersion(listed[b].ID)
			if errA != nil || errB != nil {
				return false
			}
			return va.GreaterThan(vb)
		})

		for _, stub := range listed {
			line := stub.ID
			switch stub.ID {
			case manifest.Latest.Release:
				line += gchalk.Green(" (latest release)")
			case manifest.Latest.Snapshot:
				line += gchalk.Yellow(" (latest snapshot)")
			}
			if stub.Type != minecraft.TypeRelease {
				line += gchalk.Gray(" " + stub.Type)
			}
			logger.Info(line)
		}
	},
}

func init() {
	versionsCmd.Flags().BoolVar(&versionsSnapshots, "snapshots", false, "include snapshots")
	versionsCmd.Flags().BoolVarP(&versionsAll, "all", "a", false, "include snapshots, betas and alphas")
	versionsCmd.Flags().BoolVar(&versionsRefresh, "refresh", false, "skip the manifest cache")
	rootCmd.AddCommand(versionsCmd)
}
