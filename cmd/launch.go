package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jwalton/gchalk"
	"github.com/spf13/cobra"

	"github.com/launchbox/launchbox/internals/commands"
	"github.com/launchbox/launchbox/internals/launch"
)

var launchFlags struct {
	javaPath   string
	gameDir    string
	username   string
	uuid       string
	token      string
	userType   string
	width      int
	height     int
	minRAM     int
	maxRAM     int
	demo       bool
	dryRun     bool
	jvmArgs    []string
	gameArgs   []string
	quickHost  string
	quickWorld string
}

var launchCmd = &cobra.Command{
	Use:     "launch <version>",
	Short:   "Launch an installed Minecraft version",
	Aliases: []string{"run", "start", "play"},
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		versionName := args[0]
		ws := dataWorkspace()

		params := &launch.Params{
			GameDir:  launchFlags.gameDir,
			JavaPath: launchFlags.javaPath,
			Identity: launch.Identity{
				Username:    launchFlags.username,
				UUID:        launchFlags.uuid,
				AccessToken: launchFlags.token,
				UserType:    launchFlags.userType,
			},
			Window:   launch.Window{Width: launchFlags.width, Height: launchFlags.height},
			Memory:   launch.Memory{MinMB: launchFlags.minRAM, MaxMB: launchFlags.maxRAM},
			JvmArgs:  launchFlags.jvmArgs,
			GameArgs: launchFlags.gameArgs,
			Demo:     launchFlags.demo,
		}
		if launchFlags.quickHost != "" {
			params.QuickPlay.Multiplayer = launchFlags.quickHost
		}
		if launchFlags.quickWorld != "" {
			params.QuickPlay.Singleplayer = launchFlags.quickWorld
		}

		launcher := &launch.Launcher{
			Workspace:       ws,
			LauncherName:    "launchbox",
			LauncherVersion: Version,
		}

		command, err := launcher.Command(versionName, params)
		if err != nil {
			if _, ok := err.(*launch.ErrLaunch); ok {
				fmt.Println(commands.ErrorBox(
					err.Error(),
					fmt.Sprintf("run \"launchbox download %s\" first", versionName),
				))
				os.Exit(1)
			}
			logger.Fail(err.Error())
		}

		if launchFlags.dryRun {
			fmt.Println(command.String())
			return
		}

		fmt.Println(lipgloss.JoinHorizontal(
			0.5,
			gchalk.Hex("#7a563b")("│"+"\n"+"┕"),
			commands.StyleGrass.Render(commands.Emoji("⛏  ")+"Launching "+versionName),
		))
		fmt.Println("│ Game dir: " + command.Dir)
		javaLine := "│ Java:     " + command.Program
		if desc, derr := ws.ReadDescriptor(versionName); derr == nil {
			javaLine += gchalk.Gray(fmt.Sprintf(" (wants major %d)", launch.JavaMajor(desc)))
		}
		fmt.Println(javaLine)
		fmt.Println("┕ " + gchalk.Gray(strings.Join(command.Args[:min(3, len(command.Args))], " ")+" …"))

		process, err := launcher.Launch(command, os.Stdout, os.Stderr)
		if err != nil {
			logger.Fail(err.Error())
		}

		if err := process.Wait(); err != nil {
			// a minecraft server stopped with ctrl-c exits 130, that is
			// a normal stop
			if process.Cmd.ProcessState.ExitCode() == 130 {
				return
			}
			logger.Fail(err.Error())
		}
	},
}

func init() {
	flags := launchCmd.Flags()
	flags.StringVar(&launchFlags.javaPath, "java", "java", "java binary to launch with")
	flags.StringVar(&launchFlags.gameDir, "game-dir", "", "game directory (saves, options, mods)")
	flags.StringVarP(&launchFlags.username, "username", "u", "Player", "player name")
	flags.StringVar(&launchFlags.uuid, "uuid", "", "player uuid")
	flags.StringVar(&launchFlags.token, "access-token", "", "session access token")
	flags.StringVar(&launchFlags.userType, "user-type", "msa", "account type (msa or legacy)")
	flags.IntVar(&launchFlags.width, "width", 0, "window width")
	flags.IntVar(&launchFlags.height, "height", 0, "window height")
	flags.IntVar(&launchFlags.minRAM, "min-ram", 0, "initial heap in MiB")
	flags.IntVar(&launchFlags.maxRAM, "ram", 0, "max heap in MiB (default: sized from system memory)")
	flags.BoolVar(&launchFlags.demo, "demo", false, "start in demo mode")
	flags.BoolVar(&launchFlags.dryRun, "dry-run", false, "print the command instead of launching")
	flags.StringArrayVar(&launchFlags.jvmArgs, "jvm-arg", nil, "extra jvm argument (repeatable)")
	flags.StringArrayVar(&launchFlags.gameArgs, "game-arg", nil, "extra game argument (repeatable)")
	flags.StringVar(&launchFlags.quickHost, "join", "", "server address to join after startup")
	flags.StringVar(&launchFlags.quickWorld, "world", "", "singleplayer world to open after startup")
	rootCmd.AddCommand(launchCmd)
}
