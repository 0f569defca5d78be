// Package cmd implements the command-line interface for mpv-handler.
package cmd

import (
	"fmt"
	"os"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/mpv-handler/mpv-handler/color"
	"github.com/mpv-handler/mpv-handler/constant"
	"github.com/mpv-handler/mpv-handler/icon"
	"github.com/mpv-handler/mpv-handler/key"
	"github.com/mpv-handler/mpv-handler/player"
	"github.com/mpv-handler/mpv-handler/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the icon variant")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.Flags().StringP("player", "p", "", "Path to the mpv executable")
	lo.Must0(viper.BindPFlag(key.PlayerPath, rootCmd.Flags().Lookup("player")))

	rootCmd.Flags().StringP("source", "s", "", "Where the playback position is read from (ipc, stdout)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("source", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{string(player.SourceIPC), string(player.SourceStdout)}, cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.PlayerPositionSource, rootCmd.Flags().Lookup("source")))

	rootCmd.Flags().String("proxy", "", "Proxy URL for server calls and the player")
	lo.Must0(viper.BindPFlag(key.NetworkProxy, rootCmd.Flags().Lookup("proxy")))
}

// rootCmd handles a single mpv://play/ link.
var rootCmd = &cobra.Command{
	Use:   constant.App + " <mpv://play/...>",
	Short: "Play mpv:// links from an Emby web client and report progress back",
	Long: style.Bold(constant.App) + "\n" +
		style.New().Italic(true).Foreground(color.HiCyan).Render("    - Play mpv:// links from an Emby web client and report progress back"),
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.SetContext(cmd.Context())
			versionCmd.Run(versionCmd, nil)
			return
		}

		if len(args) == 0 {
			_ = cmd.Help()
			return
		}

		handleErr(runHandler(cmd.Context(), args[0]))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
