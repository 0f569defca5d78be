package cmd

import (
	"fmt"
	"os"

	"github.com/mpv-handler/mpv-handler/color"
	"github.com/mpv-handler/mpv-handler/icon"
	"github.com/mpv-handler/mpv-handler/link"
	"github.com/mpv-handler/mpv-handler/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().StringP("subtitle", "S", "", "External subtitle URL to attach")
	encodeCmd.SetOut(os.Stdout)

	rootCmd.AddCommand(decodeCmd)
	decodeCmd.SetOut(os.Stdout)
}

// encodeCmd builds the mpv:// link a web client would open for a media URL.
var encodeCmd = &cobra.Command{
	Use:   "encode <media-url>",
	Short: "Build an mpv://play/ link for a media URL",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		request := link.Request{
			Media:    args[0],
			Subtitle: lo.Must(cmd.Flags().GetString("subtitle")),
		}

		if _, err := link.ExtractParams(request.Media); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", style.Fg(color.Yellow)(icon.Get(icon.Warn)), err)
		}

		cmd.Println(link.Encode(request))
	},
}

// decodeCmd shows what a link carries without playing it.
var decodeCmd = &cobra.Command{
	Use:   "decode <mpv://play/...>",
	Short: "Show the media URL and session parameters inside a link",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		request, err := link.Decode(args[0])
		handleErr(err)

		label := style.New().Bold(true).Foreground(color.Purple).Render
		cmd.Printf("%s %s\n", label("Media:"), request.Media)
		if request.HasSubtitle() {
			cmd.Printf("%s %s\n", label("Subtitle:"), request.Subtitle)
		}

		params, err := link.ExtractParams(request.Media)
		handleErr(err)

		cmd.Printf("%s %s\n", label("Host:"), params.Host)
		cmd.Printf("%s %s\n", label("ItemId:"), params.ItemID)
		cmd.Printf("%s %s\n", label("MediaSourceId:"), params.MediaSourceID)
	},
}
