package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mpv-handler/mpv-handler/color"
	"github.com/mpv-handler/mpv-handler/icon"
	"github.com/mpv-handler/mpv-handler/key"
	"github.com/mpv-handler/mpv-handler/log"
	"github.com/mpv-handler/mpv-handler/session"
	"github.com/mpv-handler/mpv-handler/style"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

const maxErrorWidth = 80

// exit is replaced in tests.
var exit = os.Exit

func handleErr(err error) {
	if err == nil {
		return
	}

	log.Error(err)
	_, _ = fmt.Fprintln(os.Stderr, renderError(err, isTerminal(os.Stderr)))

	var abortErr *session.AbortError
	if errors.As(err, &abortErr) && !viper.GetBool(key.CliErrorExit) {
		exit(0)
		return
	}
	exit(1)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// renderError formats err for the console: boxed and wrapped on a terminal, plain otherwise.
func renderError(err error, tty bool) string {
	msg := strings.Trim(err.Error(), " \n")

	var abortErr *session.AbortError
	if errors.As(err, &abortErr) {
		msg = abortErr.Diagnostic()
	}

	if !tty {
		return fmt.Sprintf("%s %s", icon.Get(icon.Fail), msg)
	}

	width := maxErrorWidth
	if w, _, err := term.GetSize(int(os.Stderr.Fd())); err == nil && w > 8 && w < width {
		width = w
	}

	title := style.New().Bold(true).Foreground(color.HiRed).Render(icon.Get(icon.Fail) + " Error / 错误")
	body := wordwrap.String(msg, width-6)
	return style.Box(color.Red)(title + "\n\n" + body)
}
