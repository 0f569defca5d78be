package open

import (
	"testing"

	"github.com/mpv-handler/mpv-handler/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCommand(t *testing.T) {
	Convey("Each desktop uses its own opener", t, func() {
		cmd, err := command(constant.Linux, "/tmp/logs")
		So(err, ShouldBeNil)
		So(cmd.Args, ShouldResemble, []string{"xdg-open", "/tmp/logs"})

		cmd, err = command(constant.Darwin, "/tmp/logs")
		So(err, ShouldBeNil)
		So(cmd.Args, ShouldResemble, []string{"open", "/tmp/logs"})

		cmd, err = command(constant.Windows, `C:\logs`)
		So(err, ShouldBeNil)
		So(cmd.Args[1:], ShouldResemble, []string{"url.dll,FileProtocolHandler", `C:\logs`})

		_, err = command("plan9", "/tmp")
		So(err, ShouldNotBeNil)
	})
}
