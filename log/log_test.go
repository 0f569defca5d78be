package log

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mpv-handler/mpv-handler/filesystem"
	"github.com/mpv-handler/mpv-handler/key"
	"github.com/mpv-handler/mpv-handler/where"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given logging is enabled", t, func() {
		viper.Set(key.LogsWrite, true)
		viper.Set(key.LogsLevel, "debug")

		Convey("Setup creates today's log file and writes to it", func() {
			So(Setup(), ShouldBeNil)
			WithField("phase", "Play").Info("reported")

			path := filepath.Join(where.Logs(), time.Now().Format("2006-01-02")+".log")
			So(lo.Must(filesystem.API().Exists(path)), ShouldBeTrue)
			content := lo.Must(filesystem.API().ReadFile(path))
			So(string(content), ShouldContainSubstring, "reported")
		})
	})

	Convey("Given logging is disabled", t, func() {
		viper.Set(key.LogsWrite, false)

		Convey("Setup is a no-op and emissions are discarded", func() {
			So(Setup(), ShouldBeNil)
			So(func() { WithFields(nil).Warn("ignored") }, ShouldNotPanic)
		})
	})
}
