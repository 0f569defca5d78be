package network

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	Convey("Given a server echoing the User-Agent", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(r.UserAgent()))
		}))
		defer server.Close()

		get := func(c *http.Client, ua string) string {
			req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
			if ua != "" {
				req.Header.Set("User-Agent", ua)
			}
			resp, err := c.Do(req)
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			buf := make([]byte, 256)
			n, _ := resp.Body.Read(buf)
			return string(buf[:n])
		}

		Convey("The configured agent is applied", func() {
			c, err := New(Options{UserAgent: "Emby/test"})
			So(err, ShouldBeNil)
			So(get(c, ""), ShouldEqual, "Emby/test")
		})

		Convey("An explicit request agent wins", func() {
			c, err := New(Options{UserAgent: "Emby/test"})
			So(err, ShouldBeNil)
			So(get(c, "custom/1.0"), ShouldEqual, "custom/1.0")
		})

		Convey("The default timeout applies when unset", func() {
			c, err := New(Options{})
			So(err, ShouldBeNil)
			So(c.Timeout, ShouldEqual, 30*time.Second)
		})
	})

	Convey("Proxy handling", t, func() {
		Convey("A valid proxy is wired into the transport", func() {
			c, err := New(Options{Proxy: "http://127.0.0.1:7890"})
			So(err, ShouldBeNil)

			tr := c.Transport.(*userAgentTransport).base.(*http.Transport)
			req, _ := http.NewRequest(http.MethodGet, "http://media.local/emby/Sessions", nil)
			u, err := tr.Proxy(req)
			So(err, ShouldBeNil)
			So(u, ShouldResemble, &url.URL{Scheme: "http", Host: "127.0.0.1:7890"})
		})

		Convey("A proxy without scheme is rejected", func() {
			_, err := New(Options{Proxy: "127.0.0.1:7890"})
			So(err, ShouldNotBeNil)
		})

		Convey("Fingerprinting with a proxy disables HTTP/2", func() {
			c, err := New(Options{Proxy: "http://127.0.0.1:7890", Fingerprint: true})
			So(err, ShouldBeNil)
			tr := c.Transport.(*userAgentTransport).base.(*fingerprintTransport)
			So(tr.h2, ShouldBeNil)
			So(tr.h1.Proxy, ShouldNotBeNil)
		})
	})
}
