package replaytool_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/rallyscore/internal/adapters/http/api"
	service "github.com/okian/rallyscore/internal/app"
	"github.com/okian/rallyscore/internal/domain/rally"
	"github.com/okian/rallyscore/internal/replaytool"
	"github.com/okian/rallyscore/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const stream = `[
  {"id":"s1","summary":{"pointWinner":"top","rallySize":4,"validRally":true}},
  {"id":"s2","summary":{"pointWinner":"top","rallySize":2,"validRally":true}},
  {"id":"s3","summary":{"pointWinner":"top","rallySize":6,"validRally":true}},
  {"id":"s4","summary":{"pointWinner":null,"rallySize":1,"validRally":false}},
  {"id":"s5","summary":{"pointWinner":"bottom","rallySize":3,"validRally":true}}
]`

func init() {
	if err := logger.InitWithWriter(io.Discard, false); err != nil {
		panic(err)
	}
}

func run(cfg *replaytool.Config, stdin string) (string, error) {
	var out bytes.Buffer
	err := replaytool.Run(context.Background(), cfg, strings.NewReader(stdin), &out)
	return out.String(), err
}

func TestRunTable(t *testing.T) {
	Convey("Given a stream read from stdin", t, func() {
		cfg := &replaytool.Config{File: "-"}

		Convey("When replaying with the default tie-break", func() {
			out, err := run(cfg, stream)

			Convey("Then every point and game is printed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "GAME")
				So(out, ShouldContainSubstring, "WON-LOST")
				So(out, ShouldContainSubstring, "top*")
				So(out, ShouldContainSubstring, "game 1: top won (s1..s4, 4 points)")
				So(out, ShouldContainSubstring, "game 2: in progress (s5..s5, 1 points)")
				So(out, ShouldContainSubstring, "* 1 rallies credited by the tie-break")
			})
		})

		Convey("When the tie-break favours bottom", func() {
			cfg.DefaultWinner = "bottom"
			out, err := run(cfg, stream)

			Convey("Then the first game is still open", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "bottom*")
				So(out, ShouldContainSubstring, "game 1: in progress (s1..s5, 5 points)")
				So(out, ShouldNotContainSubstring, "WON")
			})
		})
	})
}

func TestRunJSONAndPath(t *testing.T) {
	Convey("Given a wrapped export on disk", t, func() {
		dir := t.TempDir()
		file := filepath.Join(dir, "export.json")
		So(os.WriteFile(file, []byte(`{"match":{"id":"m1","sections":`+stream+`}}`), 0o600), ShouldBeNil)

		Convey("When selecting the sections by path", func() {
			out, err := run(&replaytool.Config{File: file, Path: "match.sections", JSON: true}, "")

			Convey("Then the JSON report holds every point", func() {
				So(err, ShouldBeNil)
				var rep replaytool.Report
				So(json.Unmarshal([]byte(out), &rep), ShouldBeNil)
				So(rep.Points, ShouldHaveLength, 5)
				So(rep.Games, ShouldHaveLength, 2)
				So(rep.Defaulted, ShouldEqual, 1)
				So(rep.Points[4].NewGame, ShouldBeTrue)
			})
		})

		Convey("When the path does not exist", func() {
			_, err := run(&replaytool.Config{File: file, Path: "match.rallies"}, "")

			Convey("Then it is reported", func() {
				So(errors.Is(err, replaytool.ErrSectionsNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestRunErrors(t *testing.T) {
	Convey("Given bad inputs", t, func() {
		_, errJSON := run(&replaytool.Config{File: "-"}, "{not json")
		_, errShape := run(&replaytool.Config{File: "-"}, `{"id":"s1"}`)
		_, errFile := run(&replaytool.Config{}, stream)
		_, errWinner := run(&replaytool.Config{File: "-", DefaultWinner: "net"}, stream)
		_, errMalformed := run(&replaytool.Config{File: "-"}, `[{"id":"s1"}]`)

		Convey("Then each keeps its kind", func() {
			So(errors.Is(errJSON, replaytool.ErrInvalidInput), ShouldBeTrue)
			So(errors.Is(errShape, replaytool.ErrInvalidInput), ShouldBeTrue)
			So(errors.Is(errFile, replaytool.ErrMissingInput), ShouldBeTrue)
			So(errors.Is(errWinner, rally.ErrInvalidDefaultWinner), ShouldBeTrue)
			So(errors.Is(errMalformed, rally.ErrMalformedSection), ShouldBeTrue)
		})
	})
}

func TestRunRemote(t *testing.T) {
	Convey("Given a running score server", t, func() {
		svc := service.New()
		mux := http.NewServeMux()
		api.NewServer(svc, svc).Register(context.Background(), mux)
		srv := httptest.NewServer(mux)
		defer srv.Close()

		Convey("When replaying through it", func() {
			remote, err := run(&replaytool.Config{File: "-", JSON: true, BaseURL: srv.URL, Match: "m1"}, stream)
			So(err, ShouldBeNil)
			local, err := run(&replaytool.Config{File: "-", JSON: true}, stream)
			So(err, ShouldBeNil)

			Convey("Then it matches the local replay", func() {
				So(remote, ShouldEqual, local)
			})
		})

		Convey("When the server rejects the upload", func() {
			_, err := run(&replaytool.Config{File: "-", BaseURL: srv.URL, Match: "m1"}, `[{"id":"a","summary":{}},{"id":"a","summary":{}}]`)

			Convey("Then the remote error surfaces", func() {
				So(errors.Is(err, replaytool.ErrRemote), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "duplicate_section")
			})
		})
	})
}

func TestNewApp(t *testing.T) {
	Convey("Given the command line", t, func() {
		var cfg replaytool.Config
		app := replaytool.NewApp(&cfg)

		Convey("When parsing flags", func() {
			_, err := app.Parse([]string{"match.json", "-w", "bottom", "--json", "--path", "data.sections"})

			Convey("Then the config is filled", func() {
				So(err, ShouldBeNil)
				So(cfg.File, ShouldEqual, "match.json")
				So(cfg.DefaultWinner, ShouldEqual, "bottom")
				So(cfg.JSON, ShouldBeTrue)
				So(cfg.Path, ShouldEqual, "data.sections")
				So(cfg.Match, ShouldEqual, "replay")
				So(cfg.Timeout.String(), ShouldEqual, "10s")
			})
		})

		Convey("When the winner is not a side", func() {
			_, err := app.Parse([]string{"match.json", "-w", "net"})

			Convey("Then parsing fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
