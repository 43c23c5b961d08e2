package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/okian/rallyscore/internal/config"
	"github.com/okian/rallyscore/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainConfiguration(t *testing.T) {
	convey.Convey("Given environment overrides", t, func() {
		_ = os.Setenv("RALLY_ADDR", ":8080")
		_ = os.Setenv("RALLY_DEFAULT_WINNER", "bottom")
		_ = os.Setenv("RALLY_MAX_SECTIONS_PER_MATCH", "3")
		defer func() {
			_ = os.Unsetenv("RALLY_ADDR")
			_ = os.Unsetenv("RALLY_DEFAULT_WINNER")
			_ = os.Unsetenv("RALLY_MAX_SECTIONS_PER_MATCH")
		}()

		convey.Convey("When building the service from configuration", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			svc := newService(cfg, logger.Get())

			convey.Convey("Then the service carries the configured policy", func() {
				stats := svc.GetStats()
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(stats["defaultWinner"], convey.ShouldEqual, "bottom")
				convey.So(stats["maxSections"], convey.ShouldEqual, 3)
			})
		})
	})

	convey.Convey("Given an invalid default winner", t, func() {
		_ = os.Setenv("RALLY_DEFAULT_WINNER", "net")
		defer func() { _ = os.Unsetenv("RALLY_DEFAULT_WINNER") }()

		convey.Convey("Then configuration loading fails", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

func TestMainMux(t *testing.T) {
	convey.Convey("Given the assembled mux", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)
		svc := newService(cfg, logger.Get())
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()
		mux := newMux(ctx, cfg, svc)

		serve := func(method, target, body string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(method, target, strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			return w
		}

		convey.Convey("When uploading a match and asking for a score", func() {
			put := serve(http.MethodPut, "/matches/m/sections",
				`[{"id":"a","summary":{"pointWinner":"top"}},{"id":"b","summary":{"pointWinner":"bottom"}}]`)
			score := serve(http.MethodGet, "/matches/m/score?section=b", "")

			convey.Convey("Then the business routes answer", func() {
				convey.So(put.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(score.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(score.Body.String(), convey.ShouldContainSubstring, `"top":"15","bottom":"15"`)
			})
		})

		convey.Convey("When asking for the docs", func() {
			docs := serve(http.MethodGet, "/api-docs", "")
			spec := serve(http.MethodGet, "/openapi.yaml", "")
			viewer := serve(http.MethodGet, "/", "")

			convey.Convey("Then the docs and viewer routes answer", func() {
				convey.So(docs.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(spec.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(viewer.Code, convey.ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestMainUpdaters(t *testing.T) {
	convey.Convey("Given background updaters", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		svc := newService(config.New(ctx), logger.Get())

		convey.Convey("Then they stop with their context", func() {
			convey.So(func() {
				startSystemMetricsUpdater(ctx, 10*time.Millisecond)
				startStoreMetricsUpdater(ctx, svc, 10*time.Millisecond)
			}, convey.ShouldNotPanic)
		})

		convey.Convey("Then a single system update does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})
	})
}
