package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it is enabled with the default refresh interval", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Enabled(), ShouldBeTrue)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(false),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then options are applied", func() {
				So(manager.Enabled(), ShouldBeFalse)
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)

				manager.pointsExtracted.Add(3)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_unit_points_extracted_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When invalid option values are given", func() {
			manager := NewManager(
				WithPrometheusRegistry(prometheus.NewRegistry()),
				WithNamespace(""),
				WithRefreshInterval(-time.Second),
				WithHistogramBuckets(nil),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "rally")
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
				So(manager.histogramBuckets, ShouldNotBeEmpty)
			})
		})
	})
}

func TestRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		SetEnabled(true)

		Convey("When recording score queries", func() {
			before := read(globalManager.scoreQueries.WithLabelValues("score", "ok"))
			RecordScoreQuery("score", "ok")

			Convey("Then the counter increases", func() {
				after := read(globalManager.scoreQueries.WithLabelValues("score", "ok"))
				So(after-before, ShouldEqual, 1)
			})
		})

		Convey("When recording extracted points", func() {
			total := read(globalManager.pointsExtracted)
			defaulted := read(globalManager.defaultedWinners)
			RecordPointsExtracted(10, 2)

			Convey("Then both counters move", func() {
				So(read(globalManager.pointsExtracted)-total, ShouldEqual, 10)
				So(read(globalManager.defaultedWinners)-defaulted, ShouldEqual, 2)
			})
		})

		Convey("When recording is disabled", func() {
			SetEnabled(false)
			defer SetEnabled(true)
			before := read(globalManager.gamesSegmented)
			RecordGamesSegmented(4)

			Convey("Then domain counters stay put", func() {
				So(read(globalManager.gamesSegmented), ShouldEqual, before)
			})
		})

		Convey("When updating gauges", func() {
			UpdateStoreSize(3, 120)

			Convey("Then they hold the last value", func() {
				So(read(globalManager.matchesStored), ShouldEqual, 3)
				So(read(globalManager.sectionsStored), ShouldEqual, 120)
			})
		})

		Convey("When recording the remaining metrics", func() {
			So(func() {
				RecordReplayLatency(0.3)
				RecordManualTransition("up", "advantage")
				RecordHTTPRequest("score", "GET", "200")
				RecordHTTPRequestDuration("score", "GET", "200", 1.5)
				RecordErrorByType("not_found", "medium")
				RecordErrorByEndpoint("score", "GET", "not_found")
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.4)
			}, ShouldNotPanic)
		})

		Convey("When gathering the custom registry", func() {
			RecordHTTPRequest("healthz", "GET", "200")
			families, err := GetRegistry().Gather()

			Convey("Then only service metrics are exposed", func() {
				So(err, ShouldBeNil)
				So(families, ShouldNotBeEmpty)
				for _, f := range families {
					So(strings.HasPrefix(f.GetName(), "rally_score_"), ShouldBeTrue)
				}
			})
		})
	})
}

// read returns the current value of a counter or gauge.
func read(m prometheus.Metric) float64 {
	var out dto.Metric
	if err := m.Write(&out); err != nil {
		return -1
	}
	switch {
	case out.Counter != nil:
		return out.Counter.GetValue()
	case out.Gauge != nil:
		return out.Gauge.GetValue()
	}
	return 0
}
