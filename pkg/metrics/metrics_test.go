package metrics

import (
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with default options", func() {
			m := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it uses the footprint namespace", func() {
				So(m.namespace, ShouldEqual, "footprint")
				So(m.subsystem, ShouldEqual, "tracker")
				So(m.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})

		Convey("When creating a manager with custom options", func() {
			m := NewManager(
				WithNamespace("acme"),
				WithSubsystem("green"),
				WithHistogramBuckets([]float64{1, 5, 10}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			m.footprintsRecorded.Inc()

			Convey("Then the options are applied to exported names", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				var found bool
				for _, f := range families {
					if f.GetName() == "acme_green_footprints_recorded_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty option values are passed", func() {
			m := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithConstLabels(nil),
				WithPrometheusRegistry(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the defaults are kept", func() {
				So(m.namespace, ShouldEqual, "footprint")
				So(m.subsystem, ShouldEqual, "tracker")
				So(m.histogramBuckets, ShouldNotBeEmpty)
				So(m.constLabels, ShouldNotBeNil)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording business metrics", func() {
			before := testutil.ToFloat64(globalManager.submissionsAccepted.WithLabelValues("office"))
			RecordSubmissionAccepted("office")
			RecordSubmissionAccepted("office")
			RecordForecastGenerated("individual")
			UpdateTrackedEmployees(42)
			UpdateQueueSize(7)

			Convey("Then the collectors reflect the recorded values", func() {
				So(testutil.ToFloat64(globalManager.submissionsAccepted.WithLabelValues("office")), ShouldEqual, before+2)
				So(testutil.ToFloat64(globalManager.forecastsGenerated.WithLabelValues("individual")), ShouldBeGreaterThanOrEqualTo, 1)
				So(testutil.ToFloat64(globalManager.trackedEmployees), ShouldEqual, 42)
				So(testutil.ToFloat64(globalManager.queueSize), ShouldEqual, 7)
			})
		})

		Convey("When recording every remaining metric", func() {
			So(func() {
				RecordSubmissionDuplicate()
				RecordCalculationLatency(1.5)
				RecordFootprintRecorded()
				RecordCalculationError()
				UpdateWorkerCount(4)
				RecordHTTPRequest("/footprints", "POST", "202")
				RecordHTTPRequestDuration("/footprints", "POST", "202", 3)
				RecordStoreError()
				UpdateStoreRecordsTotal(10)
				RecordStoreUpdateLatency(0.2)
				RecordStoreQueryLatency(0.1)
				UpdateQueueCapacity(100)
				UpdateQueueUtilization(0.07)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
				RecordQueueProcessingLatency(0.01)
				UpdateWorkerActiveCount(4)
				UpdateWorkerMessagesPerSecond(12.5)
				RecordWorkerProcessingLatency(2)
				RecordWorkerError()
				RecordErrorByComponent("worker", "calculate")
				RecordErrorByType("calculate", "error")
				RecordErrorByEndpoint("/footprints", "POST", "validation")
				RecordErrorLatency("worker", "calculate", 1)
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})

		Convey("When gathering the custom registry", func() {
			RecordFootprintRecorded()
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)

			Convey("Then only footprint metrics are exported", func() {
				So(families, ShouldNotBeEmpty)
				for _, f := range families {
					So(strings.HasPrefix(f.GetName(), "footprint_tracker_"), ShouldBeTrue)
				}
			})
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recorders", t, func() {
		before := testutil.ToFloat64(globalManager.queueEnqueued)
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					RecordQueueEnqueue()
					UpdateQueueSize(j)
					RecordHTTPRequest("/stats", "GET", "200")
				}
			}()
		}
		wg.Wait()

		Convey("Then no increments are lost", func() {
			So(testutil.ToFloat64(globalManager.queueEnqueued), ShouldEqual, before+1000)
		})
	})
}
