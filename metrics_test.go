package qsim

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMetrics(t *testing.T) {
	Convey("Given fresh metrics", t, func() {
		m := NewMetrics()

		Convey("Nothing recorded reads as zero", func() {
			So(m.SuccessRate(), ShouldEqual, 0)
			So(m.ExportMetrics()["branches"], ShouldEqual, int64(0))
		})

		Convey("Recorded branches update counts and latencies", func() {
			for i := 1; i <= 100; i++ {
				m.recordBranch(time.Duration(i)*time.Millisecond, i%4 != 0)
			}

			So(m.BranchCount, ShouldEqual, int64(100))
			So(m.FailedCount, ShouldEqual, int64(25))
			So(m.SuccessRate(), ShouldAlmostEqual, 0.75, tolerance)
			So(m.AverageLatency, ShouldEqual, 50500*time.Microsecond)
			So(m.P95Latency, ShouldEqual, 96*time.Millisecond)
			So(m.P99Latency, ShouldEqual, 100*time.Millisecond)

			exported := m.ExportMetrics()
			So(exported["p95_latency"], ShouldEqual, int64(96000))
			So(exported["success_rate"], ShouldAlmostEqual, 0.75, tolerance)
		})

		Convey("The latency window only keeps recent branches", func() {
			for range m.windowSize + 10 {
				m.recordBranch(time.Millisecond, true)
			}
			So(len(m.latencies), ShouldEqual, m.windowSize)
		})
	})
}
