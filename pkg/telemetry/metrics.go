package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "rcbot"

// ReportFunc returns the current report.
type ReportFunc func() Report

// Collector exposes the reports as Prometheus metrics.
type Collector struct {
	report ReportFunc

	frames  *prometheus.Desc
	resyncs *prometheus.Desc
	skipped *prometheus.Desc
	body    *prometheus.Desc
	arm     *prometheus.Desc
	gripper *prometheus.Desc
	gripTgt *prometheus.Desc
}

// NewCollector creates a Collector sampling fn on every scrape.
func NewCollector(fn ReportFunc) *Collector {
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(metricsNamespace, "", name), help, labels, nil)
	}
	return &Collector{
		report:  fn,
		frames:  desc("link_frames_total", "Valid frames received."),
		resyncs: desc("link_resyncs_total", "Framing errors recovered by resynchronization."),
		skipped: desc("link_skipped_bytes_total", "Bytes discarded while searching for a frame start."),
		body:    desc("body_power", "Drivetrain power.", "side"),
		arm:     desc("arm_power", "Arm power.", "axis"),
		gripper: desc("gripper_position", "Smoothed gripper position."),
		gripTgt: desc("gripper_target", "Gripper target position."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.frames
	ch <- c.resyncs
	ch <- c.skipped
	ch <- c.body
	ch <- c.arm
	ch <- c.gripper
	ch <- c.gripTgt
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	r := c.report()
	s := r.Actuator
	ch <- prometheus.MustNewConstMetric(c.frames, prometheus.CounterValue, float64(r.Link.Frames))
	ch <- prometheus.MustNewConstMetric(c.resyncs, prometheus.CounterValue, float64(r.Link.Resyncs))
	ch <- prometheus.MustNewConstMetric(c.skipped, prometheus.CounterValue, float64(r.Link.Skipped))
	ch <- prometheus.MustNewConstMetric(c.body, prometheus.GaugeValue, s.Body.Left, "left")
	ch <- prometheus.MustNewConstMetric(c.body, prometheus.GaugeValue, s.Body.Right, "right")
	ch <- prometheus.MustNewConstMetric(c.arm, prometheus.GaugeValue, s.ArmHorizontal, "horizontal")
	ch <- prometheus.MustNewConstMetric(c.arm, prometheus.GaugeValue, s.ArmVertical, "vertical")
	ch <- prometheus.MustNewConstMetric(c.gripper, prometheus.GaugeValue, s.Gripper)
	ch <- prometheus.MustNewConstMetric(c.gripTgt, prometheus.GaugeValue, s.GripperTarget)
}

// NewRegistry creates a registry with the runtime collectors and c.
func NewRegistry(c *Collector) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c,
	)
	return reg
}

// MetricsServer serves /metrics.
type MetricsServer struct {
	Addr     string
	Registry *prometheus.Registry
}

// Handler returns the metrics HTTP handler.
func (s *MetricsServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{Registry: s.Registry}))
	return mux
}

// Run implements Runnable.
func (s *MetricsServer) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.Addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		glog.Infof("Metrics on %s/metrics", s.Addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			glog.Warningf("metrics shutdown error: %v", err)
		}
		return ctx.Err()
	}
}
