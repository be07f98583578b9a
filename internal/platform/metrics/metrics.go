package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	registry       *prometheus.Registry
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	upstreamCalls  *prometheus.CounterVec
	upstreamTiming *prometheus.HistogramVec
	mutations      *prometheus.CounterVec
	jobRuns        *prometheus.CounterVec
	jobDuration    *prometheus.HistogramVec
}

func New() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrmportal_http_requests_total",
			Help: "Portal HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hrmportal_http_request_duration_seconds",
			Help:    "Portal HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrmportal_hrapi_calls_total",
			Help: "HR API calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		upstreamTiming: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hrmportal_hrapi_call_duration_seconds",
			Help:    "HR API call latency by operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrmportal_mutations_total",
			Help: "Mutation attempts by control and outcome.",
		}, []string{"control", "outcome"}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hrmportal_job_runs_total",
			Help: "Housekeeping job runs by job and outcome.",
		}, []string{"job", "outcome"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hrmportal_job_duration_seconds",
			Help:    "Housekeeping job latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),
	}
	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.upstreamCalls,
		c.upstreamTiming,
		c.mutations,
		c.jobRuns,
		c.jobDuration,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) Record(method, route string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) ObserveUpstream(operation, outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	c.upstreamCalls.WithLabelValues(operation, outcome).Inc()
	c.upstreamTiming.WithLabelValues(operation).Observe(duration.Seconds())
}

func (c *Collector) ObserveMutation(control, outcome string) {
	if c == nil {
		return
	}
	c.mutations.WithLabelValues(control, outcome).Inc()
}

func (c *Collector) ObserveJob(name, outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	c.jobRuns.WithLabelValues(name, outcome).Inc()
	c.jobDuration.WithLabelValues(name).Observe(duration.Seconds())
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
