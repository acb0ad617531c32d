package prom

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	xhttp "github.com/nimasrn/transaction-dashboard/pkg/http"
	"github.com/nimasrn/transaction-dashboard/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	SystemHTTP        = "http"
	SystemSeed        = "seed"
	SystemAggregation = "aggregation"
)
const (
	MetricRequestDuration = "request_duration_seconds"
	MetricSeedRecords     = "records_total"
	MetricSeedFailures    = "failures_total"
	MetricBandFailures    = "band_failures_total"
	MetricCacheLookups    = "cache_lookups_total"
)

const (
	TypeCounter      = "counter"
	TypeCounterVec   = "counterVec"
	TypeHistogramVec = "histogramVec"
)

var lockCreateMetricLock = &sync.Mutex{}
var namespace = "none"

var MetricSystemEnabled = false

var MetricCollectionCounters = make(map[string]prometheus.Counter)
var MetricCollectionCounterVec = make(map[string]*prometheus.CounterVec)
var MetricCollectionHistogramVec = make(map[string]*prometheus.HistogramVec)

var defaultLabels prometheus.Labels
var registerer prometheus.Registerer = prometheus.DefaultRegisterer
var gatherer prometheus.Gatherer = prometheus.DefaultGatherer

func Create(host string, env string, nameSpace string) error {
	return CreateWithRegistry(prometheus.DefaultRegisterer, prometheus.DefaultGatherer, host, env, nameSpace)
}

// CreateWithRegistry registers every service metric on reg and enables the
// recording helpers.
func CreateWithRegistry(reg prometheus.Registerer, g prometheus.Gatherer, host string, env string, nameSpace string) error {
	registerer = reg
	gatherer = g
	defaultLabels = make(prometheus.Labels)
	defaultLabels["env"] = env
	defaultLabels["instance"] = host
	namespace = nameSpace

	var err error
	hasError := func(e error) {
		if err == nil && e != nil {
			err = e
		}
	}

	hasError(CreateMetric(TypeHistogramVec, SystemHTTP, MetricRequestDuration, "route", "method", "status"))
	hasError(CreateMetric(TypeCounter, SystemSeed, MetricSeedRecords))
	hasError(CreateMetric(TypeCounter, SystemSeed, MetricSeedFailures))
	hasError(CreateMetric(TypeCounterVec, SystemAggregation, MetricBandFailures, "range"))
	hasError(CreateMetric(TypeCounterVec, SystemAggregation, MetricCacheLookups, "kind", "result"))

	if err == nil {
		MetricSystemEnabled = true
	}
	return err
}

func CreateMetric(metricType, metricSubsystem, metricName string, labelsValues ...string) error {
	switch metricType {
	case TypeCounter:
		return createCounter(metricSubsystem, metricName)
	case TypeCounterVec:
		return createCounterVec(metricSubsystem, metricName, labelsValues)
	case TypeHistogramVec:
		return createHistogramVec(metricSubsystem, metricName, labelsValues)
	}
	return fmt.Errorf("metric type %s is not defined", metricType)
}

func Handler() xhttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}

func ListenAndServer(addr string, url string) {
	s := xhttp.CreateServer()
	s.GET(url, Handler())
	logger.Info("[metrics-server] listening...", "addr", addr, "url", url)
	if err := s.ListenAndServe(addr); err != nil {
		logger.Error("[metrics-server] http listen error", "error", err)
	}
}

func createCounter(subsystem, name string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	MetricCollectionCounters[subsystem+name] = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        subsystem + " " + name,
		ConstLabels: defaultLabels,
	})
	return registerer.Register(MetricCollectionCounters[subsystem+name])
}

func createCounterVec(subsystem, name string, labels []string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	MetricCollectionCounterVec[subsystem+name] = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        subsystem + " " + name,
		ConstLabels: defaultLabels,
	}, labels)
	return registerer.Register(MetricCollectionCounterVec[subsystem+name])
}

func createHistogramVec(subsystem, name string, labels []string) error {
	lockCreateMetricLock.Lock()
	defer lockCreateMetricLock.Unlock()
	MetricCollectionHistogramVec[subsystem+name] = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		Help:        subsystem + " " + name,
		ConstLabels: defaultLabels,
		Buckets:     prometheus.DefBuckets,
	}, labels)
	return registerer.Register(MetricCollectionHistogramVec[subsystem+name])
}

func IncCounter(subsystem, name string) {
	AddCounter(subsystem, name, 1)
}

func AddCounter(subsystem, name string, number float64) {
	if !MetricSystemEnabled {
		return
	}
	if v, ok := MetricCollectionCounters[subsystem+name]; ok {
		v.Add(number)
		return
	}
	logger.Warn("[metrics-server] counter not found", "subsystem", subsystem, "name", name)
}

func AddCounterVec(subsystem, name string, num float64, labelValues ...string) {
	if !MetricSystemEnabled {
		return
	}
	if v, ok := MetricCollectionCounterVec[subsystem+name]; ok {
		v.WithLabelValues(labelValues...).Add(num)
		return
	}
	logger.Warn("[metrics-server] counter vec not found", "subsystem", subsystem, "name", name)
}

func IncCounterVec(subsystem, name string, labelValues ...string) {
	AddCounterVec(subsystem, name, 1, labelValues...)
}

func AddHistogramVec(subsystem, name string, number float64, labelValues ...string) {
	if !MetricSystemEnabled {
		return
	}
	if v, ok := MetricCollectionHistogramVec[subsystem+name]; ok {
		v.WithLabelValues(labelValues...).Observe(number)
		return
	}
	logger.Warn("[metrics-server] histogram vec not found", "subsystem", subsystem, "name", name)
}

func ObserveHTTPRequest(route, method string, status int, latency time.Duration) {
	AddHistogramVec(SystemHTTP, MetricRequestDuration, latency.Seconds(), route, method, strconv.Itoa(status))
}

func AddSeedRecords(n int) {
	AddCounter(SystemSeed, MetricSeedRecords, float64(n))
}

func IncSeedFailure() {
	IncCounter(SystemSeed, MetricSeedFailures)
}

func IncBandFailure(priceRange string) {
	IncCounterVec(SystemAggregation, MetricBandFailures, priceRange)
}

func IncCacheLookup(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	IncCounterVec(SystemAggregation, MetricCacheLookups, kind, result)
}
