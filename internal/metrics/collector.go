package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "orbital"

// Collector exports optimizer and flight instrumentation to Prometheus.
// It satisfies optim.Monitor.
type Collector struct {
	evaluations    *prometheus.CounterVec
	evaluationTick *prometheus.HistogramVec
	generations    *prometheus.CounterVec
	bestFitness    *prometheus.GaugeVec
	meanFitness    *prometheus.GaugeVec
	searchDuration *prometheus.GaugeVec
	searches       *prometheus.CounterVec
	flights        *prometheus.CounterVec
	flightTime     *prometheus.HistogramVec
	feedClients    prometheus.Gauge
	feedFrames     *prometheus.CounterVec
}

// NewCollector creates the metrics and registers them with reg, or with
// the default registerer when reg is nil.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "evaluations_total",
				Help:      "Candidate flights simulated by the optimizer",
			},
			[]string{"body", "outcome"},
		),
		evaluationTick: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "evaluation_ticks",
				Help:      "Simulation ticks per candidate flight",
				Buckets:   prometheus.ExponentialBuckets(10, 4, 8),
			},
			[]string{"body"},
		),
		generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generations_total",
				Help:      "Optimizer generations completed",
			},
			[]string{"body"},
		),
		bestFitness: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "best_fitness_km",
				Help:      "Distance from target of the best candidate so far",
			},
			[]string{"body"},
		),
		meanFitness: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "mean_fitness_km",
				Help:      "Mean distance from target of the last generation",
			},
			[]string{"body"},
		),
		searchDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "search_elapsed_seconds",
				Help:      "Wall time spent in the running search",
			},
			[]string{"body"},
		),
		searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_total",
				Help:      "Search lifecycle events",
			},
			[]string{"body", "status"},
		),
		flights: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "flights_total",
				Help:      "Completed live or batch flights",
			},
			[]string{"body", "outcome"},
		),
		flightTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "flight_time_seconds",
				Help:      "Simulated duration of completed flights",
				Buckets:   prometheus.ExponentialBuckets(60, 2, 10),
			},
			[]string{"body"},
		),
		feedClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "feed_clients",
				Help:      "Connected websocket feed clients",
			},
		),
		feedFrames: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "feed_frames_total",
				Help:      "Snapshot frames offered to the feed",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(
		c.evaluations,
		c.evaluationTick,
		c.generations,
		c.bestFitness,
		c.meanFitness,
		c.searchDuration,
		c.searches,
		c.flights,
		c.flightTime,
		c.feedClients,
		c.feedFrames,
	)
	return c
}

func (c *Collector) RecordEvaluation(body, outcome string, ticks int) {
	c.evaluations.WithLabelValues(body, outcome).Inc()
	c.evaluationTick.WithLabelValues(body).Observe(float64(ticks))
}

func (c *Collector) RecordGeneration(body string, best, mean float64, elapsed time.Duration) {
	c.generations.WithLabelValues(body).Inc()
	c.bestFitness.WithLabelValues(body).Set(best)
	c.meanFitness.WithLabelValues(body).Set(mean)
	c.searchDuration.WithLabelValues(body).Set(elapsed.Seconds())
}

func (c *Collector) RecordSearch(body, status string) {
	c.searches.WithLabelValues(body, status).Inc()
}

func (c *Collector) RecordFlight(body, outcome string, flightTime float64) {
	c.flights.WithLabelValues(body, outcome).Inc()
	c.flightTime.WithLabelValues(body).Observe(flightTime)
}

// FeedClients tracks the number of connected feed clients.
func (c *Collector) FeedClients(n int) {
	c.feedClients.Set(float64(n))
}

// RecordFrame counts a feed frame as "sent" or "throttled".
func (c *Collector) RecordFrame(result string) {
	c.feedFrames.WithLabelValues(result).Inc()
}
