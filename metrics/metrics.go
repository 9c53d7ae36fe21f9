/*
Package metrics exposes the progress of rule mining as Prometheus
collectors registered on a private registry.
*/
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "orchard"

/*
Collector gathers mining counters and durations per target. It is safe for
concurrent use and can be handed to an Orchard as its observer.
*/
type Collector struct {
	registry       *prometheus.Registry
	treesGrown     prometheus.Counter
	nodesExpanded  *prometheus.CounterVec
	nodesCreated   *prometheus.CounterVec
	rulesExtracted *prometheus.CounterVec
	targetFailures *prometheus.CounterVec
	growthDuration *prometheus.HistogramVec
}

// New returns a Collector with its collectors registered on a new registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		treesGrown: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trees_grown_total",
			Help:      "Number of rule trees grown to completion.",
		}),
		nodesExpanded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_expanded_total",
			Help:      "Number of tree nodes expanded, by target.",
		}, []string{"target"}),
		nodesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_created_total",
			Help:      "Number of child nodes added to trees, by target.",
		}, []string{"target"}),
		rulesExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rules_extracted_total",
			Help:      "Number of rules extracted from trees, by target.",
		}, []string{"target"}),
		targetFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "target_failures_total",
			Help:      "Number of targets whose rules could not be mined.",
		}, []string{"target"}),
		growthDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tree_growth_seconds",
			Help:      "Time spent growing the tree of a target.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"target"}),
	}
	c.registry.MustRegister(
		c.treesGrown,
		c.nodesExpanded,
		c.nodesCreated,
		c.rulesExtracted,
		c.targetFailures,
		c.growthDuration,
	)
	return c
}

// Registry returns the registry holding the collectors.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) NodeExpanded(target string, children int) {
	c.nodesExpanded.WithLabelValues(target).Inc()
	c.nodesCreated.WithLabelValues(target).Add(float64(children))
}

func (c *Collector) TreeGrown(target string, nodes int, elapsed time.Duration) {
	c.treesGrown.Inc()
	c.growthDuration.WithLabelValues(target).Observe(elapsed.Seconds())
}

func (c *Collector) RulesExtracted(target string, rules int) {
	c.rulesExtracted.WithLabelValues(target).Add(float64(rules))
}

func (c *Collector) TargetFailed(target string) {
	c.targetFailures.WithLabelValues(target).Inc()
}

/*
WriteToTextfile writes the current value of every collector to the file at
path in the text exposition format, as read by the node exporter textfile
collector.
*/
func (c *Collector) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
