// Package metrics defines Prometheus counters for login attempts and their
// outcomes, registered with the default registry.
package metrics
