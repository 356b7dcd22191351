// Package metrics holds the Prometheus collectors of the service.
// HTTP collectors register themselves; the rest are registered from main.
package metrics

// Namespace prefixes every metric name.
const Namespace = "laptopmatch"
