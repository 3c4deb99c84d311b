// Package observability provides structured logging and Prometheus
// metrics for the engine, the HTTP API and the CLI.
package observability
