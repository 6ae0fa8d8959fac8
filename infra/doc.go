// Package infra holds the adapters that connect the kitchen to the outside
// world: zerolog logging, Prometheus and InfluxDB sinks, the MQTT pass
// notifier and Sentry error reporting. Core packages only see them through
// their interfaces.
package infra
