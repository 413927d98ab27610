// Package server provides the HTTP API for monitoring the breathing
// app: health, engine state, configuration, and Prometheus metrics.
package server
