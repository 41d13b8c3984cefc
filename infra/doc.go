// Package infra contains technical adapters such as the task file codec,
// the MQTT publisher, metrics exporters and the Sentry monitor. These
// packages should depend only on the interfaces defined in the core
// packages.
package infra
