// Package store provides abstractions for the four persisted collections:
// mental slots, daily exercises, configuration entries and the singleton
// casillero session. Implementations live under internal/platform.
package store
