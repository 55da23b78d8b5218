// Package service implements the application's core operations over the
// store interfaces: the rolling casillero review session, the daily
// exercise lifecycle (setup, memorize, prepare, test, results) and the
// user-facing settings.
package service
