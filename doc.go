// Package anyangle finds any-angle paths on grids of blocked and open tiles.
//
// Paths run between tile corners and may cross open space at any angle, so
// they are usually shorter than paths restricted to the eight grid
// directions. The package offers several families of searches behind one
// entry point:
//
//   - Search: solve one problem with the chosen Algorithm and get a Result.
//   - SearchBatch: solve many problems on one map across worker goroutines.
//   - Stepper: replay a recorded search one snapshot at a time to drive UIs
//     or debugging tools.
//
// Anya is the default and returns optimal any-angle paths. The Theta*
// variants trade optimality for speed; A*, Dijkstra and jump point search
// return eight-connected paths; the visibility graph searches are exact
// baselines.
//
// Searches are traced with OpenTelemetry, counted in Prometheus metrics and
// logged through log/slog.
package anyangle
