// Package services contains stateless domain services that operate across
// aggregates. The CyclePlanner computes order timelines (batch cycle
// window, buffer end and the floor-dependent delivery deadline) from the
// submission time and destination floor.
package services
