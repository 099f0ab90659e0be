// Package scenario produces ground truth for a simulation run and scores
// tracker output against it.
//
// Targets move at constant velocity; range is clipped to [0, max range]
// and depth (positive down) to [0, max depth] after each step. Bearing
// measurements are atan2(cross-range, range) plus Gaussian noise drawn
// from a caller-supplied generator.
package scenario
