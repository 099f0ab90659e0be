// Package report writes the artefacts of a simulation run: a results JSON
// file, PNG figures rendered with gonum/plot and an interactive HTML chart
// rendered with go-echarts.
//
// Every function takes plain slices so report has no dependency on the
// filter or propagation packages beyond their exported value types.
package report
