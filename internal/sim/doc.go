// Package sim drives a compiled reaction network through an ODE integrator
// and collects the sampled trajectory.
package sim
