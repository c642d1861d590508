// Package dynamo provides the ODE primitives shared by the kinetics engine,
// the integrators and the simulation driver.
//
// The package defines:
//
//   - [State]: concentration vector, index-aligned with species slots
//   - [System]: right-hand side dX/dt = f(X, t)
//   - [Stepper]: single-step numerical scheme
//   - [Integrator]: produces one state per requested time point
//   - [Config]: solver tolerances and step limits
//
// # Example
//
//	net, _ := kinetics.Load(spec, kinetics.Options{})
//	integ := integrators.NewAdaptive(integrators.NewRK45(), dynamo.DefaultConfig())
//	rows, _ := integ.Integrate(ctx, net, x0, times)
//
// # Thread Safety
//
// A System handed to an Integrator must be safe for the duration of one
// Integrate call. Integrators keep scratch buffers and are NOT safe to share
// between goroutines; create one per run.
package dynamo
