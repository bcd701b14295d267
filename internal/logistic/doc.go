// Package logistic implements the stochastic logistic population model.
//
// The population n(t) follows the discretized recurrence
//
//	n' = max(0, n + r·n·(1−n/K)·dt + a(n)·√dt·ξ)
//
// where ξ is a standard Gaussian increment and the noise amplitude a(n)
// depends on the regime:
//
//   - [Environmental]: a(n) = σ·n (fluctuating external conditions)
//   - [Demographic]:   a(n) = σ·√n (discrete birth/death fluctuations)
//
// A trajectory that reaches exactly zero is extinct and stays at zero.
//
// # Reproducibility
//
// Every trajectory draws from its own generator seeded with
// (base seed + trajectory index), so ensembles are bit-identical for a
// given seed and config regardless of how the runs are scheduled.
//
// # Thread Safety
//
// Simulator instances are safe for concurrent trajectory runs; all mutable
// state lives in the per-trajectory [Walker].
package logistic
