// Package analysis inspects recorded orbit traces.
//
// A body's x coordinate over time is a sinusoid whose period is the
// body's orbital period, so the strongest bin of its power spectrum gives
// the period in frames:
//
//	xs, _ := trace.Series("Earth", "x")
//	frames, ok := analysis.OrbitalPeriod(xs)
//
// [ExpectedPeriod] gives the same figure from the clock settings.
package analysis
