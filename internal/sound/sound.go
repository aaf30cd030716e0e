// © 2025 Klang Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package sound models signals as lazily evaluated functions of time. No
// samples exist until a sampler pulls them, so arbitrarily long signals cost
// nothing to build and combine.
package sound

import (
	"math"
)

// Sound is a signal: amplitude as a function of time in seconds.
type Sound func(t float64) float64

// Const is the constant signal v. Real operands of sound arithmetic
// broadcast through it.
func Const(v float64) Sound {
	return func(t float64) float64 { return v }
}

// Sin is a sine wave at the given frequency in Hz, unit amplitude, zero
// phase.
func Sin(frequency float64) Sound {
	return func(t float64) float64 {
		return math.Sin(2 * math.Pi * frequency * t)
	}
}

// Linear ramps from x0 at t=0 to x1 at t=t1 and keeps the same slope past
// t1.
func Linear(x0 float64, x1 float64, t1 float64) Sound {
	slope := (x1 - x0) / t1
	return func(t float64) float64 {
		return x0 + slope*t
	}
}

// Exp is the unit-intercept exponential decay with time constant tau:
// e^(-t/tau).
func Exp(tau float64) Sound {
	coefficient := 1 / tau
	return func(t float64) float64 {
		return math.Exp(-coefficient * t)
	}
}

// Mix sums two signals.
func Mix(a Sound, b Sound) Sound {
	return func(t float64) float64 { return a(t) + b(t) }
}

// Mul multiplies two signals pointwise, which is ring modulation when both
// are audible and plain gain when one is constant.
func Mul(a Sound, b Sound) Sound {
	return func(t float64) float64 { return a(t) * b(t) }
}

// Gain scales a signal by a constant factor.
func Gain(s Sound, factor float64) Sound {
	return func(t float64) float64 { return factor * s(t) }
}

// Invert flips a signal's sign.
func Invert(s Sound) Sound {
	return func(t float64) float64 { return -s(t) }
}

// Shift delays a signal by dt seconds; a negative dt advances it. Times
// before the shifted origin sample as silence.
func Shift(s Sound, dt float64) Sound {
	return func(t float64) float64 {
		if t < dt {
			return 0
		}
		return s(t - dt)
	}
}
