// Package audio implements SpecCade's deterministic DSP core
// (audio_v1): oscillators, noise, sweeps, filters, the closed set of
// synthesis variants, modulation, the mixer/stereo stage, loop point
// detection, and the WAV encoder. Every exported generator is a pure
// function of its parameters and RNG state so that identical input
// always produces bit-identical output.
package audio

import (
	"encoding/binary"

	"lukechampine.com/blake3"
)

// PCG32 is a small, fast, statistically strong PRNG, deterministic
// given its 64-bit state. This is the sole source of randomness for
// every stochastic DSP operation.
type PCG32 struct {
	state uint64
	inc   uint64
}

const pcg32Multiplier = 6364136223846793005

// NewPCG32 seeds a generator from a 64-bit seed and a 64-bit stream
// selector, following the reference PCG32 initialisation sequence.
func NewPCG32(seed, sequence uint64) *PCG32 {
	r := &PCG32{}
	r.inc = (sequence << 1) | 1
	r.step()
	r.state += seed
	r.step()
	return r
}

func (r *PCG32) step() {
	r.state = r.state*pcg32Multiplier + r.inc
}

// Uint32 returns the next pseudo-random 32-bit value.
func (r *PCG32) Uint32() uint32 {
	oldState := r.state
	r.step()
	xorshifted := uint32(((oldState >> 18) ^ oldState) >> 27)
	rot := uint32(oldState >> 59)
	return (xorshifted >> rot) | (xorshifted << ((-rot) & 31))
}

// Float64 returns a uniform value in [0, 1).
func (r *PCG32) Float64() float64 {
	return float64(r.Uint32()) / 4294967296.0
}

// Uniform returns a uniform value in [lo, hi).
func (r *PCG32) Uniform(lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// Signed returns a uniform value in [-1, 1).
func (r *PCG32) Signed() float64 {
	return r.Uniform(-1, 1)
}

// DeriveSeed hashes (baseSeed, salt) into a 64-bit child seed, so the
// same salt for the same (recipe path, op tag, variant name) always
// yields the same stream, independent of evaluation order (spec §3.8,
// §9 "RNG derivation").
func DeriveSeed(baseSeed uint32, salt string) uint64 {
	h := blake3.New(8, nil)
	var seedBytes [4]byte
	binary.LittleEndian.PutUint32(seedBytes[:], baseSeed)
	h.Write(seedBytes[:])
	h.Write([]byte(salt))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// RNGForSalt builds a PCG32 child stream directly from (baseSeed, salt).
func RNGForSalt(baseSeed uint32, salt string) *PCG32 {
	child := DeriveSeed(baseSeed, salt)
	return NewPCG32(child, child>>32|1)
}
