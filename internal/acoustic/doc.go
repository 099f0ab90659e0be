// Package acoustic models active sonar propagation to underwater targets.
//
// Responsibilities: the linear sound-speed profile, a fixed fan of
// single-bounce ray paths, the frequency-modulated transmit pulse, and
// synthesis of the composite multipath return (per-path delay,
// attenuation and Doppler stretch, plus sensor noise).
// Key types: Config, SoundSpeedProfile, RayPath, RayTracer, Pulse,
// Synthesizer.
//
// Depth is metres, positive down from the surface, in every type and
// function of this package.
//
// Stochastic calls take an explicit *rand.Rand; there is no package
// generator. Callers running simulations concurrently give each its own
// seeded generator.
package acoustic
