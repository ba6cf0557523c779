package music

import "github.com/speccade/speccade/audio"

// InstrumentSampleRate is the fixed sample rate tracker instrument
// PCM is rendered at; real trackers keep per-sample rates but
// SpecCade's deterministic pipeline only needs one rate consistent
// across every instrument in a module.
const InstrumentSampleRate = 22050

// RenderInstrumentPCM renders one instrument's synthesis shape through
// its ADSR envelope into signed 8-bit PCM, the sample format both the
// XM and IT serialisers embed (spec §4.10). The RNG is derived from
// (seed, salt) so re-rendering the same instrument under the same
// salt always produces the same bytes.
func RenderInstrumentPCM(inst TrackerInstrument, seed uint32, salt string) []int8 {
	envelope := inst.Envelope
	duration := envelope.AttackSeconds + envelope.DecaySeconds + envelope.ReleaseSeconds + 0.1
	if duration < 0.1 {
		duration = 0.1
	}
	numSamples := int(duration * InstrumentSampleRate)
	if numSamples < 1 {
		numSamples = 1
	}

	rng := audio.RNGForSalt(seed, salt)
	synth := audio.BuildSynth(inst.Synth)
	samples := synth.Synthesize(numSamples, InstrumentSampleRate, rng)
	env := envelope.Render(numSamples, InstrumentSampleRate)

	volumeScale := float64(inst.DefaultVolume) / 64.0
	if inst.DefaultVolume == 0 {
		volumeScale = 1.0
	}

	pcm := make([]int8, numSamples)
	for i, s := range samples {
		v := s * env[i] * volumeScale
		if v > 1 {
			v = 1
		}
		if v < -1 {
			v = -1
		}
		pcm[i] = int8(v * 127)
	}
	return pcm
}

// DeltaEncode8 converts raw signed 8-bit PCM to the delta-encoded form
// trackers store on disk: each byte is the wrapped difference from the
// previous decoded sample, so decoding is a cumulative sum.
func DeltaEncode8(pcm []int8) []byte {
	out := make([]byte, len(pcm))
	var prev int8
	for i, v := range pcm {
		out[i] = byte(v - prev)
		prev = v
	}
	return out
}

// DeltaDecode8 inverts DeltaEncode8.
func DeltaDecode8(data []byte) []int8 {
	out := make([]int8, len(data))
	var prev int8
	for i, d := range data {
		prev = prev + int8(d)
		out[i] = prev
	}
	return out
}
