package audio

import "fmt"

// Generate renders a fully decoded audio_v1 params document into WAV
// bytes. Deterministic under (params, seed): mixes every layer, applies
// the optional master filter and post-mix stereo widener, detects and
// crossfades loop points when requested, then encodes PCM16/24 WAV
// (spec §4.7/§4.8). Params must already have passed validate.Spec;
// Generate does not re-check budgets.
func Generate(params Params, seed uint32) ([]byte, error) {
	numSamples := int(params.DurationSeconds * float64(params.SampleRate))
	if numSamples < 1 {
		return nil, fmt.Errorf("audio: duration_seconds * sample_rate must yield at least one sample")
	}

	rng := RNGForSalt(seed, "mix")
	buf := MixLayers(params.Layers, numSamples, float64(params.SampleRate), rng)

	if params.MasterFilter != nil && params.MasterFilter.Kind != FilterNone {
		applyMasterFilter(buf, *params.MasterFilter, float64(params.SampleRate))
	}

	if params.StereoWidener != nil {
		ApplyStereoWidener(buf, *params.StereoWidener, float64(params.SampleRate), RNGForSalt(seed, "widen"))
	}

	if params.GenerateLoopPoints {
		cfg := LoopConfig{}
		if params.LoopConfigValue != nil {
			cfg = *params.LoopConfigValue
		}
		points := DetectLoopPoints(buf, cfg, float64(params.SampleRate))
		ApplyLoopCrossfade(buf, points, cfg.CrossfadeMs, float64(params.SampleRate))
	}

	return EncodeWAV(buf, params.SampleRate, params.EffectiveBitDepth())
}

// applyMasterFilter runs the whole stereo buffer through one filter
// instance per channel, reusing the same FilterKind dispatch as
// per-layer pre-filters (buildLayerFilter) so a master filter behaves
// identically to a layer filter applied after the mix.
func applyMasterFilter(buf *StereoBuffer, fp FilterParams, sampleRate float64) {
	lFilter, lLadder, lComb, lFormant := buildLayerFilter(fp, sampleRate)
	rFilter, rLadder, rComb, rFormant := buildLayerFilter(fp, sampleRate)

	for i := range buf.Left {
		buf.Left[i] = processThrough(buf.Left[i], lFilter, lLadder, lComb, lFormant)
		buf.Right[i] = processThrough(buf.Right[i], rFilter, rLadder, rComb, rFormant)
	}
}

func processThrough(v float64, filter *Biquad, ladder *Ladder, comb *Comb, formant *FormantBank) float64 {
	switch {
	case filter != nil:
		return filter.Process(v)
	case ladder != nil:
		return ladder.Process(v)
	case comb != nil:
		return comb.Process(v)
	case formant != nil:
		return formant.Process(v)
	default:
		return v
	}
}
