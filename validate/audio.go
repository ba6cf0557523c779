package validate

import (
	"fmt"

	"github.com/speccade/speccade/audio"
	"github.com/speccade/speccade/internal/specerr"
	"github.com/speccade/speccade/spec"
)

// AudioRecipePass runs the audio_v1 budget and recipe-shape checks
// (spec §4.2): duration/sample-rate/layer/sample-count ceilings,
// per-layer LFO target constraints, wavetable voice/detune bounds, and
// the requirement that at least one primary output is WAV.
func AudioRecipePass(params *audio.Params, outputs []spec.OutputSpec, budget spec.AudioBudget) *Result {
	r := &Result{}

	if params.DurationSeconds > budget.MaxDurationSeconds {
		r.AddError(specerr.CodeBudgetDuration, "recipe.params.duration_seconds",
			fmt.Sprintf("duration_seconds %.3f exceeds budget max %.3f", params.DurationSeconds, budget.MaxDurationSeconds))
	}

	if !containsInt(budget.AllowedSampleRates, params.SampleRate) {
		r.AddError(specerr.CodeBudgetSampleRate, "recipe.params.sample_rate",
			fmt.Sprintf("sample_rate %d not in allowed set %v", params.SampleRate, budget.AllowedSampleRates))
	}

	if len(params.Layers) > budget.MaxLayers {
		r.AddError(specerr.CodeBudgetLayers, "recipe.params.layers",
			fmt.Sprintf("%d layers exceeds budget max %d", len(params.Layers), budget.MaxLayers))
	}

	totalSamples := int64(params.DurationSeconds * float64(params.SampleRate))
	if totalSamples > budget.MaxSamples {
		r.AddError(specerr.CodeBudgetSamples, "recipe.params",
			fmt.Sprintf("total samples %d exceeds budget max %d", totalSamples, budget.MaxSamples))
	}

	for i, layer := range params.Layers {
		path := fmt.Sprintf("recipe.params.layers[%d]", i)
		validateLayerLFO(layer, path, r)
		validateLayerSynth(layer, path, r)
	}

	validateStereoWidener(params.StereoWidener, r)

	hasPrimaryWAV := false
	for _, out := range outputs {
		if out.Kind == spec.OutputPrimary && out.Format == spec.FormatWAV {
			hasPrimaryWAV = true
		}
	}
	if !hasPrimaryWAV {
		r.AddError(specerr.CodeNoPrimaryOutput, "outputs", "audio_v1 requires at least one primary output of format wav")
	}

	return r
}

// validateStereoWidener checks the post-mix widener's documented
// ranges (spec §4.7): width must fall in [0,2], and delay_ms -- which
// only applies in Haas mode -- must fall in [0.1,50] when declared.
func validateStereoWidener(w *audio.StereoWidenerParams, r *Result) {
	if w == nil {
		return
	}
	if w.Width < 0 || w.Width > 2 {
		r.AddError(specerr.CodeBudgetWidener, "recipe.params.stereo_widener.width",
			fmt.Sprintf("width %.3f outside [0,2]", w.Width))
	}
	if w.Mode == audio.WidenerHaas && w.DelayMs != 0 && (w.DelayMs < 0.1 || w.DelayMs > 50) {
		r.AddError(specerr.CodeBudgetWidener, "recipe.params.stereo_widener.delay_ms",
			fmt.Sprintf("delay_ms %.3f outside [0.1,50] for haas mode", w.DelayMs))
	}
}

func validateLayerLFO(layer audio.Layer, path string, r *Result) {
	if layer.LFO == nil {
		return
	}
	lfoPath := path + ".lfo"

	if layer.LFO.Depth < 0 || layer.LFO.Depth > 1 {
		r.AddError(specerr.CodeBudgetLFO, lfoPath+".depth", fmt.Sprintf("lfo depth %.3f outside [0,1]", layer.LFO.Depth))
	}

	switch layer.LFO.Target {
	case audio.TargetFilterCutoff:
		if layer.Filter == nil {
			r.AddError(specerr.CodeBudgetLFO, lfoPath+".target", "target filter_cutoff requires the layer to declare a filter")
		}
	case audio.TargetFMIndex:
		if layer.Synth.Kind != audio.SynthFM || layer.Synth.FMIndex == 0 {
			r.AddError(specerr.CodeBudgetLFO, lfoPath+".target", "target fm_index requires an fm synth with non-zero fm_index")
		}
	case audio.TargetGrainSize, audio.TargetGrainDensity:
		if layer.Synth.Kind != audio.SynthGranular {
			r.AddError(specerr.CodeBudgetLFO, lfoPath+".target", fmt.Sprintf("target %s requires a granular synth", layer.LFO.Target))
		} else if layer.Synth.GrainSizeMs == 0 && layer.Synth.GrainDensityHz == 0 {
			r.AddError(specerr.CodeBudgetLFO, lfoPath+".target", fmt.Sprintf("target %s requires non-zero grain parameters", layer.LFO.Target))
		}
	}
}

func validateLayerSynth(layer audio.Layer, path string, r *Result) {
	if layer.Synth.Kind != audio.SynthWavetable {
		return
	}
	synthPath := path + ".synth"

	if layer.Synth.UnisonVoices != 0 && (layer.Synth.UnisonVoices < 1 || layer.Synth.UnisonVoices > 8) {
		r.AddError(specerr.CodeBudgetLayers, synthPath+".unison_voices",
			fmt.Sprintf("unison_voices %d outside [1,8]", layer.Synth.UnisonVoices))
	}
	if layer.Synth.UnisonDetune < 0 || layer.Synth.UnisonDetune > 100 {
		r.AddError(specerr.CodeBudgetLayers, synthPath+".unison_detune_cents",
			fmt.Sprintf("unison_detune_cents %.3f outside documented [0,100] bound", layer.Synth.UnisonDetune))
	}
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
