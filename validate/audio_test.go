package validate

import (
	"testing"

	"github.com/speccade/speccade/audio"
	"github.com/speccade/speccade/spec"
	"github.com/stretchr/testify/assert"
)

func validAudioParams() *audio.Params {
	return &audio.Params{
		DurationSeconds: 2,
		SampleRate:      44100,
		Layers: []audio.Layer{
			{Synth: audio.SynthParams{Kind: audio.SynthOscillator, Waveform: audio.WaveSine, Frequency: 440}, Volume: 1},
		},
	}
}

func audioOutputs() []spec.OutputSpec {
	return []spec.OutputSpec{{Kind: spec.OutputPrimary, Format: spec.FormatWAV, Path: "out.wav"}}
}

func TestAudioRecipePassAcceptsValidParams(t *testing.T) {
	budget, _ := spec.BudgetProfileByName("default")
	r := AudioRecipePass(validAudioParams(), audioOutputs(), budget.Audio)
	assert.True(t, r.OK())
}

func TestAudioRecipePassRejectsDurationOverBudget(t *testing.T) {
	budget, _ := spec.BudgetProfileByName("zx-8bit")
	params := validAudioParams()
	params.DurationSeconds = 60
	r := AudioRecipePass(params, audioOutputs(), budget.Audio)
	assert.False(t, r.OK())
}

func TestAudioRecipePassRejectsDisallowedSampleRate(t *testing.T) {
	budget, _ := spec.BudgetProfileByName("zx-8bit")
	params := validAudioParams()
	params.SampleRate = 96000
	r := AudioRecipePass(params, audioOutputs(), budget.Audio)
	assert.False(t, r.OK())
}

func TestAudioRecipePassRejectsFilterCutoffLFOWithoutFilter(t *testing.T) {
	budget, _ := spec.BudgetProfileByName("default")
	params := validAudioParams()
	params.Layers[0].LFO = &audio.LayerLFO{Waveform: audio.LFOSine, RateHz: 1, Depth: 0.5, Target: audio.TargetFilterCutoff}
	r := AudioRecipePass(params, audioOutputs(), budget.Audio)
	assert.False(t, r.OK())
}

func TestAudioRecipePassRequiresPrimaryWAVOutput(t *testing.T) {
	budget, _ := spec.BudgetProfileByName("default")
	outputs := []spec.OutputSpec{{Kind: spec.OutputMetadata, Format: spec.FormatJSON, Path: "meta.json"}}
	r := AudioRecipePass(validAudioParams(), outputs, budget.Audio)
	assert.False(t, r.OK())
}

func TestAudioRecipePassRejectsWidenerWidthOutOfRange(t *testing.T) {
	budget, _ := spec.BudgetProfileByName("default")
	params := validAudioParams()
	params.StereoWidener = &audio.StereoWidenerParams{Mode: audio.WidenerSimple, Width: 3}
	r := AudioRecipePass(params, audioOutputs(), budget.Audio)
	assert.False(t, r.OK())
}

func TestAudioRecipePassRejectsHaasDelayOutOfRange(t *testing.T) {
	budget, _ := spec.BudgetProfileByName("default")
	params := validAudioParams()
	params.StereoWidener = &audio.StereoWidenerParams{Mode: audio.WidenerHaas, Width: 1, DelayMs: 100}
	r := AudioRecipePass(params, audioOutputs(), budget.Audio)
	assert.False(t, r.OK())
}

func TestAudioRecipePassAcceptsZeroHaasDelayAsDisabled(t *testing.T) {
	budget, _ := spec.BudgetProfileByName("default")
	params := validAudioParams()
	params.StereoWidener = &audio.StereoWidenerParams{Mode: audio.WidenerHaas, Width: 1, DelayMs: 0}
	r := AudioRecipePass(params, audioOutputs(), budget.Audio)
	assert.True(t, r.OK())
}
