package xm

import (
	"testing"

	"github.com/speccade/speccade/audio"
	"github.com/speccade/speccade/music"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleParams() music.TrackerParams {
	vol := 48
	return music.TrackerParams{
		Format:   music.FormatXM,
		BPM:      125,
		Speed:    6,
		Channels: 4,
		Instruments: []music.TrackerInstrument{
			{
				Name:     "lead",
				BaseNote: 60,
				Envelope: audio.ADSR{AttackSeconds: 0.01, DecaySeconds: 0.05, SustainLevel: 0.7, ReleaseSeconds: 0.1},
				Synth:    audio.SynthParams{Kind: audio.SynthOscillator, Waveform: audio.WaveSquare, Frequency: 440},
			},
		},
		Patterns: map[string]music.TrackerPattern{
			"intro": {
				Rows: 16,
				Data: []music.TrackerNote{
					{Row: 0, Channel: 0, Note: "C4", Inst: 0, Vol: &vol},
					{Row: 4, Channel: 0, Note: "E4", Inst: 0},
					{Row: 8, Channel: 0, Note: music.NoteOff, Inst: 0},
				},
			},
		},
		Arrangement: []music.ArrangementEntry{{Pattern: "intro", Repeat: 2}},
		SongName:    "demo",
		Title:       "demo",
	}
}

func TestSerializeRoundTripsThroughValidate(t *testing.T) {
	params := sampleParams()
	data, err := Serialize(params, 7)
	require.NoError(t, err)

	summary, err := Validate(data)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.InstrumentCount)
	assert.Equal(t, 1, summary.SampleCount)
	assert.Equal(t, 1, summary.PatternCount)
	assert.Equal(t, []int{16}, summary.PatternRows)
	assert.Equal(t, 6, summary.Tempo)
	assert.Equal(t, 125, summary.BPM)
	assert.Equal(t, 2, summary.OrderLength)
}

func TestSerializeIsDeterministic(t *testing.T) {
	params := sampleParams()
	a, err := Serialize(params, 99)
	require.NoError(t, err)
	b, err := Serialize(params, 99)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSerializeRejectsUnknownArrangementPattern(t *testing.T) {
	params := sampleParams()
	params.Arrangement = []music.ArrangementEntry{{Pattern: "missing"}}
	_, err := Serialize(params, 1)
	require.Error(t, err)
}

func TestEncodeDecodeCellRoundTrips(t *testing.T) {
	vol := 32
	effect := 10
	param := 5
	n := music.TrackerNote{Note: "A4", Inst: 3, Vol: &vol, Effect: &effect, Param: &param}

	encoded := encodeCell(n)
	decoded, consumed, err := decodeCell(encoded)
	require.NoError(t, err)
	assert.Equal(t, len(encoded), consumed)
	assert.Equal(t, "A4", decoded.Note)
	assert.Equal(t, 3, decoded.Inst)
	assert.Equal(t, 32, *decoded.Vol)
}

func TestEncodeDecodeCellElidesAbsentFields(t *testing.T) {
	n := music.TrackerNote{Note: music.NoteEmpty}
	encoded := encodeCell(n)
	assert.Equal(t, []byte{compressedFlag}, encoded)

	decoded, consumed, err := decodeCell(encoded)
	require.NoError(t, err)
	assert.Equal(t, 1, consumed)
	assert.Equal(t, music.NoteEmpty, decoded.Note)
	assert.Nil(t, decoded.Vol)
}
