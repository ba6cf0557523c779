package spec

// AudioBudget bounds audio_v1 generation.
type AudioBudget struct {
	MaxDurationSeconds float64
	MaxLayers          int
	MaxSamples         int64
	AllowedSampleRates []int
}

// TextureBudget bounds texture-graph shape validation.
type TextureBudget struct {
	MaxDimension int
	MaxPixels    int64
	MaxGraphNodes int
	MaxGraphDepth int
}

// MusicFormatBudget bounds a single tracker format (xm or it).
type MusicFormatBudget struct {
	MaxChannels    int
	MaxPatterns    int
	MaxInstruments int
	MaxSamples     int
	MaxRows        int
}

// MusicBudget bounds both tracker recipes.
type MusicBudget struct {
	XM                  MusicFormatBudget
	IT                  MusicFormatBudget
	MaxComposeRecursion int
	MaxCellsPerPattern  int
}

// MeshBudget bounds shape-only mesh/skeletal recipe validation.
type MeshBudget struct {
	MaxVertices int
	MaxFaces    int
	MaxBones    int
}

// GeneralBudget bounds cross-cutting limits.
type GeneralBudget struct {
	EvalTimeoutMillis int
	MaxSpecJSONBytes  int64
}

// BudgetProfile bundles per-family resource ceilings.
type BudgetProfile struct {
	Name    string
	Audio   AudioBudget
	Texture TextureBudget
	Music   MusicBudget
	Mesh    MeshBudget
	General GeneralBudget
}

// Default recipe-algebra recursion and cell ceilings (spec §3.7):
// the default, strict and nethercore profiles carry these two numbers
// and zx-8bit carries smaller ones. compose.Expand enforces its own
// fixed ceilings of 64 and 50000 and reads neither profile field, so
// a profile's smaller values are not applied.
const (
	MaxComposeRecursion = 64
	MaxCellsPerPattern  = 50000
)

var profiles = map[string]BudgetProfile{
	"default": {
		Name: "default",
		Audio: AudioBudget{
			MaxDurationSeconds: 30,
			MaxLayers:          16,
			MaxSamples:         30 * 48000 * 16,
			AllowedSampleRates: []int{22050, 44100, 48000},
		},
		Texture: TextureBudget{MaxDimension: 2048, MaxPixels: 2048 * 2048, MaxGraphNodes: 256, MaxGraphDepth: 32},
		Music: MusicBudget{
			XM:                  MusicFormatBudget{MaxChannels: 32, MaxPatterns: 256, MaxInstruments: 128, MaxSamples: 128, MaxRows: 256},
			IT:                  MusicFormatBudget{MaxChannels: 64, MaxPatterns: 200, MaxInstruments: 255, MaxSamples: 255, MaxRows: 200},
			MaxComposeRecursion: MaxComposeRecursion,
			MaxCellsPerPattern:  MaxCellsPerPattern,
		},
		Mesh:    MeshBudget{MaxVertices: 65536, MaxFaces: 131072, MaxBones: 128},
		General: GeneralBudget{EvalTimeoutMillis: 5000, MaxSpecJSONBytes: 8 * 1024 * 1024},
	},
	"strict": {
		Name: "strict",
		Audio: AudioBudget{
			MaxDurationSeconds: 10,
			MaxLayers:          8,
			MaxSamples:         10 * 48000 * 8,
			AllowedSampleRates: []int{44100, 48000},
		},
		Texture: TextureBudget{MaxDimension: 1024, MaxPixels: 1024 * 1024, MaxGraphNodes: 128, MaxGraphDepth: 16},
		Music: MusicBudget{
			XM:                  MusicFormatBudget{MaxChannels: 16, MaxPatterns: 64, MaxInstruments: 32, MaxSamples: 32, MaxRows: 128},
			IT:                  MusicFormatBudget{MaxChannels: 32, MaxPatterns: 64, MaxInstruments: 64, MaxSamples: 64, MaxRows: 128},
			MaxComposeRecursion: MaxComposeRecursion,
			MaxCellsPerPattern:  MaxCellsPerPattern,
		},
		Mesh:    MeshBudget{MaxVertices: 16384, MaxFaces: 32768, MaxBones: 64},
		General: GeneralBudget{EvalTimeoutMillis: 2000, MaxSpecJSONBytes: 2 * 1024 * 1024},
	},
	"zx-8bit": {
		Name: "zx-8bit",
		Audio: AudioBudget{
			MaxDurationSeconds: 5,
			MaxLayers:          2,
			MaxSamples:         5 * 22050 * 2,
			AllowedSampleRates: []int{22050},
		},
		Texture: TextureBudget{MaxDimension: 256, MaxPixels: 256 * 256, MaxGraphNodes: 32, MaxGraphDepth: 8},
		Music: MusicBudget{
			XM:                  MusicFormatBudget{MaxChannels: 4, MaxPatterns: 32, MaxInstruments: 16, MaxSamples: 16, MaxRows: 64},
			IT:                  MusicFormatBudget{MaxChannels: 4, MaxPatterns: 32, MaxInstruments: 16, MaxSamples: 16, MaxRows: 64},
			MaxComposeRecursion: 16,
			MaxCellsPerPattern:  4096,
		},
		Mesh:    MeshBudget{MaxVertices: 1024, MaxFaces: 2048, MaxBones: 16},
		General: GeneralBudget{EvalTimeoutMillis: 500, MaxSpecJSONBytes: 256 * 1024},
	},
	"nethercore": {
		Name: "nethercore",
		Audio: AudioBudget{
			MaxDurationSeconds: 120,
			MaxLayers:          64,
			MaxSamples:         120 * 48000 * 64,
			AllowedSampleRates: []int{22050, 44100, 48000},
		},
		Texture: TextureBudget{MaxDimension: 4096, MaxPixels: 4096 * 4096, MaxGraphNodes: 1024, MaxGraphDepth: 64},
		Music: MusicBudget{
			XM:                  MusicFormatBudget{MaxChannels: 32, MaxPatterns: 256, MaxInstruments: 128, MaxSamples: 128, MaxRows: 256},
			IT:                  MusicFormatBudget{MaxChannels: 64, MaxPatterns: 200, MaxInstruments: 255, MaxSamples: 255, MaxRows: 200},
			MaxComposeRecursion: MaxComposeRecursion,
			MaxCellsPerPattern:  MaxCellsPerPattern,
		},
		Mesh:    MeshBudget{MaxVertices: 262144, MaxFaces: 524288, MaxBones: 256},
		General: GeneralBudget{EvalTimeoutMillis: 15000, MaxSpecJSONBytes: 32 * 1024 * 1024},
	},
}

// BudgetProfileByName looks up a named profile.
func BudgetProfileByName(name string) (BudgetProfile, bool) {
	p, ok := profiles[name]
	return p, ok
}

// BudgetProfileNames lists every named profile, for CLI help text and tests.
func BudgetProfileNames() []string {
	return []string{"default", "strict", "zx-8bit", "nethercore"}
}
