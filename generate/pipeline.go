// Package generate orchestrates the per-spec pipeline spec §2/§5
// describe: validate, dispatch by recipe.kind, generate bytes, write
// output files, and emit a manifest. It owns no DSP or serialiser
// logic of its own -- those live in audio and music -- only the
// sequencing and the file/cache/metrics side effects around them.
package generate

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"lukechampine.com/blake3"

	"github.com/speccade/speccade/audio"
	"github.com/speccade/speccade/cache"
	"github.com/speccade/speccade/internal/specerr"
	"github.com/speccade/speccade/metrics"
	"github.com/speccade/speccade/music"
	"github.com/speccade/speccade/music/compose"
	"github.com/speccade/speccade/pkg/logger"
	"github.com/speccade/speccade/report"
	"github.com/speccade/speccade/spec"
	"github.com/speccade/speccade/validate"
)

// Pipeline is the single-spec generation orchestrator. It is stateless
// beyond its collaborators, so one Pipeline value is safe to reuse
// (but not to share a single call's Run across goroutines) for many
// independent generations -- spec §5's "no shared state" property.
type Pipeline struct {
	Profile        spec.BudgetProfile
	BackendVersion string
	TargetTriple   string
	OutputDir      string

	// Cache is optional; a nil Cache disables storage. Run only stores
	// results into the cache and never looks entries up.
	Cache *cache.Store
	// Metrics is optional; a nil Metrics disables instrumentation.
	Metrics metrics.Recorder
	Log     zerolog.Logger
}

// NewPipeline constructs a Pipeline with a default console logger at
// info level. Callers that want a different logger can set p.Log
// directly after construction, or build a Pipeline struct literal
// themselves and supply one explicitly -- a zero-value zerolog.Logger
// panics on first write, so that path always requires Log.
func NewPipeline(profile spec.BudgetProfile, backendVersion, targetTriple, outputDir string) *Pipeline {
	return &Pipeline{
		Profile:        profile,
		BackendVersion: backendVersion,
		TargetTriple:   targetTriple,
		OutputDir:      outputDir,
		Log:            logger.New("info"),
	}
}

// Result is what Run returns: the manifest plus where its outputs
// landed on disk. A failed validation or generation still returns a
// Result whose Manifest.OK is false -- only the
// outputs list is empty, since spec §7 forbids flushing partial
// output for a failing spec.
type Result struct {
	Manifest report.Report
	Wrote    []string
}

// Run executes one spec end to end: validate -> dispatch -> generate
// -> write -> manifest (spec §5's fixed ordering). ctx is checked once
// before dispatch and passed to the two blocking-I/O edges (spec load is the caller's
// responsibility; output write and optional cache write happen here)
// -- it is never threaded into DSP or serialiser code.
func (p *Pipeline) Run(ctx context.Context, s spec.Spec) (*Result, error) {
	runID := uuid.New()
	start := time.Now()
	log := p.Log.With().Str("run_id", runID.String()).Str("asset_id", s.AssetID).Logger()

	specHash, err := spec.SpecHash(s)
	if err != nil {
		return nil, fmt.Errorf("generate: hashing spec: %w", err)
	}
	recipeHash, err := spec.RecipeHash(s.Recipe)
	if err != nil {
		return nil, fmt.Errorf("generate: hashing recipe: %w", err)
	}

	builder := report.NewBuilder(s, specHash, recipeHash, p.BackendVersion, p.TargetTriple, runID, start)

	log.Debug().Msg("validating spec")
	vr := validate.Spec(s, p.Profile)
	vr.Merge(validate.RequireRecipe(s))
	builder.AddErrors(vr.Errors).AddWarnings(vr.Warnings)
	if !vr.OK() {
		if p.Metrics != nil {
			for _, e := range vr.Errors {
				p.Metrics.IncValidationError(string(e.Code))
			}
			p.Metrics.IncGenerateTotal(string(s.AssetType), false)
		}
		log.Warn().Int("errors", len(vr.Errors)).Msg("spec failed validation")
		return &Result{Manifest: builder.Build(time.Now())}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generate: cancelled before dispatch: %w", err)
	}

	log.Debug().Str("recipe_kind", s.Recipe.Kind).Msg("dispatching recipe")
	outputs, genErr := p.dispatch(s)
	if genErr != nil {
		gerr := &specerr.GenerationError{Stage: "generate", Message: "recipe generation failed", Err: genErr}
		builder.AddErrors([]*specerr.SpecError{{Code: specerr.CodeGenerationFailed, Message: gerr.Error(), Path: "recipe"}})
		if p.Metrics != nil {
			p.Metrics.IncGenerateTotal(string(s.AssetType), false)
		}
		log.Error().Err(genErr).Msg("generation failed")
		return &Result{Manifest: builder.Build(time.Now())}, nil
	}

	wrote, writeErr := p.write(ctx, s, outputs)
	if writeErr != nil {
		return nil, fmt.Errorf("generate: writing outputs: %w", writeErr)
	}

	for _, o := range outputs {
		builder.AddOutput(report.OutputRecord{
			Kind:   o.Kind,
			Format: o.Format,
			Path:   o.Path,
			Hash:   hashHex(o.Bytes),
		})
	}

	manifest := builder.Build(time.Now())

	if p.Cache != nil {
		if err := p.cacheStore(ctx, s, recipeHash, manifest, outputs); err != nil {
			log.Warn().Err(err).Msg("cache store failed, continuing")
		}
	}

	if p.Metrics != nil {
		p.Metrics.ObserveGenerateDuration(string(s.AssetType), time.Since(start).Seconds())
		p.Metrics.IncGenerateTotal(string(s.AssetType), true)
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("generation complete")

	return &Result{Manifest: manifest, Wrote: wrote}, nil
}

// generatedOutput pairs one OutputSpec with its generated bytes,
// before they are written to disk or hashed into the manifest.
type generatedOutput struct {
	Kind   spec.OutputKind
	Format spec.OutputFormat
	Path   string
	Bytes  []byte
}

// dispatch generates the primary output's bytes for s.Recipe.Kind.
// Mesh/texture/UI/font recipes have no generator yet (spec.md §1:
// "remain shape-validated only") and are rejected here rather than
// silently producing nothing.
func (p *Pipeline) dispatch(s spec.Spec) ([]generatedOutput, error) {
	primary, err := primaryOutput(s.Outputs)
	if err != nil {
		return nil, err
	}

	switch spec.RecipeKindPrefix(s.Recipe.Kind) {
	case "audio":
		params, err := audio.DecodeParams(s.Recipe.Params)
		if err != nil {
			return nil, fmt.Errorf("decoding audio_v1 params: %w", err)
		}
		data, err := audio.Generate(*params, s.Seed)
		if err != nil {
			return nil, fmt.Errorf("rendering audio_v1: %w", err)
		}
		return []generatedOutput{{Kind: primary.Kind, Format: primary.Format, Path: primary.Path, Bytes: data}}, nil

	case "music":
		trackerParams, err := decodeTrackerParams(s)
		if err != nil {
			return nil, err
		}
		data, err := music.Generate(trackerParams, s.Seed)
		if err != nil {
			return nil, fmt.Errorf("serialising tracker module: %w", err)
		}
		return []generatedOutput{{Kind: primary.Kind, Format: primary.Format, Path: primary.Path, Bytes: data}}, nil

	default:
		return nil, fmt.Errorf("no generator registered for recipe kind %q", s.Recipe.Kind)
	}
}

func decodeTrackerParams(s spec.Spec) (music.TrackerParams, error) {
	switch s.Recipe.Kind {
	case "music.tracker_song_v1":
		var params music.TrackerParams
		if err := json.Unmarshal(s.Recipe.Params, &params); err != nil {
			return music.TrackerParams{}, fmt.Errorf("decoding music.tracker_song_v1 params: %w", err)
		}
		return params, nil

	case "music.tracker_song_compose_v1":
		composeParams, err := compose.DecodeParams(s.Recipe.Params)
		if err != nil {
			return music.TrackerParams{}, fmt.Errorf("decoding music.tracker_song_compose_v1 params: %w", err)
		}
		expanded, err := compose.Expand(*composeParams, s.Seed)
		if err != nil {
			return music.TrackerParams{}, fmt.Errorf("expanding compose document: %w", err)
		}
		return expanded, nil

	default:
		return music.TrackerParams{}, fmt.Errorf("unknown music recipe kind %q", s.Recipe.Kind)
	}
}

func primaryOutput(outputs []spec.OutputSpec) (spec.OutputSpec, error) {
	for _, o := range outputs {
		if o.Kind == spec.OutputPrimary {
			return o, nil
		}
	}
	return spec.OutputSpec{}, fmt.Errorf("no primary output declared")
}

// write flushes every generated output under p.OutputDir, re-checking
// the §6.6 path-safety rule defensively even though validate.Spec
// already enforced it.
func (p *Pipeline) write(ctx context.Context, s spec.Spec, outputs []generatedOutput) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var wrote []string
	for _, o := range outputs {
		if !validate.IsSafePath(o.Path) {
			return wrote, fmt.Errorf("refusing to write unsafe output path %q", o.Path)
		}
		dest := filepath.Join(p.OutputDir, s.AssetID, o.Path)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return wrote, fmt.Errorf("creating output directory: %w", err)
		}
		if err := os.WriteFile(dest, o.Bytes, 0o644); err != nil {
			return wrote, fmt.Errorf("writing %s: %w", dest, err)
		}
		wrote = append(wrote, dest)
	}
	return wrote, nil
}

func (p *Pipeline) cacheStore(ctx context.Context, s spec.Spec, recipeHash string, manifest report.Report, outputs []generatedOutput) error {
	if len(outputs) == 0 {
		return nil
	}
	reportJSON, err := json.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("marshaling manifest for cache: %w", err)
	}
	key := cache.Key(recipeHash, s.Seed, p.BackendVersion, false)
	return p.Cache.Put(ctx, key, outputs[0].Bytes, reportJSON, recipeHash, s.Seed, p.BackendVersion, false)
}

func hashHex(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
