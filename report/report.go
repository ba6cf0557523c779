// Package report builds the per-asset manifest (spec §6.5) that a
// generation run emits alongside its binary outputs.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/speccade/speccade/internal/specerr"
	"github.com/speccade/speccade/spec"
)

// OutputRecord describes one produced file.
type OutputRecord struct {
	Kind    spec.OutputKind   `json:"kind"`
	Format  spec.OutputFormat `json:"format"`
	Path    string            `json:"path"`
	Hash    string            `json:"hash,omitempty"`
	Metrics map[string]any    `json:"metrics,omitempty"`
	Preview string            `json:"preview,omitempty"`
}

// ErrorRecord is the wire shape of a SpecError/BudgetError in the
// report.
type ErrorRecord struct {
	Code    specerr.Code `json:"code"`
	Message string       `json:"message"`
	Path    string       `json:"path,omitempty"`
}

// WarningRecord is the wire shape of a Warning in the report.
type WarningRecord struct {
	Code    specerr.Code `json:"code"`
	Message string       `json:"message"`
	Path    string       `json:"path,omitempty"`
}

const ReportVersion = 1

// Report is the manifest document spec §6.5 requires: one per
// generation run, deterministic given the same spec, seed, and
// backend version.
type Report struct {
	ReportVersion  int             `json:"report_version"`
	RunID          uuid.UUID       `json:"run_id"`
	AssetID        string          `json:"asset_id"`
	AssetType      spec.AssetType  `json:"asset_type"`
	License        string          `json:"license"`
	Seed           uint32          `json:"seed"`
	SpecHash       string          `json:"spec_hash"`
	RecipeHash     string          `json:"recipe_hash"`
	OK             bool            `json:"ok"`
	Errors         []ErrorRecord   `json:"errors"`
	Warnings       []WarningRecord `json:"warnings"`
	Outputs        []OutputRecord  `json:"outputs"`
	DurationMillis int64           `json:"duration_ms"`
	BackendVersion string          `json:"backend_version"`
	TargetTriple   string          `json:"target_triple"`
	VariantID      string          `json:"variant_id,omitempty"`
	BaseSpecHash   string          `json:"base_spec_hash,omitempty"`
}

// Builder accumulates the fields of one in-progress report across a
// pipeline run.
type Builder struct {
	report Report
	start  time.Time
}

// NewBuilder seeds a Builder from a validated spec's identity fields.
// runID and now are supplied by the caller rather than generated here
// (report.Build must stay a pure function of its inputs).
func NewBuilder(s spec.Spec, specHash, recipeHash, backendVersion, targetTriple string, runID uuid.UUID, now time.Time) *Builder {
	return &Builder{
		start: now,
		report: Report{
			ReportVersion:  ReportVersion,
			RunID:          runID,
			AssetID:        s.AssetID,
			AssetType:      s.AssetType,
			License:        s.License,
			Seed:           s.Seed,
			SpecHash:       specHash,
			RecipeHash:     recipeHash,
			BackendVersion: backendVersion,
			TargetTriple:   targetTriple,
		},
	}
}

// WithVariant stamps the report as belonging to a spec variant (spec
// §6.5: variant reports set variant_id and base_spec_hash to the
// parent spec's hash).
func (b *Builder) WithVariant(variantID, baseSpecHash string) *Builder {
	b.report.VariantID = variantID
	b.report.BaseSpecHash = baseSpecHash
	return b
}

// AddErrors appends validation/generation errors to the report.
func (b *Builder) AddErrors(errs []*specerr.SpecError) *Builder {
	for _, e := range errs {
		b.report.Errors = append(b.report.Errors, ErrorRecord{Code: e.Code, Message: e.Message, Path: e.Path})
	}
	return b
}

// AddWarnings appends validation warnings to the report.
func (b *Builder) AddWarnings(warns []*specerr.Warning) *Builder {
	for _, w := range warns {
		b.report.Warnings = append(b.report.Warnings, WarningRecord{Code: w.Code, Message: w.Message, Path: w.Path})
	}
	return b
}

// AddOutput records one produced file.
func (b *Builder) AddOutput(o OutputRecord) *Builder {
	b.report.Outputs = append(b.report.Outputs, o)
	return b
}

// Build finalizes the report: ok is true iff no errors were
// accumulated, duration_ms is measured against the time passed to
// NewBuilder and the finishedAt the caller supplies.
func (b *Builder) Build(finishedAt time.Time) Report {
	b.report.OK = len(b.report.Errors) == 0
	b.report.DurationMillis = finishedAt.Sub(b.start).Milliseconds()
	return b.report
}
