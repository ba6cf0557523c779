// Package specerr defines the four error kinds of SpecCade's error
// handling design: SpecError, BudgetError, GenerationError and
// EncoderError, each carrying a stable code so callers can match on it
// without parsing messages.
package specerr

import "fmt"

// Code is a stable diagnostic code of the form "E###" or "W###".
type Code string

// Shape-pass and cross-cutting error codes (see spec §4.2, §7).
const (
	CodeBadSpecVersion     Code = "E001"
	CodeBadAssetID         Code = "E002"
	CodeBadAssetType       Code = "E003"
	CodeSeedOutOfRange     Code = "E004"
	CodeNoOutputs          Code = "E005"
	CodeNoPrimaryOutput    Code = "E006"
	CodeDuplicateOutputPath Code = "E007"
	CodeUnsafePath         Code = "E008"
	CodeExtensionMismatch  Code = "E009"
	CodeRecipeKindPrefix   Code = "E010"
	CodeMissingRecipe      Code = "E011"
	CodeUnknownField       Code = "E012"
	CodeNonFiniteNumber    Code = "E013"
	CodeRecipeParamsInvalid Code = "E014"

	CodeBudgetDuration   Code = "E017"
	CodeBudgetSampleRate Code = "E018"
	CodeBudgetLayers     Code = "E019"
	CodeBudgetSamples    Code = "E020"
	CodeBudgetLFO        Code = "E021"
	CodeBudgetChannels   Code = "E022"
	CodeBudgetRows       Code = "E023"
	CodeBudgetCells      Code = "E024"
	CodeBudgetRecursion  Code = "E025"
	CodeBudgetWidener    Code = "E026"

	CodeUnknownPattern    Code = "E030"
	CodeUnknownInstrument Code = "E031"
	CodeRefCycle          Code = "E032"
	CodeRecursionLimit    Code = "E033"
	CodeCellLimit         Code = "E034"
	CodeInvalidExpr       Code = "E035"

	// CodeGenerationFailed reports a recipe-specific runtime failure
	// surviving validation -- a GenerationError surfaced through the
	// report's error list (spec §7: "generation errors short-circuit
	// with stage name attached").
	CodeGenerationFailed Code = "E090"

	WarnEmptyLicense Code = "W001"
)

// SpecError reports that a spec failed shape or recipe-specific
// validation.
type SpecError struct {
	Code    Code
	Message string
	Path    string
}

func (e *SpecError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Warning is a non-fatal diagnostic using the W### code family.
type Warning struct {
	Code    Code
	Message string
	Path    string
}

func (w *Warning) Error() string {
	if w.Path != "" {
		return fmt.Sprintf("%s: %s (%s)", w.Code, w.Message, w.Path)
	}
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
}

// BudgetError reports that a resource limit was exceeded.
type BudgetError struct {
	Category string
	Limit    string
	Actual   float64
	Maximum  float64
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf("budget exceeded: %s.%s actual=%v max=%v", e.Category, e.Limit, e.Actual, e.Maximum)
}

// GenerationError reports a recipe-specific runtime failure not caught
// at validation time.
type GenerationError struct {
	Stage   string
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed at %s: %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("generation failed at %s: %s", e.Stage, e.Message)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// EncoderError reports a writer failing to lay out bytes. Any
// occurrence is a bug in a component that should have been caught by
// validation.
type EncoderError struct {
	Format  string
	Message string
	Err     error
}

func (e *EncoderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("encoder error (%s): %s: %v", e.Format, e.Message, e.Err)
	}
	return fmt.Sprintf("encoder error (%s): %s", e.Format, e.Message)
}

func (e *EncoderError) Unwrap() error { return e.Err }
