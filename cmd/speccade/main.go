// speccade - deterministic game-asset generation pipeline CLI.
//
// Subcommands mirror the pipeline's own stages: validate a spec
// document without generating anything, generate its outputs end to
// end, check XM/IT structural parity for a tracker recipe, and print
// the cache key a spec would resolve to.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/speccade/speccade/cache"
	"github.com/speccade/speccade/generate"
	"github.com/speccade/speccade/music"
	ittracker "github.com/speccade/speccade/music/it"
	"github.com/speccade/speccade/music/xm"
	"github.com/speccade/speccade/reportexport"
	"github.com/speccade/speccade/spec"
	"github.com/speccade/speccade/validate"
)

var (
	version = "0.1.0"

	budgetProfileName string
	outputDir         string
	backendVersion    string
	targetTriple      string
	verbose           bool
	reportFormat      string
	cacheDir          string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "speccade",
		Short:   "Deterministic game-asset generation pipeline",
		Version: version,
	}
	rootCmd.PersistentFlags().StringVar(&budgetProfileName, "profile", "default", "budget profile: "+strings.Join(spec.BudgetProfileNames(), ", "))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newParityCmd())
	rootCmd.AddCommand(newCacheKeyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func createLogger() zerolog.Logger {
	if verbose {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(io.Discard)
}

func loadSpec(path string) (spec.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return spec.Spec{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var s spec.Spec
	if err := json.Unmarshal(data, &s); err != nil {
		return spec.Spec{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return s, nil
}

func budgetProfile() (spec.BudgetProfile, error) {
	profile, ok := spec.BudgetProfileByName(budgetProfileName)
	if !ok {
		return spec.BudgetProfile{}, fmt.Errorf("unknown budget profile %q (choices: %s)", budgetProfileName, strings.Join(spec.BudgetProfileNames(), ", "))
	}
	return profile, nil
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <spec.json> [specs...]",
		Short: "Validate spec document(s) without generating output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := budgetProfile()
			if err != nil {
				return err
			}

			failed := false
			for _, path := range args {
				s, err := loadSpec(path)
				if err != nil {
					fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
					failed = true
					continue
				}

				result := validate.Spec(s, profile)
				result.Merge(validate.RequireRecipe(s))

				if result.OK() {
					fmt.Printf("%s: OK", path)
					if len(result.Warnings) > 0 {
						fmt.Printf(" (%d warning(s))", len(result.Warnings))
					}
					fmt.Println()
				} else {
					failed = true
					fmt.Printf("%s: FAIL\n", path)
				}
				for _, e := range result.Errors {
					fmt.Printf("  error   [%s] %s (%s)\n", e.Code, e.Message, e.Path)
				}
				for _, w := range result.Warnings {
					fmt.Printf("  warning [%s] %s (%s)\n", w.Code, w.Message, w.Path)
				}
			}

			if failed {
				return fmt.Errorf("one or more specs failed validation")
			}
			return nil
		},
	}
	return cmd
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <spec.json> [specs...]",
		Short: "Generate outputs for spec document(s)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := budgetProfile()
			if err != nil {
				return err
			}

			p := generate.NewPipeline(profile, backendVersion, targetTriple, outputDir)
			p.Log = createLogger()
			if cacheDir != "" {
				store, err := openLocalCache(cacheDir)
				if err != nil {
					return fmt.Errorf("opening cache: %w", err)
				}
				p.Cache = store
			}

			failed := false
			for _, path := range args {
				s, err := loadSpec(path)
				if err != nil {
					fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
					failed = true
					continue
				}

				res, err := p.Run(context.Background(), s)
				if err != nil {
					fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
					failed = true
					continue
				}

				if !res.Manifest.OK {
					failed = true
					fmt.Printf("%s: FAILED\n", s.AssetID)
					for _, e := range res.Manifest.Errors {
						fmt.Printf("  error [%s] %s (%s)\n", e.Code, e.Message, e.Path)
					}
					continue
				}

				fmt.Printf("%s: generated %d output(s)\n", s.AssetID, len(res.Wrote))
				for _, w := range res.Wrote {
					fmt.Printf("  %s\n", w)
				}

				if err := writeReport(res, path); err != nil {
					fmt.Fprintf(os.Stderr, "%s: writing report: %v\n", path, err)
				}
			}

			if failed {
				return fmt.Errorf("one or more specs failed generation")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outputDir, "output", "./out", "directory to write generated assets under")
	cmd.Flags().StringVar(&backendVersion, "backend-version", version, "backend version stamped into reports")
	cmd.Flags().StringVar(&targetTriple, "target-triple", "unknown", "target triple stamped into reports")
	cmd.Flags().StringVar(&reportFormat, "report", "", "also write a report export: xlsx, pdf, or both")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "reuse outputs across runs by caching them under this directory (empty disables caching)")
	return cmd
}

// openLocalCache builds a filesystem-backed cache.Store rooted at dir,
// for a CLI invocation that wants output reuse across runs without
// standing up a shared backend the way services/speccade-worker can.
func openLocalCache(dir string) (*cache.Store, error) {
	provider, err := cache.NewProvider(cache.Config{Backend: "local", BaseDir: dir})
	if err != nil {
		return nil, err
	}
	index, err := cache.OpenIndex(filepath.Join(dir, "index.db"))
	if err != nil {
		return nil, err
	}
	return cache.NewStore(provider, index), nil
}

func writeReport(res *generate.Result, specPath string) error {
	if reportFormat == "" {
		return nil
	}
	base := strings.TrimSuffix(specPath, ".json")
	formats := strings.Split(reportFormat, ",")
	for _, f := range formats {
		switch strings.TrimSpace(f) {
		case "xlsx":
			data, err := reportexport.XLSX(res.Manifest)
			if err != nil {
				return err
			}
			if err := os.WriteFile(base+".report.xlsx", data, 0o644); err != nil {
				return err
			}
		case "pdf":
			data, err := reportexport.PDF(res.Manifest)
			if err != nil {
				return err
			}
			if err := os.WriteFile(base+".report.pdf", data, 0o644); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown report format %q", f)
		}
	}
	return nil
}

func newParityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parity <spec.json>",
		Short: "Serialize a tracker spec to both XM and IT and check structural parity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSpec(args[0])
			if err != nil {
				return err
			}
			if s.Recipe == nil || spec.RecipeKindPrefix(s.Recipe.Kind) != "music" {
				return fmt.Errorf("%s is not a music recipe", args[0])
			}

			var params music.TrackerParams
			if err := json.Unmarshal(s.Recipe.Params, &params); err != nil {
				return fmt.Errorf("decoding tracker params: %w", err)
			}

			xmParams := params
			xmParams.Format = music.FormatXM
			itParams := params
			itParams.Format = music.FormatIT

			xmBytes, err := xm.Serialize(xmParams, s.Seed)
			if err != nil {
				return fmt.Errorf("serialising XM: %w", err)
			}
			itBytes, err := ittracker.Serialize(itParams, s.Seed)
			if err != nil {
				return fmt.Errorf("serialising IT: %w", err)
			}

			xmSummary, err := xm.Validate(xmBytes)
			if err != nil {
				return fmt.Errorf("validating XM: %w", err)
			}
			itSummary, err := ittracker.Validate(itBytes)
			if err != nil {
				return fmt.Errorf("validating IT: %w", err)
			}

			report := music.CheckParityDetailed(xmSummary, itSummary)
			if report.IsParity {
				fmt.Println("parity: OK")
				return nil
			}
			fmt.Println("parity: MISMATCH")
			for _, m := range report.Mismatches {
				fmt.Printf("  %s: %s\n", m.Category, m.Message)
			}
			return fmt.Errorf("XM and IT renders differ structurally")
		},
	}
	return cmd
}

func newCacheKeyCmd() *cobra.Command {
	var preview bool
	cmd := &cobra.Command{
		Use:   "cache-key <spec.json>",
		Short: "Print the cache key a spec resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSpec(args[0])
			if err != nil {
				return err
			}
			if errs := validate.RequireRecipe(s).Errors; len(errs) > 0 {
				return fmt.Errorf("%s", errs[0].Message)
			}

			recipeHash, err := spec.RecipeHash(s.Recipe)
			if err != nil {
				return fmt.Errorf("hashing recipe: %w", err)
			}
			fmt.Println(cache.Key(recipeHash, s.Seed, backendVersion, preview))
			return nil
		},
	}
	cmd.Flags().StringVar(&backendVersion, "backend-version", version, "backend version the key is scoped to")
	cmd.Flags().BoolVar(&preview, "preview", false, "compute the preview-variant cache key")
	return cmd
}
