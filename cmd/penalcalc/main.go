// penalcalc prints calculation memorials from the command line.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/warp/dosimetry-engine/catalog"
	"github.com/warp/dosimetry-engine/dosimetry"
	"github.com/warp/dosimetry-engine/fine"
	"github.com/warp/dosimetry-engine/penal"
	"github.com/warp/dosimetry-engine/report"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose     bool
	catalogPath string

	// Execution and fine flags
	base          penal.Duration
	fractionLabel string
	fractionValue string
	mode          string
	fineDate      string
	fineDays      int

	// Dosimetry flags
	inputFile string

	// Fractions flags
	listFines bool

	logger *zap.Logger
	cat    *catalog.Catalog
)

var rootCmd = &cobra.Command{
	Use:   "penalcalc",
	Short: "Sentence calculator: execution fractions, dosimetry and fines",
	Long: `penalcalc computes sentence arithmetic on the penal calendar
(360-day years, 30-day months) and prints the calculation memorial.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cat, err = openCatalog(catalogPath)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var executionCmd = &cobra.Command{
	Use:   "execution",
	Short: "Apply a fraction to a base sentence",
	Long: `Applies a fraction to the base sentence and prints the memorial.

Example:
  penalcalc execution --years 8 --fraction 1/6
  penalcalc execution --years 3 --fraction Remição --value 1/3 --mode subtracao`,
	RunE: runExecution,
}

var dosimetryCmd = &cobra.Command{
	Use:   "dosimetry",
	Short: "Run the three-phase dosimetry from a JSON file",
	Long: `Reads a dosimetry request (the body accepted by POST /api/dosimetry)
from a file, or stdin with -f -, and prints the memorial.`,
	RunE: runDosimetry,
}

var fineCmd = &cobra.Command{
	Use:   "fine",
	Short: "Price a fine against the minimum wage on the offence date",
	Long: `Example:
  penalcalc fine --date 2023-06-10 --days 15 --fraction "1/30 (Mínimo Legal)"`,
	RunE: runFine,
}

var fractionsCmd = &cobra.Command{
	Use:   "fractions",
	Short: "List catalog fractions",
	RunE:  runFractions,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Catalog YAML file (default: embedded)")

	executionCmd.Flags().IntVar(&base.Years, "years", 0, "Base sentence years")
	executionCmd.Flags().IntVar(&base.Months, "months", 0, "Base sentence months")
	executionCmd.Flags().IntVar(&base.Days, "days", 0, "Base sentence days")
	executionCmd.Flags().StringVar(&fractionLabel, "fraction", "", "Fraction label (required)")
	executionCmd.Flags().StringVar(&fractionValue, "value", "", "Explicit fraction value (a/b, N% or decimal)")
	executionCmd.Flags().StringVar(&mode, "mode", string(report.ModeSum), "soma or subtracao")
	executionCmd.MarkFlagRequired("fraction")

	dosimetryCmd.Flags().StringVarP(&inputFile, "file", "f", "", "Dosimetry JSON file, - for stdin (required)")
	dosimetryCmd.MarkFlagRequired("file")

	fineCmd.Flags().StringVar(&fineDate, "date", "", "Offence date YYYY-MM-DD (required)")
	fineCmd.Flags().IntVar(&fineDays, "days", 10, "Number of day-fines")
	fineCmd.Flags().StringVar(&fractionLabel, "fraction", "", "Fine fraction label (required)")
	fineCmd.Flags().StringVar(&fractionValue, "value", "", "Explicit fraction value")
	fineCmd.MarkFlagRequired("date")
	fineCmd.MarkFlagRequired("fraction")

	fractionsCmd.Flags().BoolVar(&listFines, "fines", false, "List fine fractions instead")

	rootCmd.AddCommand(executionCmd, dosimetryCmd, fineCmd, fractionsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runExecution(cmd *cobra.Command, args []string) error {
	m, err := report.ParseMode(mode)
	if err != nil {
		return err
	}
	if err := base.Validate(); err != nil {
		return err
	}
	f, err := cat.Resolve(fractionLabel, fractionValue)
	if err != nil {
		return err
	}

	result := penal.CalculateExecution(base, f)
	logger.Debug("execution calculated",
		zap.Int("base_days", penal.ToDays(base)),
		zap.Stringer("fraction", f),
		zap.Int("result_days", penal.ToDays(result)))

	_, err = io.WriteString(cmd.OutOrStdout(), report.GenerateMemoryString(base, f.String(), result, m))
	return err
}

func runDosimetry(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if inputFile != "-" {
		f, err := os.Open(inputFile)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	var req dosimetry.Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return fmt.Errorf("failed to parse %s: %w", inputFile, err)
	}
	phase2, phase3, err := req.Inputs(cat)
	if err != nil {
		return err
	}

	state := dosimetry.Calculate(req.BasePenalty, phase2, phase3)
	logger.Debug("dosimetry calculated", zap.Int("final_days", penal.ToDays(state.Final())))

	_, err = io.WriteString(cmd.OutOrStdout(), report.DosimetryMemorial(state))
	return err
}

func runFine(cmd *cobra.Command, args []string) error {
	f, err := cat.ResolveFine(fractionLabel, fractionValue)
	if err != nil {
		return err
	}
	res, err := fine.Compute(cat.MinimumWages, fineDate, fineDays, f)
	if err != nil {
		return err
	}

	_, err = io.WriteString(cmd.OutOrStdout(), report.FineMemorial(res))
	return err
}

func runFractions(cmd *cobra.Command, args []string) error {
	fs := cat.ExecutionFractions
	if listFines {
		fs = cat.FineFractions
	}
	out := cmd.OutOrStdout()
	for _, f := range fs {
		if _, err := fmt.Fprintf(out, "%-40s %d/%d\n", f.Label, f.Num, f.Den); err != nil {
			return err
		}
	}
	return nil
}

func openCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return catalog.Load(f)
}
