package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"go-image-forensics/internal/capability"
	"go-image-forensics/internal/config"
	"go-image-forensics/internal/engine"
	"go-image-forensics/internal/imaging"
	"go-image-forensics/internal/logger"
	"go-image-forensics/pkg/models"
)

var (
	flagJSON       bool
	flagThresholds string
	flagTags       string
)

func main() {
	root := &cobra.Command{
		Use:           "forensics",
		Short:         "Forensic image authenticity analysis",
		Long:          "Estimates the likelihood that a still image carries steganographically hidden data or has been digitally manipulated.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit the raw report as JSON")
	root.PersistentFlags().StringVar(&flagThresholds, "thresholds", "", "YAML file overriding detector thresholds")

	stegoCmd := &cobra.Command{
		Use:   "stego <image>",
		Short: "Run the steganalysis detector suite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return analyze(cmd.Context(), args[0], models.KindSteganography)
		},
	}

	manipulationCmd := &cobra.Command{
		Use:   "manipulation <image>",
		Short: "Run the manipulation detector suite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return analyze(cmd.Context(), args[0], models.KindManipulation)
		},
	}
	manipulationCmd.Flags().StringVar(&flagTags, "tags", "", "JSON file with extracted metadata tags")

	root.AddCommand(stegoCmd, manipulationCmd)

	if err := root.Execute(); err != nil {
		logger.WithError(err).Error("analysis failed")
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func analyze(ctx context.Context, path, kind string) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	thresholds := config.DefaultThresholds()
	if flagThresholds != "" {
		thresholds, err = config.LoadThresholds(flagThresholds)
		if err != nil {
			return err
		}
	}

	buf, format, err := imaging.Decode(path)
	if err != nil {
		return err
	}
	logger.WithField("format", format).Debug("image decoded")

	eng := engine.New(cfg, thresholds, capability.Default())

	var report *models.AnalysisReport
	switch kind {
	case models.KindSteganography:
		report, err = eng.AnalyzeSteganography(ctx, buf)
	case models.KindManipulation:
		tags, tagErr := loadTags(flagTags)
		if tagErr != nil {
			return tagErr
		}
		report, err = eng.AnalyzeManipulation(ctx, buf, tags)
	}
	if err != nil {
		return err
	}

	if flagJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	}

	printReport(report)
	return nil
}

func loadTags(path string) (models.TagMap, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tags file: %w", err)
	}
	var tags models.TagMap
	if err := json.Unmarshal(data, &tags); err != nil {
		return nil, fmt.Errorf("parsing tags file %s: %w", path, err)
	}
	return tags, nil
}

func printReport(report *models.AnalysisReport) {
	bold := color.New(color.Bold)

	bold.Printf("%s analysis of %dx%d image\n\n",
		report.Kind, report.ImageInfo.Width, report.ImageInfo.Height)

	names := make([]string, 0, len(report.Methods))
	for name := range report.Methods {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		result := report.Methods[name]
		if result.Errored() {
			fmt.Printf("  %-24s ", name)
			color.Yellow("error: %s", result.Error)
			continue
		}
		fmt.Printf("  %-24s ", name)
		scoreColor(result.SuspicionScore).Printf("%.3f\n", result.SuspicionScore)
	}

	fmt.Println()
	bold.Printf("  overall suspicion:      ")
	scoreColor(report.OverallSuspicion).Printf("%.3f\n", report.OverallSuspicion)
	fmt.Printf("  max suspicion:          %.3f\n", report.MaxSuspicion)
	fmt.Printf("  methods triggered:      %d\n", report.MethodsTriggered)
	bold.Printf("  interpretation:         ")
	scoreColor(report.OverallSuspicion).Println(report.Interpretation)
	if report.Degraded {
		color.Red("  report degraded: all detectors failed")
	}

	if len(report.Recommendations) > 0 {
		fmt.Println()
		bold.Println("  recommendations:")
		for _, rec := range report.Recommendations {
			fmt.Printf("   - %s\n", rec)
		}
	}
}

func scoreColor(score float64) *color.Color {
	switch {
	case score > 0.7:
		return color.New(color.FgRed)
	case score >= 0.4:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}
