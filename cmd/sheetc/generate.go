package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vogtb/sheetc/internal/config"
	"github.com/vogtb/sheetc/internal/emitter"
	"github.com/vogtb/sheetc/internal/filewb"
	"github.com/vogtb/sheetc/internal/pipeline"
)

// generateFlags backs the `generate` subcommand's pflag set, overriding
// whatever the TOML config supplied (config.Load runs first, flags win).
type generateFlags struct {
	configPath string
	workbook   string
	target     string
	outPath    string
	inputTabs  []string
	outputTabs []string
	dryRun     bool
	verbose    bool
}

func newGenerateCmd(log *logrus.Logger) *cobra.Command {
	flags := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Compile a workbook fixture into generated source",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(log, flags)
		},
	}

	fs := pflag.NewFlagSet("generate", pflag.ContinueOnError)
	fs.StringVar(&flags.configPath, "config", "", "path to a TOML config file")
	fs.StringVar(&flags.workbook, "workbook", "", "path to a workbook JSON fixture (overrides config)")
	fs.StringVar(&flags.target, "target", "", "generated-source target: go or python (overrides config)")
	fs.StringVar(&flags.outPath, "out", "", "output file path; '-' or empty writes to stdout")
	fs.StringSliceVar(&flags.inputTabs, "input-tabs", nil, "tabs whose literal cells seed from the input record (overrides config)")
	fs.StringSliceVar(&flags.outputTabs, "output-tabs", nil, "tabs included in the output record (overrides config)")
	fs.BoolVar(&flags.dryRun, "dry-run", false, "parse and analyze only, report cycles, write nothing")
	fs.BoolVar(&flags.verbose, "verbose", false, "enable debug logging")
	cmd.Flags().AddFlagSet(fs)

	return cmd
}

func runGenerate(log *logrus.Logger, flags *generateFlags) error {
	if flags.verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg := &config.Config{}
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if flags.workbook != "" {
		cfg.Workbook = flags.workbook
	}
	if flags.target != "" {
		cfg.Target = config.Target(flags.target)
	}
	if len(flags.inputTabs) > 0 {
		cfg.InputTabs = flags.inputTabs
	}
	if len(flags.outputTabs) > 0 {
		cfg.OutputTabs = flags.outputTabs
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Workbook == "" {
		return fmt.Errorf("sheetc: no workbook source given (--workbook or config)")
	}

	loader := filewb.NewLoader(cfg.Workbook)
	wb, err := loader.Load(context.Background())
	if err != nil {
		return err
	}

	backend, err := backendFor(cfg.Target)
	if err != nil {
		return err
	}

	emitCfg := emitter.Config{InputTabs: cfg.InputTabs, OutputTabs: cfg.OutputTabs}
	p := pipeline.New(backend, emitCfg, log)

	if flags.dryRun {
		_, report, err := p.Run(wb)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"cells_compiled":  report.CellsCompiled,
			"cycles_detected": report.CyclesDetected,
			"parse_warnings":  len(report.ParseWarnings),
			"missing_sheets":  len(report.MissingSheets),
		}).Info("dry run complete")
		return nil
	}

	out, report, err := p.Run(wb)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"cells_compiled":  report.CellsCompiled,
		"cycles_detected": report.CyclesDetected,
		"missing_sheets":  len(report.MissingSheets),
	}).Info("generation complete")

	if flags.outPath == "" || flags.outPath == "-" {
		_, err = os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(flags.outPath, out, 0o644)
}

func backendFor(target config.Target) (emitter.Backend, error) {
	switch target {
	case config.TargetGo:
		return emitter.GoBackend{}, nil
	case config.TargetPython:
		return emitter.PythonBackend{}, nil
	default:
		return nil, fmt.Errorf("sheetc: unknown target %q", target)
	}
}
