// Command sheetc compiles a spreadsheet workbook fixture into generated
// host-language source. It is a thin cobra/pflag CLI wrapper around
// internal/pipeline: a single root command with config-file-plus-flag
// override.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vogtb/sheetc/internal/logging"
)

func main() {
	log := logging.New(false)

	if err := newRootCmd(log).Execute(); err != nil {
		log.WithError(err).Error("sheetc failed")
		os.Exit(1)
	}
}

func newRootCmd(log *logrus.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "sheetc",
		Short: "Compile a spreadsheet workbook into generated source",
	}
	root.AddCommand(newGenerateCmd(log))
	return root
}
