package main

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// config holds the defaults every subcommand falls back to when the
// matching flag isn't given, loaded from --config (solgraph.yaml by
// default) if that file exists.
type config struct {
	Manifest string `yaml:"manifest"`
	Contract string `yaml:"contract"`
	Function string `yaml:"function"`
	Format   string `yaml:"format"`
}

var (
	cfgFile      string
	loadedConfig config

	manifestFlag string
	contractFlag string
	functionFlag string
	formatFlag   string

	rootCmd = &cobra.Command{
		Use:   "solgraph",
		Short: "Static analysis over a Solidity compiler combined-json AST",
		Long: `solgraph builds per-function control flow graphs, a
cross-function data flow network, and runs security oracles over a
Solidity compiler's --combined-json ast output.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := cfgFile
			if path == "" {
				path = "solgraph.yaml"
			}
			raw, err := os.ReadFile(path)
			if err != nil {
				return nil // config file is optional; flags alone are enough
			}
			return yaml.Unmarshal(raw, &loadedConfig)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a solgraph.yaml of default flag values")
	rootCmd.PersistentFlags().StringVar(&manifestFlag, "manifest", "", "path or URI to a --combined-json ast bundle")
	rootCmd.PersistentFlags().StringVar(&contractFlag, "contract", "", "contract name to analyze")
	rootCmd.PersistentFlags().StringVar(&functionFlag, "function", "", "function name to analyze (required by cfg/dfg; dot renders the whole contract when omitted)")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "", "output format: dot, json, or text")

	rootCmd.AddCommand(cfgCmd, dfgCmd, networkCmd, oracleCmd, dotCmd)
}

func manifestPath() string {
	if manifestFlag != "" {
		return manifestFlag
	}
	return loadedConfig.Manifest
}

func contractName() string {
	if contractFlag != "" {
		return contractFlag
	}
	return loadedConfig.Contract
}

func functionName() string {
	if functionFlag != "" {
		return functionFlag
	}
	return loadedConfig.Function
}

func outputFormat(defaultFormat string) string {
	switch {
	case formatFlag != "":
		return formatFlag
	case loadedConfig.Format != "":
		return loadedConfig.Format
	default:
		return defaultFormat
	}
}
