package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solgraph/solgraph/network"
	"github.com/solgraph/solgraph/oracle"
)

var oracleCmd = &cobra.Command{
	Use:   "oracle",
	Short: "Run the built-in security oracles against a contract",
	RunE: func(cmd *cobra.Command, args []string) error {
		dict, err := loadDictionary(cmd.Context())
		if err != nil {
			return err
		}
		contractID, err := resolveContract(dict)
		if err != nil {
			return err
		}

		n, l, err := network.New(dict, contractID)
		if err != nil {
			return fmt.Errorf("solgraph: building network: %w\n%s", err, l)
		}

		findings := oracle.Run(n, oracle.All()...)

		if outputFormat("text") == "json" {
			enc := json.NewEncoder(cmdOut)
			enc.SetIndent("", "  ")
			return enc.Encode(findings)
		}

		if len(findings) == 0 {
			fmt.Fprintln(cmdOut, "no findings")
			return nil
		}
		for _, f := range findings {
			fmt.Fprintf(cmdOut, "[%s] %s at function %d, node %d: %s\n", f.Severity, f.Rule, f.FunctionID, f.VertexID, f.Message)
		}
		return nil
	},
}
