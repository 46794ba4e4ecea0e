package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solgraph/solgraph/cfg"
	"github.com/solgraph/solgraph/dfg"
)

var dfgCmd = &cobra.Command{
	Use:   "dfg",
	Short: "Print one function's data flow links",
	RunE: func(cmd *cobra.Command, args []string) error {
		dict, err := loadDictionary(cmd.Context())
		if err != nil {
			return err
		}
		contractID, err := resolveContract(dict)
		if err != nil {
			return err
		}
		functionID, err := resolveFunction(dict, contractID)
		if err != nil {
			return err
		}

		c, l, err := cfg.New(dict, contractID, functionID)
		if err != nil {
			return fmt.Errorf("solgraph: building cfg: %w\n%s", err, l)
		}
		g := dfg.New(c)

		enc := json.NewEncoder(cmdOut)
		enc.SetIndent("", "  ")
		return enc.Encode(dfgJSON{Links: g.Links})
	},
}

type dfgJSON struct {
	Links []dfg.DataLink `json:"links"`
}
