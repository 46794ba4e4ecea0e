package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solgraph/solgraph/dot"
	"github.com/solgraph/solgraph/network"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Print a contract's cross-function call graph",
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

		switch outputFormat("dot") {
		case "json":
			enc := json.NewEncoder(cmdOut)
			enc.SetIndent("", "  ")
			return enc.Encode(networkJSON{Links: n.Links()})
		default:
			fmt.Println(dot.RenderNetwork(n))
			return nil
		}
	},
}

type networkJSON struct {
	Links []network.DataLink `json:"links"`
}
