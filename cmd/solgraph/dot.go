package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solgraph/solgraph/cfg"
	"github.com/solgraph/solgraph/dot"
	"github.com/solgraph/solgraph/network"
)

var dotCmd = &cobra.Command{
	Use:   "dot",
	Short: "Render DOT source: one function's CFG, or a whole contract's network",
	RunE: func(cmd *cobra.Command, args []string) error {
		dict, err := loadDictionary(cmd.Context())
		if err != nil {
			return err
		}
		contractID, err := resolveContract(dict)
		if err != nil {
			return err
		}

		if functionName() != "" {
			functionID, err := resolveFunction(dict, contractID)
			if err != nil {
				return err
			}
			c, l, err := cfg.New(dict, contractID, functionID)
			if err != nil {
				return fmt.Errorf("solgraph: building cfg: %w\n%s", err, l)
			}
			fmt.Println(dot.Render(c))
			return nil
		}

		n, l, err := network.New(dict, contractID)
		if err != nil {
			return fmt.Errorf("solgraph: building network: %w\n%s", err, l)
		}
		fmt.Println(dot.RenderNetwork(n))
		return nil
	},
}
