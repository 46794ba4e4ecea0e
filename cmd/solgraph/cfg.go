package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solgraph/solgraph/cfg"
	"github.com/solgraph/solgraph/dot"
)

var cfgCmd = &cobra.Command{
	Use:   "cfg",
	Short: "Print one function's control flow graph",
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

		switch outputFormat("dot") {
		case "json":
			return printCFGJSON(c)
		default:
			fmt.Println(dot.Render(c))
			return nil
		}
	},
}

type cfgJSON struct {
	Vertices []cfg.Vertex `json:"vertices"`
	Edges    []cfg.Edge   `json:"edges"`
}

func printCFGJSON(c *cfg.CFG) error {
	out := cfgJSON{}
	for _, v := range c.Vertices() {
		out.Vertices = append(out.Vertices, v)
	}
	for e := range c.Edges() {
		out.Edges = append(out.Edges, e)
	}
	enc := json.NewEncoder(cmdOut)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
