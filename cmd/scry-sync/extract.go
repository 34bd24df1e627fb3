package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/phrazzld/scry-sync/internal/marker"
)

// ExtractCmd lists the cards found in one document.
type ExtractCmd struct {
	Path string `arg:"" help:"Markdown document to scan" type:"existingfile"`
	JSON bool   `help:"Print cards as JSON"`
}

// Run implements the extract command.
func (c *ExtractCmd) Run(rt *runtime) error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.Path, err)
	}

	cards := marker.Extract(string(data), c.Path)

	if c.JSON {
		enc := json.NewEncoder(rt.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cards)
	}

	for i, card := range cards {
		if i > 0 {
			fmt.Fprintln(rt.stdout)
		}
		fmt.Fprintf(rt.stdout, "%s\n", card)
	}
	fmt.Fprintf(rt.stdout, "\n%d cards\n", len(cards))
	return nil
}
