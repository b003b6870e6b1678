// Command makeupctl runs the recommendation engine from the terminal.
//
//	makeupctl resolve --skin-tone Medium --undertone warm
//	makeupctl variations --skin-tone Deep --count 3
//	makeupctl looks --skin-tone Fair --undertone cool --eye-color Blue
//	makeupctl analyze selfie.jpg --output yaml
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var outputFormat string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "makeupctl",
		Short:         "Complexion lookups, occasion looks and selfie analysis",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch outputFormat {
			case "json", "yaml":
				return nil
			default:
				return fmt.Errorf("unsupported --output %q (want json or yaml)", outputFormat)
			}
		},
	}
	root.PersistentFlags().StringVarP(&outputFormat, "output", "o", "json", "output format: json or yaml")

	root.AddCommand(
		newResolveCmd(),
		newVariationsCmd(),
		newLooksCmd(),
		newAnalyzeCmd(),
	)
	return root
}

func render(w io.Writer, v any) error {
	switch strings.ToLower(outputFormat) {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}
