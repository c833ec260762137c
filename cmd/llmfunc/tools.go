package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jimmymills/llmfunctionclient/tools"
	"github.com/jimmymills/llmfunctionclient/tools/builtin"
)

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the descriptors of the builtin tools",
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry := tools.NewRegistry(builtin.All()...)
			descriptors, err := registry.Descriptors()
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(descriptors, "", "  ")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
