package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"majordomo/internal/tools"
	"majordomo/internal/tools/assistant"
)

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the registered tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := tools.NewRegistry(log)
			if err := assistant.RegisterAll(registry, assistant.Deps{}); err != nil {
				return err
			}

			for _, name := range registry.Names() {
				tool, err := registry.Lookup(name)
				if err != nil {
					return err
				}
				line := fmt.Sprintf("%-20s %s", tool.Name, tool.Description)
				if tool.DataCategory != "" {
					line += fmt.Sprintf(" [sensitive: %s]", tool.DataCategory)
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}
