package main

import (
	"fmt"
	"strings"

	"bytemomo/harpoon/internal/exploit"
	"bytemomo/harpoon/internal/modules"

	"github.com/spf13/cobra"
)

func newModulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List the exploit modules in selection order",
		Run: func(cmd *cobra.Command, args []string) {
			modules.Init()
			out := cmd.OutOrStdout()
			for _, m := range exploit.List() {
				fmt.Fprintf(out, "   - %s (%s) --- services: %s, ports: %v\n", m.ID, m.Name, strings.Join(m.Services, ","), m.Ports)
				if m.Description != "" {
					fmt.Fprintf(out, "        %s\n", m.Description)
				}
			}
		},
	}
}
