package mcp

import (
	"github.com/ka2n/recview/api"
	"github.com/spf13/cobra"
)

// Command returns the MCP server command. newService builds the service from
// the executing command's flags.
func Command(newService func(cmd *cobra.Command) (*api.Service, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server",
		Long:  "Serve the record tools over the Model Context Protocol on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newService(cmd)
			if err != nil {
				return err
			}
			return NewServer(s).Run()
		},
	}
}
