package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/praetorian-inc/conch/internal/message"
)

var docDir string

var docCmd = &cobra.Command{
	Use:   "gendoc",
	Short: "Generate Markdown documentation",
	Long:  `Generate Markdown documentation for the CLI and its subcommands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		excludedCmds := []string{"gendoc", "completion"}
		for _, c := range rootCmd.Commands() {
			for _, e := range excludedCmds {
				if c.Name() == e {
					rootCmd.RemoveCommand(c)
					break
				}
			}
		}

		if err := os.MkdirAll(docDir, 0755); err != nil {
			return err
		}
		if err := doc.GenMarkdownTree(rootCmd, docDir); err != nil {
			return err
		}
		message.Success("Documentation generated in %s", docDir)
		return nil
	},
}

func init() {
	docCmd.Flags().StringVarP(&docDir, "dir", "d", "./docs", "output directory")
	rootCmd.AddCommand(docCmd)
}
