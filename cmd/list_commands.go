package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/conch/internal/message"
	"github.com/praetorian-inc/conch/internal/registry"
	"github.com/praetorian-inc/conch/pkg/option"
)

var listCommandsCmd = &cobra.Command{
	Use:   "list-commands",
	Short: "Display the shell commands in a tree structure",
	Run: func(cmd *cobra.Command, args []string) {
		displayCommandTree(cmd.OutOrStdout(), registry.Registry)
	},
}

func displayCommandTree(w io.Writer, r *registry.CommandRegistry) {
	hierarchy := r.GetHierarchy()
	namespaces := r.Namespaces()
	for i, namespace := range namespaces {
		fmt.Fprintf(w, "\n%s\n", message.Emphasize(namespace))

		for _, name := range hierarchy[namespace] {
			entry, ok := r.GetRegistryEntry(name)
			if !ok {
				continue
			}
			d := entry.Descriptor
			label := d.Name
			if len(d.Aliases) > 0 {
				label += " (" + strings.Join(d.Aliases, ", ") + ")"
			}
			fmt.Fprintf(w, "├─ %s - %s\n", label, d.Description)

			opts := entry.Command.Options().Options()
			for j, opt := range opts {
				branch := "├─"
				if j == len(opts)-1 {
					branch = "└─"
				}
				fmt.Fprintf(w, "│  %s %s - %s\n", branch, optionLabel(opt), opt.Description())
			}
		}

		if i < len(namespaces)-1 {
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintln(w)
}

func optionLabel(opt *option.Option) string {
	var names []string
	if opt.Name() != "" {
		names = append(names, "-"+opt.Name())
	}
	if opt.HasLongName() {
		names = append(names, "--"+opt.LongName())
	}
	label := strings.Join(names, ", ")
	if opt.HasValue() {
		valueName := "arg"
		if opt.HasValueName() {
			valueName = opt.ValueName()
		}
		label += " <" + valueName + ">"
	}
	if opt.IsRequired() {
		label += " (required)"
	}
	return label
}

func init() {
	rootCmd.AddCommand(listCommandsCmd)
}
