package synthcli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lex00/strata-aws-go/internal/differ"
)

var (
	addedMark   = color.New(color.FgGreen).SprintFunc()
	removedMark = color.New(color.FgRed).SprintFunc()
	changedMark = color.New(color.FgYellow).SprintFunc()
)

// printDiff renders a comparison result in a terse +/-/~ listing.
func printDiff(cmd *cobra.Command, result *differ.Result) {
	out := cmd.OutOrStdout()
	if result.Empty() {
		fmt.Fprintln(out, "no differences")
		return
	}
	for _, e := range result.Added {
		fmt.Fprintf(out, "%s %s (%s)\n", addedMark("+"), e.Resource, e.Type)
	}
	for _, e := range result.Removed {
		fmt.Fprintf(out, "%s %s (%s)\n", removedMark("-"), e.Resource, e.Type)
	}
	for _, e := range result.Changed {
		fmt.Fprintf(out, "%s %s (%s)\n", changedMark("~"), e.Resource, e.Type)
	}
	fmt.Fprintf(out, "%d added, %d removed, %d changed\n",
		len(result.Added), len(result.Removed), len(result.Changed))
}
