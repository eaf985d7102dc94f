// Package synthcli provides the command-line entrypoint for strata apps.
//
// An application wires its construct tree in a build function and hands
// it to Main:
//
//	func main() {
//	    synthcli.Main(func(app *strata.App) error {
//	        stack, err := strata.NewStack(app, "Monitoring", strata.StackProps{})
//	        ...
//	        return err
//	    })
//	}
//
// The resulting binary supports:
//
//	app synth                  Synthesize templates to stdout
//	app synth -f yaml -o out/  Synthesize YAML into a directory
//	app synth --watch          Re-synthesize when the context file changes
//	app diff template.json     Compare against a previously synthesized template
//	app graph                  Emit a dependency graph (dot or mermaid)
//	app version                Show version information
package synthcli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	strata "github.com/lex00/strata-aws-go"
	"github.com/lex00/strata-aws-go/internal/differ"
	"github.com/lex00/strata-aws-go/internal/graph"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// BuildFunc populates an app's construct tree.
type BuildFunc func(app *strata.App) error

// Main executes the CLI and exits on error.
func Main(build BuildFunc) {
	if err := NewRootCommand(build).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCommand constructs the root cobra command for a strata app.
func NewRootCommand(build BuildFunc) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "app",
		Short:         "Synthesize CloudFormation templates from this strata app",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newSynthCmd(build),
		newDiffCmd(build),
		newGraphCmd(build),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "strata %s\n", Version)
		},
	}
}

// synthesize builds a fresh app (context loaded from contextFile when it
// exists) and runs the synthesis pass.
func synthesize(build BuildFunc, contextFile string) (*strata.Assembly, error) {
	app := strata.NewApp()
	if contextFile != "" {
		if _, err := os.Stat(contextFile); err == nil {
			if err := app.LoadContextFile(contextFile); err != nil {
				return nil, err
			}
		}
	}
	if err := build(app); err != nil {
		return nil, fmt.Errorf("building construct tree: %w", err)
	}
	return app.Synth()
}

// render serializes a template in the requested format.
func render(t *strata.Template, format string) ([]byte, error) {
	switch format {
	case "json":
		return t.ToJSON()
	case "yaml":
		return t.ToYAML()
	default:
		return nil, fmt.Errorf("unknown format %q (expected json or yaml)", format)
	}
}

// writeAssembly writes every stack template to outDir, or to stdout when
// outDir is empty.
func writeAssembly(cmd *cobra.Command, asm *strata.Assembly, format, outDir string) error {
	ext := "json"
	if format == "yaml" {
		ext = "yaml"
	}
	for _, name := range asm.StackNames {
		data, err := render(asm.Templates[name], format)
		if err != nil {
			return err
		}
		if outDir == "" {
			if len(asm.StackNames) > 1 {
				fmt.Fprintf(cmd.OutOrStdout(), "# Stack: %s\n", name)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			continue
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return err
		}
		path := filepath.Join(outDir, fmt.Sprintf("%s.template.%s", name, ext))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
	}
	return nil
}

func newSynthCmd(build BuildFunc) *cobra.Command {
	var (
		outputFormat string
		outputDir    string
		contextFile  string
		watch        bool
		debounce     string
	)

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Synthesize the app into CloudFormation templates",
		Long: `Synth resolves every deferred value in the construct tree and emits
one template per stack.

Examples:
    app synth
    app synth -f yaml -o cdk.out
    app synth --watch --context strata.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runOnce := func() error {
				asm, err := synthesize(build, contextFile)
				if err != nil {
					return err
				}
				return writeAssembly(cmd, asm, outputFormat, outputDir)
			}
			if !watch {
				return runOnce()
			}
			return runWatch(cmd, contextFile, debounce, runOnce)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default: stdout)")
	cmd.Flags().StringVar(&contextFile, "context", "strata.json", "Context file merged into the app before building")
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-synthesize when the context file changes")
	cmd.Flags().StringVar(&debounce, "debounce", "500ms", "Debounce duration for rapid changes")

	return cmd
}

func newGraphCmd(build BuildFunc) *cobra.Command {
	var (
		format      string
		contextFile string
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Generate a resource dependency graph",
		Long: `Graph synthesizes the app and renders the references between
resources as a Graphviz DOT or Mermaid graph.

Examples:
    app graph
    app graph --format mermaid`,
		RunE: func(cmd *cobra.Command, args []string) error {
			asm, err := synthesize(build, contextFile)
			if err != nil {
				return err
			}
			gen := &graph.Generator{Format: graph.Format(format)}
			for _, name := range asm.StackNames {
				if len(asm.StackNames) > 1 {
					fmt.Fprintf(cmd.OutOrStdout(), "# Stack: %s\n", name)
				}
				if err := gen.Generate(asm.Templates[name], cmd.OutOrStdout()); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "dot", "Graph format: dot or mermaid")
	cmd.Flags().StringVar(&contextFile, "context", "strata.json", "Context file merged into the app before building")

	return cmd
}

func newDiffCmd(build BuildFunc) *cobra.Command {
	var (
		contextFile string
		stackName   string
	)

	cmd := &cobra.Command{
		Use:   "diff <template-file>",
		Short: "Compare the app against a previously synthesized template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asm, err := synthesize(build, contextFile)
			if err != nil {
				return err
			}
			name := stackName
			if name == "" {
				if len(asm.StackNames) != 1 {
					return fmt.Errorf("app has %d stacks; pick one with --stack", len(asm.StackNames))
				}
				name = asm.StackNames[0]
			}
			current, ok := asm.Templates[name]
			if !ok {
				return fmt.Errorf("unknown stack %q", name)
			}
			previous, err := differ.Load(args[0])
			if err != nil {
				return err
			}
			printDiff(cmd, differ.Compare(previous, current))
			return nil
		},
	}

	cmd.Flags().StringVar(&contextFile, "context", "strata.json", "Context file merged into the app before building")
	cmd.Flags().StringVar(&stackName, "stack", "", "Stack to diff (required with multiple stacks)")

	return cmd
}
