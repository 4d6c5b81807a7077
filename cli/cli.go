/*
File    : mana/cli/cli.go
*/

// Package cli wires the cobra command tree around the driver: the direct
// compilation form `mana FILE [flags]` plus the build, run, test, new,
// fmt, repl, add and remove subcommands. Exit codes: 0 success, 1 error.
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mana-lang/mana/cache"
	"github.com/mana-lang/mana/driver"
	"github.com/mana-lang/mana/manifest"
	"github.com/mana-lang/mana/repl"
)

// Version is the compiler version reported by the CLI and REPL.
const Version = "0.4.0"

var (
	errColor    = color.New(color.FgRed, color.Bold)
	statusColor = color.New(color.FgGreen)
)

// fail prints an error and returns exit status 1 through cobra.
func fail(format string, args ...interface{}) error {
	errColor.Fprintf(os.Stderr, "error: ")
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return fmt.Errorf("failed")
}

// newDriver builds a driver honoring the cache flags.
func newDriver(noCache, clearCache bool) (*driver.Driver, error) {
	d := driver.New()
	d.NoCache = noCache
	if err := d.EnableCache(cache.DefaultDir()); err != nil {
		return nil, err
	}
	if clearCache {
		if err := d.Cache.Clear(); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// reportDiagnostics renders the sink against the root source file.
func reportDiagnostics(d *driver.Driver, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	fmt.Fprint(os.Stderr, d.RenderDiagnostics(path, string(data)))
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	var (
		outPath    string
		stopAfterC bool
		emitCpp    bool
		showAst    bool
		genDocs    bool
		noCache    bool
		clearCache bool
	)

	root := &cobra.Command{
		Use:   "mana [FILE]",
		Short: "The Mana compiler",
		Long:  "Compiles Mana source files to C++ and drives the native toolchain.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			path := args[0]

			d, err := newDriver(noCache, clearCache)
			if err != nil {
				return fail("%v", err)
			}

			result, err := d.Compile(path, false)
			if err != nil {
				return fail("%v", err)
			}
			if len(d.Sink.Diagnostics) > 0 {
				reportDiagnostics(d, path)
			}
			if d.Sink.HasErrors() {
				return fmt.Errorf("failed")
			}

			if showAst {
				fmt.Print(driver.DumpAst(result.Module))
				return nil
			}
			if genDocs {
				fmt.Print(driver.GenerateDocs(result.Module))
				return nil
			}
			if emitCpp {
				fmt.Print(result.Output)
				return nil
			}

			if stopAfterC {
				cppPath, err := driver.WriteEmitted(path, result.Output)
				if err != nil {
					return fail("%v", err)
				}
				statusColor.Printf("emitted %s\n", cppPath)
				return nil
			}

			binary, err := d.Build(path, outPath, false)
			if err != nil {
				return fail("%v", err)
			}
			statusColor.Printf("built %s\n", binary)
			return nil
		},
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	root.Flags().StringVarP(&outPath, "output", "o", "", "output binary path")
	root.Flags().BoolVarP(&stopAfterC, "compile-only", "c", false, "stop after emission")
	root.Flags().BoolVar(&emitCpp, "emit-cpp", false, "write the emitted C++ to stdout")
	root.Flags().BoolVar(&showAst, "ast", false, "print the AST")
	root.Flags().BoolVar(&genDocs, "doc", false, "print generated documentation")
	root.Flags().BoolVar(&noCache, "no-cache", false, "bypass the compilation cache")
	root.Flags().BoolVar(&clearCache, "clear-cache", false, "clear the compilation cache first")

	root.AddCommand(newBuildCommand(), newRunCommand(), newTestCommand(),
		newNewCommand(), newFmtCommand(), newReplCommand(),
		newAddCommand(), newRemoveCommand())
	return root
}

func newBuildCommand() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "build FILE",
		Short: "Compile a source file to a native binary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDriver(false, false)
			if err != nil {
				return fail("%v", err)
			}
			binary, err := d.Build(args[0], outPath, false)
			if len(d.Sink.Diagnostics) > 0 {
				reportDiagnostics(d, args[0])
			}
			if err != nil {
				return fail("%v", err)
			}
			statusColor.Printf("built %s\n", binary)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output binary path")
	return cmd
}

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run FILE [ARGS...]",
		Short: "Build and execute a source file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDriver(false, false)
			if err != nil {
				return fail("%v", err)
			}
			code, err := d.Run(args[0], args[1:])
			if len(d.Sink.Diagnostics) > 0 {
				reportDiagnostics(d, args[0])
			}
			if err != nil {
				return fail("%v", err)
			}
			if code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}
}

func newTestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "test FILE",
		Short: "Build and run the file's #[test] functions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDriver(true, false)
			if err != nil {
				return fail("%v", err)
			}
			code, err := d.Test(args[0])
			if len(d.Sink.Diagnostics) > 0 {
				reportDiagnostics(d, args[0])
			}
			if err != nil {
				return fail("%v", err)
			}
			if code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}
}

func newNewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "new NAME",
		Short: "Scaffold a new project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := driver.NewProject(args[0]); err != nil {
				return fail("%v", err)
			}
			statusColor.Printf("created project %s\n", args[0])
			return nil
		},
	}
}

func newFmtCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fmt FILE",
		Short: "Format a source file in place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			diffText, changed, err := driver.Format(args[0])
			if err != nil {
				return fail("%v", err)
			}
			if !changed {
				statusColor.Printf("%s already formatted\n", args[0])
				return nil
			}
			fmt.Print(diffText)
			statusColor.Printf("formatted %s\n", args[0])
			return nil
		},
	}
}

func newReplCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive REPL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repl.NewRepl(Version).Start(os.Stdout)
			return nil
		},
	}
}

// loadManifest reads the project manifest from the working directory.
func loadManifest() (*manifest.Manifest, error) {
	if _, err := os.Stat(manifest.FileName); err != nil {
		return nil, fmt.Errorf("no %s in the current directory", manifest.FileName)
	}
	return manifest.Load(manifest.FileName)
}

func newAddCommand() *cobra.Command {
	var version string
	cmd := &cobra.Command{
		Use:   "add DEP",
		Short: "Add a dependency to package.toml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManifest()
			if err != nil {
				return fail("%v", err)
			}
			m.AddDependency(args[0], version)
			if err := m.Save(manifest.FileName); err != nil {
				return fail("%v", err)
			}
			statusColor.Printf("added %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&version, "version", "", "dependency version")
	return cmd
}

func newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove DEP",
		Short: "Remove a dependency from package.toml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManifest()
			if err != nil {
				return fail("%v", err)
			}
			if !m.RemoveDependency(args[0]) {
				return fail("dependency %q not found", args[0])
			}
			if err := m.Save(manifest.FileName); err != nil {
				return fail("%v", err)
			}
			statusColor.Printf("removed %s\n", args[0])
			return nil
		},
	}
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		return 1
	}
	return 0
}
