package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xy-planning-network/switchback/app"
)

// flags shared by every command building an App.
type flags struct {
	root    string
	appDir  string
	baseDir string
	env     string
}

func (f *flags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.root, "root", app.DefaultRootDir, "directory holding the application and framework directories")
	cmd.PersistentFlags().StringVar(&f.appDir, "app", app.DefaultAppDir, "application directory, relative to root")
	cmd.PersistentFlags().StringVar(&f.baseDir, "system", app.DefaultBaseDir, "framework directory, relative to root")
	cmd.PersistentFlags().StringVar(&f.env, "env", "", "environment to run in; ENVIRONMENT is read when empty")
}

// options turns the flags into the options every command builds its App with.
func (f *flags) options() []app.Option {
	return []app.Option{
		app.WithEnv(f.env),
		app.WithFS(os.DirFS(f.root), f.root),
		app.WithDirs(f.appDir, f.baseDir),
	}
}

func main() {
	f := new(flags)
	rootCmd := &cobra.Command{
		Use:   "switchback",
		Short: "Dispatch requests to handlers resolved from layered directories",
		Long: `switchback serves an application laid out in an application directory
over a framework directory, routing every request to the handler its URI names.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	f.register(rootCmd)

	rootCmd.AddCommand(
		serveCmd(f),
		resolveCmd(f),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}
