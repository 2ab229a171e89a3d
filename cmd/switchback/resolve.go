package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xy-planning-network/switchback/app"
	"github.com/xy-planning-network/switchback/logger"
	"github.com/xy-planning-network/switchback/route"
)

func resolveCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <uri>",
		Short: "Print the route a URI resolves to",
		Long: `Print the directory, subdirectory, handler, entry point and arguments
a URI resolves to, without loading or invoking the handler.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(append(f.options(), app.WithLogger(logger.NewNop()))...)
			if err != nil {
				return err
			}

			stack, err := a.Resolve(args[0])
			if err != nil {
				return err
			}

			printStack(cmd, stack)
			return nil
		},
	}
}

func printStack(cmd *cobra.Command, stack route.Stack) {
	out := cmd.OutOrStdout()
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s  %s\n", bold("directory:   "), stack.Path())
	fmt.Fprintf(out, "%s  %s\n", bold("subdirectory:"), stack.Subdirectory())
	fmt.Fprintf(out, "%s  %s\n", bold("handler:     "), stack.Handler())
	fmt.Fprintf(out, "%s  %s\n", bold("entry point: "), stack.EntryPoint())
	fmt.Fprintf(out, "%s  %s\n", bold("arguments:   "), strings.Join(stack.Args(), ", "))
}
