package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pixelbar/internal/animation"
	"github.com/rileyhilliard/pixelbar/internal/errors"
	"github.com/rileyhilliard/pixelbar/internal/logger"
	"github.com/rileyhilliard/pixelbar/internal/ui"
)

// globalFlags are the persistent flags every subcommand sees.
type globalFlags struct {
	verbose bool
	noColor bool
}

var rootCmd = newRootCmd()

// newRootCmd builds the whole command tree. Tests build their own so flag
// state never leaks between them.
func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	defaultRun := &RunFlags{}

	cmd := &cobra.Command{
		Use:   "pixelbar",
		Short: "Animate a small LED grid with your machine's load and network health",
		Long: `pixelbar drives a small RGB pixel grid: a filler animation on the left
whose speed follows the system load, and one-column status bars on the right.

With no subcommand it runs the configured layout: sparkle plus an internet
bar unless flags or PIXELBAR_* variables say otherwise.

Examples:
  pixelbar
  pixelbar run --filler rainbow --bar load --bar internet
  pixelbar run --display opc --opc-addr 10.0.0.5:7890 --time-limit 1h`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetVerbose(g.verbose)
			if g.noColor {
				ui.DisableColors()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, defaultRun)
		},
	}

	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "debug logging (same as PIXELBAR_DEBUG=1)")
	cmd.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "disable colored output")
	AddRunFlags(cmd, defaultRun)

	cmd.AddCommand(
		newRunCmd(),
		newRoutinesCmd(),
		newConfigCmd(),
		newVersionCmd(),
		newCompletionCmd(),
	)
	return cmd
}

// Execute runs the root command and exits with its status.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, rootCmd, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func execute(ctx context.Context, cmd *cobra.Command, args []string, stderr io.Writer) int {
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err != nil && isUnknownCommandError(err) {
		err = suggestForUnknown(err)
	}
	return ExitCode(err, stderr)
}

// ExitCode maps a command error to a process status: 0 on success, the
// carried status for an ExitError, 1 for everything else. Errors other
// than a bare exit status are printed to stderr.
func ExitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	if code, ok := errors.GetExitCode(err); ok {
		return code
	}
	fmt.Fprintln(stderr, strings.TrimRight(err.Error(), "\n"))
	return 1
}

func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") || strings.HasPrefix(msg, "unknown flag")
}

// extractUnknownCommand pulls the quoted name out of cobra's
// `unknown command "foo" for "pixelbar"` message.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}

// suggestForUnknown turns "pixelbar rainbow" into a hint about --filler.
func suggestForUnknown(err error) error {
	name := extractUnknownCommand(err)
	if name == "" {
		return errors.New(errors.ErrConfig, err.Error(), "Run 'pixelbar --help' for usage")
	}
	if _, lookupErr := animation.Lookup(name, animation.RoleFiller); lookupErr == nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' is a routine, not a command", name),
			fmt.Sprintf("Try: pixelbar run --filler %s", name))
	}
	if _, lookupErr := animation.Lookup(name, animation.RoleBar); lookupErr == nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' is a routine, not a command", name),
			fmt.Sprintf("Try: pixelbar run --bar %s", name))
	}
	return errors.WrapWithCode(err, errors.ErrConfig,
		fmt.Sprintf("Unknown command '%s'", name),
		"Run 'pixelbar --help' to see the commands")
}
