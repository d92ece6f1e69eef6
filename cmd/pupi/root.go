package main

import (
	"errors"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/portal-co/pupi/internal/engine"
	"github.com/portal-co/pupi/internal/proc"
	"github.com/portal-co/pupi/internal/ui"
	"github.com/portal-co/pupi/internal/workspace"
)

func newRootCmd() *cobra.Command {
	return newRootCmdWithRunner(nil)
}

// newRootCmdWithRunner builds the command tree. A nil runner executes real
// processes writing to the command's output streams.
func newRootCmdWithRunner(r proc.Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pupi <verb> <root> [args...]",
		Short: "Run a verb over every member of a multi-package workspace",
		Long: `pupi visits every member of the workspace at <root> in dependency order
and runs the member's build systems and hook for <verb>.

Verbs autogen, build, publish and update rewrite version metadata. Hooks run
for autogen, build and publish. Any other verb only syncs mirrored
subdirectories and follows dependencies, including into nested repositories.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerb(cmd, args, r)
		},
	}
	// Everything after the verb belongs to the hooks.
	cmd.Flags().SetInterspersed(false)
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.PersistentFlags().IntP("jobs", "j", 0, "Maximum concurrent external processes (0 = number of CPUs)")
	cmd.PersistentFlags().Bool("verbose", false, "Log traversal decisions to stderr")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	cmd.AddCommand(
		newSetupCmd(r),
		newSchemaCmd(),
		newListCmd(),
		newDoctorCmd(),
	)

	return cmd
}

func runVerb(cmd *cobra.Command, args []string, r proc.Runner) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	if len(args) < 2 {
		return errors.New("usage: pupi <verb> <root> [args...]")
	}
	verb, root := args[0], args[1]
	cmdline := append([]string{verb}, args[2:]...)

	jobs, _ := cmd.Flags().GetInt("jobs")
	color := useColor(cmd, cmd.ErrOrStderr())
	log := newLogger(cmd, color)
	ctx := log.WithContext(cmd.Context())

	ws, err := workspace.Load(root)
	if err != nil {
		return err
	}
	if err := workspace.Sync(ws.Root, ws.Path); err != nil {
		return err
	}

	progress := ui.NewProgress(cmd.ErrOrStderr(), color)
	e := engine.New(cmdline, runner(cmd, r), engine.Options{Jobs: jobs, Progress: progress})
	err = e.Run(ctx, ws)
	log.Debug().Int("built", progress.Built()).Err(err).Msg("run finished")
	return err
}

func runner(cmd *cobra.Command, r proc.Runner) proc.Runner {
	if r != nil {
		return r
	}
	return proc.NewExec(cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// useColor reports whether styled output is wanted on w: --no-color is
// unset, NO_COLOR is empty and w is a terminal.
func useColor(cmd *cobra.Command, w io.Writer) bool {
	if off, _ := cmd.Flags().GetBool("no-color"); off || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(w)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}

func newLogger(cmd *cobra.Command, color bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: !color, TimeFormat: "15:04:05"}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
