package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	calc "distr-calc/internal/calculator/core"
	errs "distr-calc/internal/calculator/errors"
	utils "distr-calc/internal/calculator/utils"
	"distr-calc/internal/client"
	"distr-calc/internal/config"
	"distr-calc/internal/logger"

	"github.com/spf13/cobra"
)

// evaluator is satisfied by the local calculator and by *client.Client.
type evaluator interface {
	Calculate(ctx context.Context, expr string) (float64, error)
}

type localEvaluator struct{}

func (localEvaluator) Calculate(_ context.Context, expr string) (float64, error) {
	return calc.EvaluateExpression(expr)
}

type options struct {
	configPath string
	remote     string
	verbose    bool
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "calc [expression...]",
		Short: "Evaluate arithmetic expressions",
		Long: `Evaluate arithmetic expressions made of numbers and the operators
+ - * / % ^ with conventional precedence. ^ groups from the right.

With arguments, the joined arguments are evaluated as one expression.
Without arguments, every line read from stdin is evaluated.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ev := opts.evaluator()
			if len(args) > 0 {
				return evaluateOne(cmd.Context(), ev, strings.Join(args, " "), cmd.OutOrStdout(), cmd.ErrOrStderr())
			}
			return evaluateLines(cmd.Context(), ev, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.remote, "remote", "", "evaluate on a calcd server at this URL")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every reduction step")

	cmd.AddCommand(newHistoryCmd(opts))
	return cmd
}

func (o *options) setup() error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.verbose {
		cfg.Log.Level = logger.DebugLevel
	}
	if err := logger.InitLogger(cfg.Log); err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}

func (o *options) evaluator() evaluator {
	if o.remote == "" {
		return localEvaluator{}
	}
	return client.New(o.remote, o.cfg.Client.Timeout)
}

func newHistoryCmd(opts *options) *cobra.Command {
	var clearHistory bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the expressions evaluated by a calcd server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url := opts.remote
			if url == "" {
				url = opts.cfg.Client.URL
			}
			c := client.New(url, opts.cfg.Client.Timeout)

			if clearHistory {
				if err := c.ClearHistory(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "history cleared")
				return nil
			}

			records, err := c.History(cmd.Context())
			if err != nil {
				return err
			}
			for _, rec := range records {
				if rec.Error != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s = Error: %s\n", rec.Expression, rec.Error)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", rec.Expression, rec.Display)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearHistory, "clear", false, "clear the history instead of listing it")
	return cmd
}

var errEvaluation = errors.New("evaluation failed")

// evaluateOne prints the result of expr, or the error message to errOut.
func evaluateOne(ctx context.Context, ev evaluator, expr string, out, errOut io.Writer) error {
	value, err := ev.Calculate(ctx, expr)
	if err != nil {
		fmt.Fprintf(errOut, "Error: %s\n", errs.Message(err))
		logger.Debugf("Evaluation of %q failed: %v", expr, err)
		return errEvaluation
	}
	fmt.Fprintln(out, utils.FormatResult(value))
	return nil
}

// evaluateLines evaluates each non-blank line of in. Evaluation errors are
// reported per line; the returned error is errEvaluation if any line failed.
func evaluateLines(ctx context.Context, ev evaluator, in io.Reader, out, errOut io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var failed bool
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := evaluateOne(ctx, ev, line, out, errOut); err != nil {
			failed = true
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if failed {
		return errEvaluation
	}
	return nil
}
