package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orngkit/internal/config"
	"github.com/matzehuels/orngkit/pkg/data"
	"github.com/matzehuels/orngkit/pkg/errors"
	"github.com/matzehuels/orngkit/pkg/observability"
	"github.com/matzehuels/orngkit/pkg/translate"
)

// Encodings written by "translate apply".
const (
	encodingCSV    = "csv"
	encodingLibSVM = "libsvm"
)

func (c *CLI) translateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Encode attribute tables as numeric arrays for LR and SVM learners",
	}
	cmd.AddCommand(c.translateAnalyseCommand())
	cmd.AddCommand(c.translateApplyCommand())
	cmd.AddCommand(c.translateDescribeCommand())
	cmd.AddCommand(c.translateDecodeCommand())
	return cmd
}

func (c *CLI) translateAnalyseCommand() *cobra.Command {
	var (
		output string
		weight string
		status bool
	)

	cmd := &cobra.Command{
		Use:   "analyse [data.tab]",
		Short: "Learn a domain translation and save it as TOML",
		Long: `Learn a domain translation from a tab-delimited data file.

Continuous attributes are standardized. Discrete attributes are encoded
according to --mode: dummy (one column per non-reference value), binarize
(one column per value) or auto (binarize when there are more than two
values). The result is prepared for --target (lr or svm) and saved so that
'translate apply' can encode new data the same way.`,
		Aliases: []string{"analyze"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".model.toml"
			}
			return c.runAnalyse(cmd.Context(), cfg, args[0], weight, output, status)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "model file (default: <input>.model.toml)")
	cmd.Flags().String("mode", "", "discrete encoding: dummy (default), binarize, auto")
	cmd.Flags().String("target", "", "learner: lr (default), svm")
	cmd.Flags().StringVar(&weight, "weight", "", "meta attribute holding example weights")
	cmd.Flags().BoolVar(&status, "status", false, "print the learned encoder state")
	return cmd
}

func (c *CLI) runAnalyse(ctx context.Context, cfg *config.Config, input, weight, output string, status bool) error {
	if err := errors.ValidateOutputPath(output); err != nil {
		return err
	}
	tab, err := data.LoadTab(input)
	if err != nil {
		return err
	}

	weightID := 0
	if weight != "" {
		id, ok := tab.Domain.MetaID(weight)
		if !ok {
			return errors.New(errors.ErrCodeMissingAttribute, "no meta attribute named %q", weight)
		}
		weightID = id
	}

	prog := newProgress(c.Logger)
	tr, err := translate.New(cfg.TranslationMode(), translate.WithLogger(c.Logger))
	if err != nil {
		return err
	}
	start := time.Now()
	if err := tr.Analyse(tab, weightID); err != nil {
		return err
	}
	if err := tr.Prepare(cfg.TranslationTarget()); err != nil {
		return err
	}
	observability.Translation().OnAnalyse(ctx, len(tr.Attributes), tr.Width(), time.Since(start))
	prog.done(fmt.Sprintf("Learned translation of %d attributes", len(tr.Attributes)))

	if err := tr.SaveFile(output); err != nil {
		return err
	}
	if status {
		tr.Status(os.Stdout)
	}

	printSuccess("Translation saved: %d columns (mode %s, target %s)", tr.Width(), tr.Mode, tr.Target())
	printFile(output)
	printNextStep("Encode data", fmt.Sprintf("%s translate apply %s %s", appName, output, input))
	return nil
}

func (c *CLI) translateApplyCommand() *cobra.Command {
	var (
		output   string
		encoding string
		target   string
	)

	cmd := &cobra.Command{
		Use:   "apply [model.toml] [data.tab]",
		Short: "Encode a data file with a saved translation",
		Long: `Encode a data file with a translation saved by 'translate analyse'.

Rows are written as CSV (a header of column names, then class and weight) or
in the sparse libsvm format. Missing SVM inputs are left empty in CSV and
omitted in libsvm output. Attributes absent from the data fall back to the
encoder's missing value with a warning.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if encoding != encodingCSV && encoding != encodingLibSVM {
				return errors.New(errors.ErrCodeInvalidFormat,
					"invalid encoding: %q (must be csv or libsvm)", encoding)
			}
			return c.runApply(cmd.Context(), args[0], args[1], target, encoding, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&encoding, "encoding", "e", encodingCSV, "row encoding: csv, libsvm")
	cmd.Flags().StringVar(&target, "target", "", "re-prepare the model for lr or svm")
	return cmd
}

func (c *CLI) runApply(ctx context.Context, model, input, target, encoding, output string) error {
	tr, err := translate.LoadFile(model, translate.WithLogger(c.Logger))
	if err != nil {
		return err
	}
	if target != "" {
		t, err := translate.ParseTarget(target)
		if err != nil {
			return err
		}
		if err := tr.Prepare(t); err != nil {
			return err
		}
	}
	tab, err := data.LoadTab(input)
	if err != nil {
		return err
	}

	start := time.Now()
	rows, err := tr.Transform(tab)
	if err != nil {
		return err
	}
	observability.Translation().OnTransform(ctx, len(rows), time.Since(start))

	toFile := output != "" && output != "-"
	err = writeRows(output, func(w io.Writer) error {
		if encoding == encodingLibSVM {
			return translate.WriteLibSVM(w, rows)
		}
		return translate.WriteCSV(w, tr.Description().Columns(), rows)
	})
	if err != nil {
		return fmt.Errorf("write rows: %w", err)
	}

	c.Logger.Info("encoded examples", "rows", len(rows), "columns", tr.Width(), "target", tr.Target())
	if toFile {
		printSuccess("Encoded %d examples", len(rows))
		printFile(output)
	}
	return nil
}

func (c *CLI) translateDescribeCommand() *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "describe [model.toml]",
		Short: "Show the output columns of a saved translation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := translate.LoadFile(args[0], translate.WithLogger(c.Logger))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			tr.PrintDescription(out)
			if status {
				fmt.Fprintln(out)
				tr.Status(out)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "also print the learned encoder state")
	return cmd
}

func (c *CLI) translateDecodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [model.toml] [prediction...]",
		Short: "Map learner predictions back to class values",
		Long: `Map learner predictions back to class values.

Predictions are read from the arguments, or one per line from stdin when
none are given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := translate.LoadFile(args[0], translate.WithLogger(c.Logger))
			if err != nil {
				return err
			}
			preds := args[1:]
			if len(preds) == 0 {
				sc := bufio.NewScanner(cmd.InOrStdin())
				for sc.Scan() {
					if line := strings.TrimSpace(sc.Text()); line != "" {
						preds = append(preds, line)
					}
				}
				if err := sc.Err(); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			for _, p := range preds {
				x, err := strconv.ParseFloat(p, 64)
				if err != nil {
					return errors.Wrap(errors.ErrCodeInvalidInput, err, "prediction %q", p)
				}
				v, err := tr.ClassValue(x)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, v.String())
			}
			return nil
		},
	}
}

// writeRows hands write the output file, or stdout when output is empty or
// "-". A file that fails to close is reported as a write failure.
func writeRows(output string, write func(io.Writer) error) (err error) {
	if output == "" || output == "-" {
		return write(os.Stdout)
	}
	if err := errors.ValidateOutputPath(output); err != nil {
		return err
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", output, cerr)
		}
	}()
	return write(f)
}
