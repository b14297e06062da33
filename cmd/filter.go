package cmd

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ipveil/ipveil/internal/saltwindow"
	"github.com/ipveil/ipveil/internal/veil"
)

// Lines longer than the bufio default show up in real access logs, so give
// the scanner some headroom.
const maxLineBytes = 1024 * 1024

var filterFlags struct {
	infile  string
	outfile string
	secret  bool
	words   bool
	window  string
	scheme  string
}

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Sanitize a line stream from a file or stdin",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFilter()
	},
}

func init() {
	filterCmd.Flags().StringVarP(&filterFlags.infile, "infile", "i", "",
		"file to read lines from (default stdin)")
	filterCmd.Flags().StringVarP(&filterFlags.outfile, "outfile", "o", "",
		"file to append sanitized lines to (default stdout)")
	filterCmd.Flags().BoolVarP(&filterFlags.secret, "secret", "s", false,
		"replace addresses with salted pseudonyms instead of 0.0.0.0")
	filterCmd.Flags().BoolVarP(&filterFlags.words, "words", "w", false,
		"encode replacement addresses as word sequences")
	filterCmd.Flags().StringVarP(&filterFlags.window, "window", "t", "60m",
		"salt rotation window, e.g. 30s, 15m, 12h, 7d")
	filterCmd.Flags().StringVar(&filterFlags.scheme, "scheme", "hkdf",
		"pseudonym derivation scheme: hkdf or legacy")
	rootCmd.AddCommand(filterCmd)
}

func runFilter() error {
	logger, err := newStderrLogger()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	var table *veil.Table
	if filterFlags.words {
		if table, err = veil.LoadTable(); err != nil {
			return err
		}
	}

	rotator, err := veil.NewRotator(filterFlags.scheme)
	if err != nil {
		return err
	}

	var salts saltwindow.Source = saltwindow.Disabled{}
	if filterFlags.secret {
		window, err := saltwindow.ParseWindow(filterFlags.window)
		if err != nil {
			return err
		}
		salts = saltwindow.New(window, logger.Named("saltwindow"))
	}

	in := io.Reader(os.Stdin)
	if filterFlags.infile != "" {
		f, err := os.Open(filterFlags.infile)
		if err != nil {
			return errors.Wrap(err, "failed to open input file")
		}
		defer f.Close()
		in = f
	}

	out := io.Writer(os.Stdout)
	if filterFlags.outfile != "" {
		f, err := os.OpenFile(
			filterFlags.outfile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return errors.Wrap(err, "failed to open output file")
		}
		defer f.Close()
		out = f
	}

	proc := veil.NewProcessor(rotator, table, filterFlags.words)
	return filterStream(in, out, proc, salts, logger)
}

// filterStream copies lines from r to w, sanitizing each one. Lines the
// processor rejects are logged and dropped; the stream keeps going. A salt
// source failure ends the stream since continuing would leak addresses.
func filterStream(
	r io.Reader,
	w io.Writer,
	proc *veil.Processor,
	salts saltwindow.Source,
	logger *zap.Logger,
) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	out := bufio.NewWriter(w)

	for scanner.Scan() {
		salt, err := salts.Current()
		if err != nil {
			return err
		}

		sanitized, err := proc.Process(scanner.Text(), salt)
		if err != nil {
			logger.Warn("Dropped unprocessable line.", zap.Error(err))
			continue
		}

		if _, err := out.WriteString(sanitized); err != nil {
			return errors.Wrap(err, "failed to write line")
		}
		if err := out.WriteByte('\n'); err != nil {
			return errors.Wrap(err, "failed to write line")
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "failed to read input")
	}
	return errors.Wrap(out.Flush(), "failed to flush output")
}

func newStderrLogger() (*zap.Logger, error) {
	c := zap.NewProductionConfig()
	c.OutputPaths = []string{"stderr"}
	logger, err := c.Build()
	return logger, errors.Wrap(err, "failed to init logger")
}
