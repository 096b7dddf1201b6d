package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/quidome/exifcsv/pkg/batch"
	"github.com/quidome/exifcsv/pkg/metadata"
	"github.com/quidome/exifcsv/pkg/report"
	"github.com/quidome/exifcsv/pkg/scan"
)

const version = "0.1.0"

const (
	defaultSource      = "./images"
	defaultDestination = "./metadata.csv"
)

type options struct {
	verbose     bool
	skipInvalid bool
	noClobber   bool
}

func main() {
	cmd := newRootCmd()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "exifcsv [source] [destination]",
		Short: "Write the camera EXIF metadata of a folder of JPEGs to a CSV file",
		Long: "exifcsv reads every .jpg file directly inside the source folder (default " + defaultSource + "), " +
			"extracts maker, model, focal length, aperture, f-stop, shutter speed, ISO and flash from its EXIF data, " +
			"and writes one row per image to the destination CSV file (default " + defaultDestination + ").",
		Version: version,
		Args:    cobra.RangeArgs(0, 2),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd, opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			source := defaultSource
			dest := defaultDestination
			if len(args) > 0 {
				source = args[0]
			}
			if len(args) > 1 {
				dest = args[1]
			}

			batchOpts := batch.DefaultOptions()
			if opts.skipInvalid {
				batchOpts.OnDecodeError = batch.Skip
			}
			batchOpts.Output.Overwrite = !opts.noClobber

			summary, err := batch.Export(cmd.Context(), source, dest, batchOpts)
			if err != nil {
				return err
			}

			cmd.Printf("Metadata written to %s (%d rows)\n", summary.Destination, summary.Rows)
			if summary.Skipped > 0 {
				cmd.PrintErrf("skipped %d files with unreadable EXIF data\n", summary.Skipped)
			}
			return nil
		},
	}

	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)

	addPersistentFlags(rootCmd.PersistentFlags(), opts)
	rootCmd.Flags().BoolVar(&opts.skipInvalid, "skip-invalid", false, "skip files whose EXIF data cannot be decoded instead of aborting")
	rootCmd.Flags().BoolVar(&opts.noClobber, "no-clobber", false, "fail if the destination file already exists")

	rootCmd.AddCommand(newScanCmd(opts))
	rootCmd.AddCommand(newShowCmd(opts))

	return rootCmd
}

func addPersistentFlags(fs *pflag.FlagSet, opts *options) {
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
}

// setupLogging routes klog to the command's stderr and raises verbosity with --verbose.
func setupLogging(cmd *cobra.Command, opts *options) {
	fs := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(fs)
	_ = fs.Set("logtostderr", "false")
	_ = fs.Set("alsologtostderr", "false")
	// Without one_output each message is also written to every lower severity.
	_ = fs.Set("one_output", "true")
	if opts.verbose {
		_ = fs.Set("v", "1")
	} else {
		_ = fs.Set("v", "0")
	}
	klog.SetOutput(cmd.ErrOrStderr())
}

func newScanCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [directory]",
		Short: "List the JPEG files that would be processed",
		Long:  "Scan a directory (without descending into subdirectories) and print every .jpg file found.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			directory := args[0]

			matches, err := scan.List(os.DirFS(directory), ".", scan.DefaultOptions())
			if err != nil {
				var dirErr *scan.DirectoryError
				if errors.As(err, &dirErr) {
					dirErr.Path = directory
				}
				return err
			}

			for _, match := range matches {
				cmd.Println(match)
			}

			if opts.verbose {
				cmd.PrintErrf("found %d jpeg files\n", len(matches))
			}

			return nil
		},
	}
}

func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show [file]",
		Short: "Print the extracted metadata of a single image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			row, err := metadata.Extract(path, data, nil)
			if err != nil {
				return err
			}

			for _, c := range report.DefaultColumns() {
				v := row.Cell(c.Key)
				if v == "" && !opts.verbose {
					continue
				}
				cmd.Printf("%s: %s\n", c.Header, v)
			}

			return nil
		},
	}
}
