package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/yourname/gdrive_lite/internal/models"
	"github.com/yourname/gdrive_lite/pkg/uploadclient"
)

var lsFlags clientFlags

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List files stored on the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := contextWithTimeout(cmd.Context(), lsFlags.Timeout)
		defer cancel()

		files, err := uploadclient.New(lsFlags.Server).List(ctx)
		if err != nil {
			return err
		}
		return printFiles(cmd.OutOrStdout(), files, time.Now())
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)

	lsCmd.Flags().StringVarP(&lsFlags.Server, "server", "s", "http://localhost:3000", "server base URL")
	lsCmd.Flags().DurationVar(&lsFlags.Timeout, "timeout", 30*time.Second, "request timeout")
}

func printFiles(w io.Writer, files []models.StoredFileRecord, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tSIZE\tOWNER\tMODIFIED")
	for _, f := range files {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.File, f.Size, f.Owner, humanize.RelTime(f.LastModified, now, "ago", "from now"))
	}
	return tw.Flush()
}

func contextWithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if d <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, d)
}
