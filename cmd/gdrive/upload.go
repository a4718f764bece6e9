package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/yourname/gdrive_lite/pkg/uploadclient"
)

type clientFlags struct {
	Server   string
	SocketID string
	Timeout  time.Duration
	Quiet    bool
}

var uploadFlags clientFlags

var uploadCmd = &cobra.Command{
	Use:   "upload FILE...",
	Short: "Upload files to a running server",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := contextWithTimeout(cmd.Context(), uploadFlags.Timeout)
		defer cancel()

		var opts []uploadclient.Option
		if uploadFlags.Quiet {
			opts = append(opts, uploadclient.WithProgress(nil))
		} else {
			opts = append(opts, uploadclient.WithProgress(cmd.ErrOrStderr()))
		}

		res, err := uploadclient.New(uploadFlags.Server, opts...).Upload(ctx, uploadFlags.SocketID, args...)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Result)
		return err
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringVarP(&uploadFlags.Server, "server", "s", "http://localhost:3000", "server base URL")
	uploadCmd.Flags().StringVar(&uploadFlags.SocketID, "socket-id", "", "socket id that receives progress events")
	uploadCmd.Flags().DurationVar(&uploadFlags.Timeout, "timeout", 0, "abort the upload after this long (0 = no limit)")
	uploadCmd.Flags().BoolVarP(&uploadFlags.Quiet, "quiet", "q", false, "do not draw progress bars")
}
