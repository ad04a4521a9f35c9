package cli

import (
	"questlog/internal/di"

	"github.com/spf13/cobra"
)

var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Serve the library API for this device",
	Long: `Serve the library API for this device.

On start the local document and this device's cloud document are reconciled,
the newer one wins. Every change is written locally at once and mirrored to
the cloud after a short quiet period. Pending cloud writes are flushed on
shutdown.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := di.InitDeviceApp(flags)
		if err != nil {
			return err
		}
		return app.Run(cmd.Context())
	},
}

var cloudCmd = &cobra.Command{
	Use:   "cloud",
	Short: "Serve the per-device document store",
	Long: `Serve the per-device document store at /v1/state?id=<device id>.

Documents are validated, compressed and kept in badger or redis depending on
cloud.backend.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := di.InitCloudApp(flags)
		if err != nil {
			return err
		}
		return app.Run(cmd.Context())
	},
}
