package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"questlog/internal"
	"questlog/internal/di"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the library document to a file or stdout",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTool(cmd.Context(), func(tool *internal.Tool) error {
			data, err := tool.Library.Export()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return writeLine(cmd.OutOrStdout(), data)
			}
			return os.WriteFile(args[0], data, 0o644)
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the library with a document",
	Long: `Replace the library with a previously exported document.

The current library is archived to the backup directory first. A malformed
document is rejected and nothing changes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}
		return withTool(cmd.Context(), func(tool *internal.Tool) error {
			if err := tool.Library.Import(data); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %d games\n", len(tool.Library.State().Library))
			return err
		})
	},
}

var linkCmd = &cobra.Command{
	Use:   "link <device-id>",
	Short: "Follow another device's cloud document",
	Long: `Follow another device's cloud document.

The local library is archived and then replaced by the other device's
document, and this device adopts the other device id for syncing. Fails
without changes when the cloud has no document for that id.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTool(cmd.Context(), func(tool *internal.Tool) error {
			if err := tool.Library.LinkDevice(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Linked to %s, %d games\n", tool.Identity.DeviceID(), len(tool.Library.State().Library))
			return err
		})
	},
}

var deviceIDCmd = &cobra.Command{
	Use:   "device-id",
	Short: "Print this device's sync id",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		tool, err := di.InitDeviceTool(flags)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), tool.Identity.DeviceID())
		return err
	},
}

// withTool opens the device library, runs fn and flushes pending writes.
func withTool(ctx context.Context, fn func(tool *internal.Tool) error) error {
	tool, err := di.InitDeviceTool(flags)
	if err != nil {
		return err
	}
	if err := tool.Open(ctx); err != nil {
		return err
	}
	runErr := fn(tool)
	if err := tool.Close(ctx); err != nil && runErr == nil {
		runErr = fmt.Errorf("cloud sync: %w", err)
	}
	return runErr
}

// readInput reads a file, or r when name is "-".
func readInput(r io.Reader, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(r)
	}
	return os.ReadFile(name)
}

func writeLine(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
