package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fairyhunter13/supplysight/internal/storage"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the configured backend's record set as flat JSON",
	Long: `Export all records in the flat file layout, so the output can be seeded
into any other backend or used directly as DATA_PATH.

Output goes to stdout by default, or use -o for a file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		ctx := cmd.Context()
		backend, err := openBackend(ctx, cfg)
		if err != nil {
			return err
		}
		defer backend.Close()
		products, err := backend.Load(ctx)
		if err != nil {
			return fmt.Errorf("load from %s backend: %w", cfg.DataDriver, err)
		}
		data, err := storage.Encode(products)
		if err != nil {
			return err
		}
		if out == "" {
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "exported %d records to %s\n", len(products), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "Output file (default: stdout)")
}
