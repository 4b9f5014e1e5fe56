package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"yatra/internal/service"
)

var ingestRebuild bool

// NewIngestCmd creates the ingest command.
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Build or load the destination index",
		Long: `Fetch the configured sources, chunk and embed them, and persist the index.
A persisted index built from the same sources and embedder is reused.

Examples:
  yatra ingest
  yatra ingest --rebuild`,
		Args: cobra.NoArgs,
		RunE: runIngest,
	}
	cmd.Flags().BoolVar(&ingestRebuild, "rebuild", false, "Ignore the persisted index and ingest again")
	return cmd
}

func runIngest(cmd *cobra.Command, _ []string) error {
	app, err := openApp(cmd, service.Options{Rebuild: ingestRebuild})
	if err != nil {
		return err
	}
	defer app.Close()

	m := app.Index.Manifest()
	how := "built"
	if app.Index.Reused() {
		how = "reused"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Index %s: %d chunks, %s (dimension %d)\n", how, m.Chunks, m.Embedder, m.Dimension)
	return nil
}
