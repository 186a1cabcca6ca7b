package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/averycrespi/vooshi/internal/command"
	"github.com/averycrespi/vooshi/internal/document"
	"github.com/averycrespi/vooshi/internal/extractor"
	"github.com/averycrespi/vooshi/internal/results"
	"github.com/averycrespi/vooshi/internal/tools"
	"github.com/averycrespi/vooshi/pkg/types"
)

type sendOptions struct {
	file      string
	line      int
	character int
	dryRun    bool
}

func newSendCmd(a *app) *cobra.Command {
	opts := &sendOptions{}

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Extract the code around a cursor and send it to the endpoint",
		Long: `Open a file, place the cursor at --line and --character (0-indexed), and run
the vooshi.sendSnippet command: the enclosing function or method is sent when
it spans at most 50 lines, otherwise the 3 lines either side of the cursor.

The command waits for the delivery to finish before exiting. Delivery failures
are logged and do not change the exit status.

Example:
  vooshi send --file internal/server/server.go --line 42 --character 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd, a, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "file to send from (relative to the workspace root)")
	cmd.Flags().IntVarP(&opts.line, "line", "l", 0, "cursor line (0-indexed)")
	cmd.Flags().IntVarP(&opts.character, "character", "c", 0, "cursor character (0-indexed)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the extracted context instead of sending it")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runSend(cmd *cobra.Command, a *app, opts *sendOptions) error {
	if opts.line < 0 || opts.character < 0 {
		return fmt.Errorf("--line and --character must not be negative")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c, err := buildComponents(a.cfg)
	if err != nil {
		return err
	}
	if c.manager != nil {
		defer func() {
			if err := c.manager.Shutdown(context.Background()); err != nil {
				a.logger.Warn("Failed to stop language server", "error", err)
			}
		}()
	}

	path := tools.ResolvePath(opts.file, c.workspaceRoot)
	doc, err := document.Load(path)
	if err != nil {
		return err
	}
	cursor := types.Position{Line: opts.line, Character: opts.character}
	display := tools.GetRelativePath(path, c.workspaceRoot)

	if opts.dryRun {
		cursor = doc.ClampPosition(cursor)
		extracted := command.ExtractContext(ctx, c.provider, doc, cursor)
		return printJSON(cmd, results.NewExtractedSnippet(display, cursor, extracted))
	}

	if err := c.host.Activate(ctx); err != nil {
		return fmt.Errorf("failed to activate host: %w", err)
	}
	c.editor.Open(doc, cursor)

	result, err := c.host.Execute(ctx, command.SendSnippetCommand)
	if err != nil {
		_ = c.host.Deactivate(ctx)
		return err
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Timeout*2)
	defer cancel()
	if err := c.host.Deactivate(drainCtx); err != nil {
		a.logger.Warn("Gave up waiting for the snippet to be delivered", "error", err)
	}

	if extracted, ok := result.(*extractor.ExtractedContext); ok && extracted != nil {
		region := "window"
		if extracted.IsFunction {
			region = extracted.SymbolName
		}
		fmt.Fprintf(cmd.OutOrStdout(), "sent %s lines %d-%d (%s) to %s\n",
			filepath.ToSlash(display), extracted.StartLine+1, extracted.EndLine+1, region, c.reporter.URL())
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
	return nil
}
