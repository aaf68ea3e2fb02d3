package client

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// RebuildDocument represents one uploaded document in a rebuild request.
type RebuildDocument struct {
	Filename      string `json:"filename"`
	ContentBase64 string `json:"content_base64"`
}

// RebuildRequest represents the index rebuild API request.
type RebuildRequest struct {
	Documents []RebuildDocument `json:"documents"`
}

// RebuildResponse represents the index rebuild API response.
type RebuildResponse struct {
	Documents int `json:"documents"`
	Chunks    int `json:"chunks"`
}

// IndexCmd creates the index command.
func IndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <file>...",
		Short: "Rebuild the index from local files",
		Long: `Uploads the given files and rebuilds the vector index from them.
A rebuild replaces the entire index: files from earlier rebuilds are dropped
unless passed again.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runIndex(args, outputJSON)
		},
	}

	return cmd
}

func runIndex(paths []string, outputJSON bool) error {
	docs := make([]RebuildDocument, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		docs = append(docs, RebuildDocument{
			Filename:      filepath.Base(path),
			ContentBase64: base64.StdEncoding.EncodeToString(data),
		})
	}

	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	resp, err := api.Post("/index/rebuild", RebuildRequest{Documents: docs})
	if err != nil {
		return fmt.Errorf("index rebuild failed: %w", err)
	}

	var rebuildResp RebuildResponse
	if err := json.Unmarshal(resp.Data, &rebuildResp); err != nil {
		return fmt.Errorf("failed to parse rebuild response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(rebuildResp, "", "  ")
		fmt.Println(string(output))
	} else {
		names := make([]string, len(paths))
		for i, path := range paths {
			names[i] = filepath.Base(path)
		}
		fmt.Printf("Indexed %d documents (%d chunks): %s\n",
			rebuildResp.Documents, rebuildResp.Chunks, strings.Join(names, ", "))
	}

	return nil
}
