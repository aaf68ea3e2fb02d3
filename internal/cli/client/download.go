package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// DownloadURLResponse represents the source download API response.
type DownloadURLResponse struct {
	DownloadURL string `json:"download_url"`
}

// DownloadCmd creates the download command.
func DownloadCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <source-id>",
		Short: "Download an archived source document",
		Long:  "Downloads the original uploaded file for a source ID from the document archive.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "out", "o", "", "Output path (defaults to the source ID)")

	return cmd
}

func runDownload(sourceID, output string) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	resp, err := api.Get("/sources/" + sourceID + "/download")
	if err != nil {
		return fmt.Errorf("download request failed: %w", err)
	}

	var urlResp DownloadURLResponse
	if err := json.Unmarshal(resp.Data, &urlResp); err != nil {
		return fmt.Errorf("failed to parse download response: %w", err)
	}

	if output == "" {
		output = sourceID
	}

	if err := api.DownloadFile(urlResp.DownloadURL, output); err != nil {
		return err
	}

	fmt.Printf("Downloaded %s to %s\n", sourceID, output)
	return nil
}
