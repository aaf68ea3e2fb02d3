package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// StatusResponse represents the status API response.
type StatusResponse struct {
	Ready     bool   `json:"ready"`
	BuildID   string `json:"build_id,omitempty"`
	Model     string `json:"model,omitempty"`
	Documents int    `json:"documents"`
	Chunks    int    `json:"chunks"`
	BuiltAt   string `json:"built_at,omitempty"`
}

// StatusCmd creates the status command.
func StatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show index status",
		Long:  "Shows whether the daemon has a searchable index and what it contains.",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runStatus(outputJSON)
		},
	}

	return cmd
}

func runStatus(outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	resp, err := api.Get("/status")
	if err != nil {
		return fmt.Errorf("status request failed: %w", err)
	}

	var statusResp StatusResponse
	if err := json.Unmarshal(resp.Data, &statusResp); err != nil {
		return fmt.Errorf("failed to parse status response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(statusResp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if !statusResp.Ready {
		fmt.Println("No index built yet. Run 'quarry index <file>...' to build one.")
		return nil
	}

	fmt.Printf("Index ready: %d documents, %d chunks\n", statusResp.Documents, statusResp.Chunks)
	fmt.Printf("Build:       %s\n", statusResp.BuildID)
	fmt.Printf("Model:       %s\n", statusResp.Model)
	fmt.Printf("Built at:    %s\n", statusResp.BuiltAt)

	return nil
}
