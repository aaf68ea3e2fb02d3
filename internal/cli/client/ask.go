package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// AskRequest represents the ask API request.
type AskRequest struct {
	Query    string `json:"query"`
	ForceWeb bool   `json:"force_web"`
}

// AskSource represents one citation attached to an answer.
type AskSource struct {
	SourceType string `json:"source_type"`
	Reference  string `json:"reference"`
}

// AskEvidence represents one retrieved result backing an answer.
type AskEvidence struct {
	Kind       string  `json:"kind"`
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	URL        string  `json:"url,omitempty"`
	ChunkIndex int     `json:"chunk_index"`
	Score      float32 `json:"score"`
}

// AskSummary represents one per-document evidence summary.
type AskSummary struct {
	Title      string `json:"title"`
	Summary    string `json:"summary"`
	ChunksUsed int    `json:"chunks_used"`
}

// AskResponse represents the ask API response.
type AskResponse struct {
	Answer     string        `json:"answer"`
	Route      string        `json:"route"`
	Sources    []AskSource   `json:"sources"`
	Evidence   []AskEvidence `json:"evidence"`
	WebResults []AskEvidence `json:"web_results"`
	Summaries  []AskSummary  `json:"summaries"`
}

// AskCmd creates the ask command.
func AskCmd() *cobra.Command {
	var forceWeb bool
	var showEvidence bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question",
		Long:  "Asks a question against the indexed documents and, when routed there, the web.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runAsk(args[0], forceWeb, showEvidence, outputJSON)
		},
	}

	cmd.Flags().BoolVarP(&forceWeb, "web", "w", false, "Force a web search regardless of routing")
	cmd.Flags().BoolVar(&showEvidence, "evidence", false, "Print the retrieved evidence under the answer")

	return cmd
}

func runAsk(query string, forceWeb, showEvidence, outputJSON bool) error {
	api, err := NewAPIClient()
	if err != nil {
		return err
	}

	resp, err := api.Post("/ask", AskRequest{Query: query, ForceWeb: forceWeb})
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	var askResp AskResponse
	if err := json.Unmarshal(resp.Data, &askResp); err != nil {
		return fmt.Errorf("failed to parse ask response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(askResp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Route: %s\n\n", askResp.Route)
	fmt.Println(askResp.Answer)

	if len(askResp.Sources) > 0 {
		fmt.Printf("\nSources:\n")
		for _, src := range askResp.Sources {
			fmt.Printf("  [%s] %s\n", src.SourceType, src.Reference)
		}
	}

	if len(askResp.Summaries) > 0 {
		fmt.Printf("\nDocument summaries:\n")
		for _, s := range askResp.Summaries {
			fmt.Printf("  %s (%d chunks)\n", s.Title, s.ChunksUsed)
			fmt.Printf("    %s\n", s.Summary)
		}
	}

	if showEvidence {
		printEvidence("Evidence", askResp.Evidence)
		printEvidence("Web results", askResp.WebResults)
	}

	return nil
}

func printEvidence(header string, results []AskEvidence) {
	if len(results) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", header)
	for i, ev := range results {
		label := ev.Title
		if ev.URL != "" {
			label = fmt.Sprintf("%s (%s)", ev.Title, ev.URL)
		}
		fmt.Printf("%d. %s (%.2f)\n", i+1, label, ev.Score)
		snippet := strings.TrimSpace(ev.Content)
		if len(snippet) > 200 {
			snippet = snippet[:197] + "..."
		}
		fmt.Printf("   %s\n", snippet)
	}
}
