package cli

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/scout/internal/backend"
)

var (
	researchDomain     string
	researchCategories []string
	researchPrompts    []string
	researchOut        string
)

// researchCmd represents the research command
var researchCmd = &cobra.Command{
	Use:   "research <company-name>",
	Short: "Run backend research for a company and save the findings",
	Long: `Research asks the backend research service about a company and writes
the findings in the format 'scout extract', 'scout review' and
'scout publish' read.

Example:
  scout research "Acme Corp" --domain acme.com --category leadership,company-overview --out research.json`,
	Args: cobra.ExactArgs(1),
	RunE: runResearch,
}

func init() {
	rootCmd.AddCommand(researchCmd)
	researchCmd.Flags().StringVar(&researchDomain, "domain", "", "company web domain")
	researchCmd.Flags().StringSliceVar(&researchCategories, "category", nil, "research categories")
	researchCmd.Flags().StringSliceVar(&researchPrompts, "prompt", nil, "extra instructions for the research service")
	researchCmd.Flags().StringVar(&researchOut, "out", "", "write findings to this file instead of stdout")
}

func runResearch(cmd *cobra.Command, args []string) error {
	result, err := newBackend().Research(cmd.Context(), backendResearchRequest(args[0]))
	if err != nil {
		return err
	}
	logger.Info("research complete", zap.String("company", args[0]), zap.Int("findings", len(result.Findings)))

	if researchOut == "" {
		return writeOutput(cmd.OutOrStdout(), cfg.Output.Format, result)
	}
	f, err := os.Create(researchOut)
	if err != nil {
		return eris.Wrap(err, "create output file")
	}
	if err := writeOutput(f, cfg.Output.Format, result); err != nil {
		f.Close()
		return err
	}
	return eris.Wrap(f.Close(), "close output file")
}

func backendResearchRequest(company string) backend.ResearchRequest {
	return backend.ResearchRequest{
		CompanyName:   company,
		Domain:        researchDomain,
		Categories:    researchCategories,
		CustomPrompts: researchPrompts,
	}
}
