package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chaudhari-piyush/talentlens/internal/scoring"
	"github.com/chaudhari-piyush/talentlens/internal/talentlens"
)

// candidateRow is the list view: candidate joined to its job plus the derived
// composite score.
type candidateRow struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Job       string `json:"job"`
	Composite string `json:"composite_score"`
}

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "Manage candidates",
}

var candidatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List candidates with job names and composite scores",
	Run: func(cmd *cobra.Command, _ []string) {
		c := mustConsole()

		if err := c.store.Refresh(); err != nil {
			c.logger.Fatal("loading jobs and candidates", zap.Error(err))
		}

		selector, _ := cmd.Flags().GetString("job")
		candidates, err := scoring.FilterByJob(c.store.Candidates(), selector)
		if err != nil {
			c.logger.Fatal("filtering candidates", zap.Error(err))
		}

		jobs := c.store.Jobs()
		rows := make([]candidateRow, 0, candidates.Len())
		for _, candidate := range candidates.Items {
			rows = append(rows, candidateRow{
				ID:        candidate.ID,
				Name:      candidate.Name,
				Email:     candidate.Email,
				Job:       scoring.JobName(candidate, jobs),
				Composite: scoring.CompositeLabel(candidate),
			})
		}

		c.logger.Info("candidates fetched", zap.Int("count", candidates.Len()), zap.String("job", selector))
		printJSON(rows)
	},
}

var candidatesShowCmd = &cobra.Command{
	Use:   "show <candidate-id>",
	Short: "Show a candidate",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		c := mustConsole()

		id := parseID(c, args[0])
		candidate, err := c.api.GetCandidate(id)
		if err != nil {
			if talentlens.IsNotFound(err) {
				c.logger.Fatal("candidate not found",
					zap.Int64("candidate_id", id),
					zap.String("hint", "run 'talentlens candidates list' to see available candidates"),
				)
			}
			c.logger.Fatal("getting candidate", zap.Error(err))
		}

		printJSON(candidate)
	},
}

var candidatesDeleteCmd = &cobra.Command{
	Use:   "delete <candidate-id>",
	Short: "Delete a candidate",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := mustConsole()

		id := parseID(c, args[0])
		if !confirm(cmd, "Delete this candidate?") {
			c.logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}

		if err := c.api.DeleteCandidate(id); err != nil {
			c.logger.Fatal("deleting candidate", zap.Error(err))
		}

		c.logger.Info("candidate deleted", zap.Int64("candidate_id", id))
	},
}

var candidatesDownloadCmd = &cobra.Command{
	Use:   "download <candidate-id>",
	Short: "Download a candidate's resume or Q&A document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := mustConsole()

		id := parseID(c, args[0])
		qa, _ := cmd.Flags().GetBool("qa")
		output, _ := cmd.Flags().GetString("output")

		var (
			data []byte
			err  error
		)
		if qa {
			data, err = c.api.DownloadQADocument(id)
			if talentlens.IsNotFound(err) {
				c.logger.Fatal("Q&A document is not available yet; resume analysis may still be running",
					zap.Int64("candidate_id", id),
				)
			}
		} else {
			data, err = c.api.DownloadResume(id)
		}
		if err != nil {
			c.logger.Fatal("downloading document", zap.Error(err))
		}

		if err := os.WriteFile(output, data, 0o644); err != nil {
			c.logger.Fatal("writing document", zap.String("file", output), zap.Error(err))
		}

		c.logger.Info("document saved", zap.String("file", output), zap.Int("bytes", len(data)))
	},
}

func init() {
	rootCmd.AddCommand(candidatesCmd)
	candidatesCmd.AddCommand(candidatesListCmd)
	candidatesCmd.AddCommand(candidatesShowCmd)
	candidatesCmd.AddCommand(candidatesDeleteCmd)
	candidatesCmd.AddCommand(candidatesDownloadCmd)

	candidatesListCmd.Flags().String("job", scoring.AllJobs, "filter by job id, or 'all'")
	candidatesDeleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	candidatesDownloadCmd.Flags().Bool("qa", false, "download the generated Q&A document instead of the resume")
	candidatesDownloadCmd.Flags().StringP("output", "o", "document.pdf", "output file")
}
