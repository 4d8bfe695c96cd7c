package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chaudhari-piyush/talentlens/internal/scoring"
)

const recentLimit = 5

type dashboardReport struct {
	Stats            scoring.Stats  `json:"stats"`
	RecentJobs       []jobRow       `json:"recent_jobs"`
	RecentCandidates []candidateRow `json:"recent_candidates"`
}

type jobRow struct {
	ID     int64    `json:"id"`
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show recruitment pipeline statistics and recent activity",
	Run: func(_ *cobra.Command, _ []string) {
		c := mustConsole()

		if profile := c.session.Profile(); profile != nil {
			c.logger.Info("welcome back", zap.String("email", profile.Email))
		}

		// Jobs and candidates load together; a single failure keeps the
		// dashboard on whatever was shown before rather than half of it.
		if err := c.store.Refresh(); err != nil {
			c.logger.Fatal("loading jobs and candidates", zap.Error(err))
		}

		jobs := c.store.Jobs()
		candidates := c.store.Candidates()

		report := dashboardReport{
			Stats: scoring.Aggregate(jobs, candidates),
		}

		for _, job := range jobs.Items {
			if len(report.RecentJobs) == recentLimit {
				break
			}
			report.RecentJobs = append(report.RecentJobs, jobRow{
				ID:     job.ID,
				Name:   job.Name,
				Skills: job.ExpectedSkills,
			})
		}

		for _, candidate := range candidates.Items {
			if len(report.RecentCandidates) == recentLimit {
				break
			}
			report.RecentCandidates = append(report.RecentCandidates, candidateRow{
				ID:        candidate.ID,
				Name:      candidate.Name,
				Email:     candidate.Email,
				Job:       scoring.JobName(candidate, jobs),
				Composite: scoring.CompositeLabel(candidate),
			})
		}

		printJSON(report)
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
