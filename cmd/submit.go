package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chaudhari-piyush/talentlens/internal/submission"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a candidate with a PDF resume",
	Run: func(cmd *cobra.Command, _ []string) {
		submit(cmd)
	},
}

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().String("name", "", "candidate full name")
	submitCmd.Flags().String("email", "", "candidate email address")
	submitCmd.Flags().String("phone", "", "candidate phone number")
	submitCmd.Flags().Int64("job", 0, "job id to attach the candidate to (interactive picker when omitted)")
	submitCmd.Flags().String("resume", "", "path to the resume PDF")
}

func submit(cmd *cobra.Command) {
	ctx := context.Background()
	c := mustConsole()

	jobID, _ := cmd.Flags().GetInt64("job")
	if jobID == 0 {
		var err error
		jobID, err = pickJob(c)
		if err != nil {
			c.logger.Fatal("choosing a job", zap.Error(err))
		}
	}

	resumePath, _ := cmd.Flags().GetString("resume")
	var resume []byte
	if resumePath != "" {
		var err error
		resume, err = os.ReadFile(resumePath)
		if err != nil {
			c.logger.Fatal("reading resume file", zap.Error(err))
		}
	}

	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	phone, _ := cmd.Flags().GetString("phone")

	workflow := submission.New(c.api, c.logger)
	workflow.OnUpdate(func(s submission.Snapshot) {
		c.logger.Debug("submission stage",
			zap.String("state", s.State.String()),
			zap.Int("progress", s.Progress),
		)
	})

	candidate, err := workflow.Submit(ctx, &submission.Input{
		Name:           name,
		Email:          email,
		Phone:          phone,
		JobID:          jobID,
		ResumeFilename: filepath.Base(resumePath),
		Resume:         resume,
	})
	if err != nil {
		snapshot := workflow.Snapshot()
		c.logger.Fatal("submission failed",
			zap.String("reason", snapshot.Reason),
			zap.Error(err),
		)
	}

	c.logger.Info("candidate created; resume analysis has started",
		zap.Int64("candidate_id", candidate.ID),
		zap.String("name", candidate.Name),
	)
}

// pickJob fetches the job list and lets the recruiter choose interactively.
func pickJob(c *console) (int64, error) {
	jobs, err := c.api.ListJobs()
	if err != nil {
		return 0, err
	}
	if jobs.Len() == 0 {
		return 0, fmt.Errorf("no job postings exist yet; create one with 'talentlens jobs create'")
	}

	items := make([]string, 0, jobs.Len())
	for _, job := range jobs.Items {
		items = append(items, fmt.Sprintf("%d %s", job.ID, job.Name))
	}

	prompt := promptui.Select{
		Label: "Choose a job position and press ENTER",
		Items: items,
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return 0, err
	}

	return jobs.Items[idx].ID, nil
}
