package cmd

import (
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chaudhari-piyush/talentlens/internal/talentlens"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage job postings",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List job postings",
	Run: func(_ *cobra.Command, _ []string) {
		c := mustConsole()

		jobs, err := c.api.ListJobs()
		if err != nil {
			c.logger.Fatal("listing jobs", zap.Error(err))
		}

		c.logger.Info("jobs fetched", zap.Int("count", jobs.Len()))
		printJSON(jobs.Items)
	},
}

var jobsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a job posting",
	Run: func(cmd *cobra.Command, _ []string) {
		c := mustConsole()

		job, err := c.api.CreateJob(jobRequestFromFlags(cmd))
		if err != nil {
			c.logger.Fatal("creating job", zap.Error(err))
		}

		c.logger.Info("job created", zap.Int64("job_id", job.ID), zap.String("name", job.Name))
	},
}

var jobsUpdateCmd = &cobra.Command{
	Use:   "update <job-id>",
	Short: "Update a job posting",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := mustConsole()

		id := parseID(c, args[0])
		job, err := c.api.UpdateJob(id, jobRequestFromFlags(cmd))
		if err != nil {
			c.logger.Fatal("updating job", zap.Error(err))
		}

		c.logger.Info("job updated", zap.Int64("job_id", job.ID), zap.String("name", job.Name))
	},
}

var jobsDeleteCmd = &cobra.Command{
	Use:   "delete <job-id>",
	Short: "Delete a job posting and its candidates",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := mustConsole()

		id := parseID(c, args[0])
		if !confirm(cmd, "Deleting a job removes all of its candidates. Proceed?") {
			c.logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}

		if err := c.api.DeleteJob(id); err != nil {
			c.logger.Fatal("deleting job", zap.Error(err))
		}

		c.logger.Info("job deleted", zap.Int64("job_id", id))
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsCreateCmd)
	jobsCmd.AddCommand(jobsUpdateCmd)
	jobsCmd.AddCommand(jobsDeleteCmd)

	for _, cmd := range []*cobra.Command{jobsCreateCmd, jobsUpdateCmd} {
		cmd.Flags().String("name", "", "job title")
		cmd.Flags().String("description", "", "job description")
		cmd.Flags().StringSlice("skills", nil, "expected skills (at least one)")
	}

	jobsDeleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

func jobRequestFromFlags(cmd *cobra.Command) *talentlens.JobRequest {
	name, _ := cmd.Flags().GetString("name")
	description, _ := cmd.Flags().GetString("description")
	skills, _ := cmd.Flags().GetStringSlice("skills")

	return &talentlens.JobRequest{
		Name:           name,
		Description:    description,
		ExpectedSkills: skills,
	}
}

func parseID(c *console, raw string) int64 {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.logger.Fatal("invalid id", zap.String("value", raw))
	}
	return id
}

func confirm(cmd *cobra.Command, label string) bool {
	if flag := cmd.Flag("yes"); flag != nil && flag.Value.String() == "true" {
		return true
	}

	prompt := promptui.Select{
		Label: label,
		Items: []string{PromptYes, PromptNo},
	}

	_, answer, err := prompt.Run()
	if err != nil {
		return false
	}

	return answer == PromptYes
}
