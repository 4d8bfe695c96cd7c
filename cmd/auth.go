package cmd

import (
	"context"
	"log"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and persist the session token",
	Run: func(_ *cobra.Command, _ []string) {
		c := mustConsole()

		email, password, err := credentialsPrompt()
		if err != nil {
			c.logger.Fatal("reading credentials", zap.Error(err))
		}

		profile, err := c.session.SignIn(email, password)
		if err != nil {
			c.logger.Fatal("signing in", zap.Error(err))
		}

		saveToken(c)
		c.logger.Info("signed in",
			zap.String("email", profile.Email),
			zap.Bool("terms_accepted", profile.TermsAccepted),
		)
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and sign in",
	Run: func(_ *cobra.Command, _ []string) {
		c := mustConsole()

		email, password, err := credentialsPrompt()
		if err != nil {
			c.logger.Fatal("reading credentials", zap.Error(err))
		}

		profile, err := c.session.SignUp(email, password)
		if err != nil {
			c.logger.Fatal("signing up", zap.Error(err))
		}

		saveToken(c)
		c.logger.Info("account created", zap.String("email", profile.Email))
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and drop the persisted token",
	Run: func(_ *cobra.Command, _ []string) {
		c := mustConsole()

		c.session.SignOut()

		if file := tokenFile(c.config); file != "" {
			if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
				c.logger.Warn("removing token file", zap.String("file", file), zap.Error(err))
			}
		}

		c.logger.Info("signed out")
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(logoutCmd)
}

func mustConsole() *console {
	c, err := newConsole(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	return c
}

func credentialsPrompt() (string, string, error) {
	emailPrompt := promptui.Prompt{Label: "Email"}
	email, err := emailPrompt.Run()
	if err != nil {
		return "", "", err
	}

	passwordPrompt := promptui.Prompt{Label: "Password", Mask: '*'}
	password, err := passwordPrompt.Run()
	if err != nil {
		return "", "", err
	}

	return email, password, nil
}

func saveToken(c *console) {
	file := tokenFile(c.config)
	if file == "" {
		c.logger.Warn("token file is not configured; the session will not survive this process",
			zap.String("hint", "set TALENTLENS_TOKEN_FILE or the 'token-file' key in the configuration file"),
		)
		return
	}

	token, err := c.provider.Token()
	if err != nil {
		c.logger.Warn("no token to persist", zap.Error(err))
		return
	}

	if err := os.WriteFile(file, []byte(token), 0o600); err != nil {
		c.logger.Warn("persisting token", zap.String("file", file), zap.Error(err))
	}
}
