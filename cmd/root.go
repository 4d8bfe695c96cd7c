package cmd

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "talentlens"
)

type Config struct {
	APIURL    string          `mapstructure:"api-url"`
	UserAgent string          `mapstructure:"user-agent"`
	TokenFile string          `mapstructure:"token-file"`
	Identity  *IdentityConfig `mapstructure:"identity"`
}

type IdentityConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Endpoint   string `mapstructure:"endpoint"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "talentlens is a recruiter console for managing job postings and AI-scored candidates",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("token-file", "TALENTLENS_TOKEN_FILE"); err != nil {
		log.Fatalf("binding TALENTLENS_TOKEN_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("identity.api-key-file", "TALENTLENS_IDENTITY_API_KEY_FILE"); err != nil {
		log.Fatalf("binding TALENTLENS_IDENTITY_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is talentlens.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("api-url", "", "base URL of the talentlens backend")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("api-url", rootCmd.PersistentFlags().Lookup("api-url"))
}

func initConfig() {
	// .env is a developer convenience; missing file is fine.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// The config file is optional unless explicitly requested; every key has
	// a default or an environment binding.
	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}

	return config, nil
}
