// Package commands implements the CLI commands for cvlens.
package commands

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cvlens/cvlens/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "cvlens",
	Short: "Extract structured data from PDF resumes using LLMs",
	Long: `cvlens parses PDF resumes into a fixed structured schema
(personal info, addresses, education, employment, skills) using a
pluggable LLM backend.

Examples:
  # Parse a single resume with local Ollama (default)
  cvlens parse resume.pdf

  # Parse with OpenAI and write next to the input
  cvlens parse resume.pdf -p openai -m gpt-4o-mini

  # Parse a whole directory concurrently
  cvlens batch ./resumes -o ./parsed -c 4`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.cvlens.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

func initConfig() {
	// Credentials often live in a local .env during development.
	_ = godotenv.Load()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".cvlens")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("CVLENS")
	viper.AutomaticEnv()

	// Also check common API key env vars
	_ = viper.BindEnv("api_key", "ANTHROPIC_API_KEY", "OPENAI_API_KEY")
	_ = viper.BindEnv("base_url", "OLLAMA_BASE_URL")

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

func initLogger() {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
	})
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
