package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "li-analyzer"
)

type Config struct {
	Input struct {
		ConnectionsFile string `mapstructure:"connections-file"`
		CompaniesFile   string `mapstructure:"companies-file"`
	} `mapstructure:"input"`
	Output struct {
		File string `mapstructure:"file"`
	} `mapstructure:"output"`
	Match struct {
		// Threshold is the minimum similarity (0-100) for a company match.
		Threshold int `mapstructure:"threshold"`
	} `mapstructure:"match"`
	MarketCap struct {
		// Min and Max accept plain numbers or money strings like "50M"
		// and "$2.5B".
		Min any `mapstructure:"min"`
		Max any `mapstructure:"max"`
	} `mapstructure:"market-cap"`
	Seniority struct {
		MinimumScore int            `mapstructure:"minimum-score"`
		Keywords     map[string]int `mapstructure:"keywords"`
		Penalties    map[string]int `mapstructure:"penalties"`
	} `mapstructure:"seniority"`
	AI *AIConfig `mapstructure:"ai"`
}

type AIConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Provider        string        `mapstructure:"provider"`
	MinimumFitScore float64       `mapstructure:"minimum-fit-score"`
	Gemini          *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "li-analyzer finds high-value sales leads in an exported connections list",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is li-analyzer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	viper.SetDefault("input.connections-file", "Connections.csv")
	viper.SetDefault("input.companies-file", "Companies.csv")
	viper.SetDefault("output.file", "potential_leads.csv")
	viper.SetDefault("match.threshold", 85)
	viper.SetDefault("market-cap.min", "50M")
	viper.SetDefault("market-cap.max", "100M")
	viper.SetDefault("seniority.minimum-score", 60)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
