package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jawnty/li-analyzer/internal/ai"
	"github.com/jawnty/li-analyzer/internal/ai/gemini"
	"github.com/jawnty/li-analyzer/internal/company"
	"github.com/jawnty/li-analyzer/internal/filtering"
	"github.com/jawnty/li-analyzer/internal/leads"
	"github.com/jawnty/li-analyzer/internal/logger"
	"github.com/jawnty/li-analyzer/internal/matching"
	"github.com/jawnty/li-analyzer/internal/report"
	"github.com/jawnty/li-analyzer/internal/roster"
	"github.com/jawnty/li-analyzer/internal/scoring"
	"github.com/jawnty/li-analyzer/internal/secrets"
	"github.com/jawnty/li-analyzer/internal/tabular"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes             = "Yes, save the report"
	PromptNo              = "No"
	PromptReportByCompany = "Report by companies"
	PromptLeadsToFile     = "Dump leads to file"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Save the report?",
	Items: []string{PromptYes, PromptNo, PromptReportByCompany, PromptLeadsToFile},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the li-analyzer main command",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before saving the report")
	runCmd.Flags().StringP("output", "o", "", "destination file for the report. Default is taken from the config.")

	viper.BindPFlag("output.file", runCmd.Flags().Lookup("output"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the li-analyzer", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	filterConfig, err := buildFilterConfig(config)
	if err != nil {
		logger.Fatal("validating config", zap.Error(err))
	}

	index := loadCompanies(config, logger)
	connections := loadConnections(config, logger)

	deps, steps := prepareFilters(ctx, config, index, logger)

	found, err := filtering.Run(ctx, filterConfig, deps, steps, leads.FromConnections(connections))
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if found.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no leads left after filters"))
		return
	}

	logger.Info("identified potential leads", zap.Int("count", found.Len()))

	action := PromptYes
	for {
		var err error
		if cmd.Flag("auto-approve").Value.String() == "false" {
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		if err := handleAction(action, logger, config, found); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, config *Config, found *leads.Leads) error {
	switch action {
	case PromptYes:
		if err := report.Write(found, config.Output.File); err != nil {
			return err
		}
		logger.Info("saved potential leads",
			zap.String("filename", config.Output.File),
			zap.Int("count", found.Len()),
		)
		return errExit
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptReportByCompany:
		pretty, _ := json.MarshalIndent(found.ReportByCompany(), "", "  ")
		logger.Info(string(pretty), zap.Int("leads count", found.Len()))
		return nil
	case PromptLeadsToFile:
		filename, err := found.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump leads to file: %w", err)
		}
		logger.Info("dumping leads to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func loadCompanies(config *Config, logger *zap.Logger) *company.Index {
	table, err := tabular.Read(config.Input.CompaniesFile)
	if err != nil {
		logger.Fatal("loading companies file", zap.Error(err))
	}

	index, err := company.Build(table)
	if err != nil {
		logger.Fatal("building company index", zap.Error(err))
	}

	logger.Info("built company index",
		zap.Int("companies", index.Len()),
		zap.Int("skipped rows", index.Skipped()),
	)

	if index.Len() == 0 {
		logger.Fatal("no usable companies in the companies file")
	}

	return index
}

func loadConnections(config *Config, logger *zap.Logger) *roster.Connections {
	connections, err := roster.Load(config.Input.ConnectionsFile)
	if err != nil {
		logger.Fatal("loading connections file", zap.Error(err))
	}

	logger.Info("loaded connections", zap.Int("count", connections.Len()))

	return connections
}

// buildFilterConfig validates the user-facing settings and converts them to
// the filtering package form.
func buildFilterConfig(config *Config) (*filtering.Config, error) {
	if config.Match.Threshold < 0 || config.Match.Threshold > 100 {
		return nil, fmt.Errorf("match.threshold must be within [0, 100], got %d", config.Match.Threshold)
	}

	minCap, err := parseCapValue(config.MarketCap.Min)
	if err != nil {
		return nil, fmt.Errorf("market-cap.min: %w", err)
	}

	maxCap, err := parseCapValue(config.MarketCap.Max)
	if err != nil {
		return nil, fmt.Errorf("market-cap.max: %w", err)
	}

	filterConfig := &filtering.Config{
		MinMarketCap: minCap,
		MaxMarketCap: maxCap,
		MinSeniority: config.Seniority.MinimumScore,
	}

	if config.AI != nil {
		filterConfig.AI = &filtering.AIConfig{
			Enabled:         config.AI.Enabled,
			Provider:        config.AI.Provider,
			MinimumFitScore: config.AI.MinimumFitScore,
		}
		if config.AI.Gemini != nil {
			filterConfig.AI.Gemini = &filtering.GeminiConfig{
				Model:        config.AI.Gemini.Model,
				MaxRetries:   config.AI.Gemini.MaxRetries,
				MaxLogLength: config.AI.Gemini.MaxLogLength,
			}
		}
	}

	return filterConfig, nil
}

// parseCapValue accepts a plain YAML number or a money string like "$50M".
func parseCapValue(value any) (float64, error) {
	switch v := value.(type) {
	case nil:
		return 0, errors.New("value is required")
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		return company.ParseMarketCap(v)
	default:
		return company.ParseMarketCap(fmt.Sprintf("%v", v))
	}
}

func prepareFilters(ctx context.Context, config *Config, index *company.Index, logger *zap.Logger) (filtering.Deps, []filtering.Filter) {
	keywords := config.Seniority.Keywords
	if len(keywords) == 0 {
		keywords = scoring.DefaultKeywords()
	}

	penalties := config.Seniority.Penalties
	if len(penalties) == 0 {
		penalties = scoring.DefaultPenalties()
	}

	deps := filtering.Deps{
		Logger:  logger,
		Matcher: matching.New(index, config.Match.Threshold, nil),
		Scorer:  scoring.New(keywords, penalties),
	}

	steps := []filtering.Filter{
		filtering.NewCompleteness(),
		filtering.NewCompanyMatch(),
		filtering.NewMarketCap(),
		filtering.NewSeniority(),
		filtering.NewAIFit(),
	}

	if config.AI != nil && config.AI.Enabled {
		assessor, err := newAIAssessor(ctx, config.AI, logger)
		if err != nil {
			logger.Warn("skipping AI filter", zap.Error(err))
			filtering.DisableByName(steps, "ai_fit", err.Error())
		} else {
			deps.Assessor = assessor
		}
	}

	logger.Debug("prepared filters", zap.Any("statuses", filtering.Describe(steps)))

	return deps, steps
}

func newAIAssessor(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Assessor, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai filter is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	aiLogger := logger.WithCommonFields(log, "gemini", cfg.Gemini.Model)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, aiLogger)
	if err != nil {
		return nil, err
	}

	minScore := cfg.MinimumFitScore
	if minScore < 0 {
		minScore = 0
	}

	return gemini.NewAssessor(generator, aiLogger, minScore, cfg.Gemini.MaxLogLength), nil
}
