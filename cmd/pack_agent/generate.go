package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/theronnieguidry/teachers-assistant/internal/config"
	"github.com/theronnieguidry/teachers-assistant/internal/credits"
	"github.com/theronnieguidry/teachers-assistant/internal/db"
	"github.com/theronnieguidry/teachers-assistant/internal/images"
	"github.com/theronnieguidry/teachers-assistant/internal/inspiration"
	"github.com/theronnieguidry/teachers-assistant/internal/observability"
	"github.com/theronnieguidry/teachers-assistant/internal/pipeline"
	"github.com/theronnieguidry/teachers-assistant/internal/stock"
	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a teacher pack end-to-end",
	Long: `Runs one full generation: planning (premium modes), validation and repair,
image generation (premium worksheet mode), assembly, and the quality gate.
Credits are reserved up front on the cloud variant and reconciled against
actual token usage when the run completes; rejected or failed runs are never charged.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runGenerateCmd,
}

var (
	genConfigPath    string
	genUserID        string
	genTitle         string
	genPrompt        string
	genGrade         string
	genSubject       string
	genQuestionCount int
	genDifficulty    string
	genFormat        string
	genAnswerKey     bool
	genMode          string
	genVisuals       bool
	genRichness      string
	genStyle         string
	genLessonMinutes int
	genConfidence    string
	genVariant       string
	genAPIKey        string
	genOllamaHost    string
	genDatabaseURL   string
	genVerbose       bool
)

func init() {
	// Config file flag (processed first)
	generateCmd.Flags().StringVar(&genConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	generateCmd.Flags().StringVar(&genUserID, "user-id", "", "User UUID owning the project and credit account")
	generateCmd.Flags().StringVar(&genTitle, "title", "", "Project title (defaults to the subject)")
	generateCmd.Flags().StringVarP(&genPrompt, "prompt", "p", "", "What to generate, in the teacher's own words")
	generateCmd.Flags().StringVarP(&genGrade, "grade", "g", "", "Grade level, e.g. \"3rd grade\"")
	generateCmd.Flags().StringVarP(&genSubject, "subject", "s", "", "Subject, e.g. \"math\"")
	generateCmd.Flags().IntVarP(&genQuestionCount, "questions", "q", 10, "Number of worksheet questions (1-50)")
	generateCmd.Flags().StringVar(&genDifficulty, "difficulty", "", "Question difficulty: easy, medium, or hard")
	generateCmd.Flags().StringVarP(&genFormat, "format", "f", "worksheet", "Output format: worksheet, lesson_plan, or combined")
	generateCmd.Flags().BoolVar(&genAnswerKey, "answer-key", false, "Include an answer key")
	generateCmd.Flags().StringVarP(&genMode, "mode", "m", "standard", "Pipeline: standard, premium_worksheet, or premium_lesson_plan")
	generateCmd.Flags().BoolVar(&genVisuals, "visuals", false, "Generate images (premium worksheet mode, cloud variant only)")
	generateCmd.Flags().StringVar(&genRichness, "richness", "", "Visual richness: minimal, standard, or rich")
	generateCmd.Flags().StringVar(&genStyle, "style", "", "Image style, e.g. \"line art\"")
	generateCmd.Flags().IntVar(&genLessonMinutes, "lesson-minutes", 0, "Lesson length in minutes (10-180, default 45)")
	generateCmd.Flags().StringVar(&genConfidence, "confidence", "", "Teacher confidence: novice or experienced")
	generateCmd.Flags().StringVar(&genVariant, "variant", "", "Capability backend: cloud (Gemini) or local (Ollama)")
	generateCmd.Flags().StringVar(&genAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	generateCmd.Flags().StringVar(&genOllamaHost, "ollama-host", "", "Ollama base URL (local variant, default http://localhost:11434)")
	generateCmd.Flags().StringVar(&genDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	generateCmd.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(generateCmd)
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if genConfigPath != "" {
		loadedCfg, err := config.LoadConfig(genConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Validate loaded config
		if err := loadedCfg.Validate(); err != nil {
			return err
		}

		cfg = *loadedCfg
		if genVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", genConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("user-id") {
		cfg.UserID = genUserID
	}
	if cmd.Flags().Changed("variant") {
		cfg.Variant = genVariant
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = genAPIKey
	}
	if cmd.Flags().Changed("ollama-host") {
		cfg.OllamaHost = genOllamaHost
	}
	if cmd.Flags().Changed("grade") {
		cfg.Grade = genGrade
	}
	if cmd.Flags().Changed("subject") {
		cfg.Subject = genSubject
	}
	if cmd.Flags().Changed("questions") {
		cfg.QuestionCount = genQuestionCount
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = genDatabaseURL
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = genVerbose
	}

	// Step 3: Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(config.Config{
		Variant:       "cloud",
		QuestionCount: 10,
	})

	// Step 4: Validate required fields
	if genPrompt == "" {
		return fmt.Errorf("--prompt is required")
	}
	if cfg.Grade == "" {
		return fmt.Errorf("--grade is required (via flag or config)")
	}
	if cfg.Subject == "" {
		return fmt.Errorf("--subject is required (via flag or config)")
	}
	if cfg.UserID == "" {
		return fmt.Errorf("--user-id is required (via flag or config)")
	}

	uid, err := uuid.Parse(cfg.UserID)
	if err != nil {
		return fmt.Errorf("invalid user_id format: %w", err)
	}

	// Step 5: Database URL handling
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	client, err := buildClient(ctx, &cfg)
	if err != nil {
		return err
	}
	defer client.Close() //nolint:errcheck

	title := genTitle
	if title == "" {
		title = cfg.Subject
	}
	projectID, err := database.CreateProject(ctx, uid, title)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	req := buildRequest(projectID, &cfg)

	deps := &pipeline.Deps{
		Store:      database,
		Ledger:     credits.NewLedger(database),
		Client:     client,
		Parser:     inspiration.NewParser(),
		Stock:      stock.NewSubstituter(nil, nil),
		ImageCache: images.NewCache(),
		Printer:    observability.NewPrinter(os.Stdout),
		Verbose:    cfg.Verbose,
	}

	onProgress := func(event pipeline.ProgressEvent) {
		fmt.Printf("[%3d%%] %s\n", event.Percent, event.Message)
	}

	result, err := pipeline.Generate(ctx, deps, req, uid, onProgress)
	if err != nil {
		return fmt.Errorf("%s", pipeline.UserMessage(err))
	}

	deps.Printer.PrintResult(result)
	return nil
}

// buildRequest assembles the generation request from merged flags and config.
func buildRequest(projectID uuid.UUID, cfg *config.Config) *types.GenerationRequest {
	req := &types.GenerationRequest{
		ProjectID:        projectID,
		Prompt:           genPrompt,
		Grade:            cfg.Grade,
		Subject:          cfg.Subject,
		QuestionCount:    cfg.QuestionCount,
		Difficulty:       types.Difficulty(genDifficulty),
		Format:           types.OutputFormat(genFormat),
		IncludeAnswerKey: genAnswerKey,
		Mode:             types.PipelineKind(genMode),
	}

	if genVisuals {
		req.Visuals = &types.VisualSettings{
			Enabled:  true,
			Richness: types.VisualRichness(genRichness),
			Style:    genStyle,
		}
	}

	if genLessonMinutes > 0 || genConfidence != "" {
		req.Pedagogy = &types.PedagogyFlags{
			LessonMinutes: genLessonMinutes,
			Confidence:    types.TeacherConfidence(genConfidence),
		}
	}

	return req
}
