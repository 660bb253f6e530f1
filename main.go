// Package main provides the entry point for the SciGenius tutor.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/scigenius/tutor/internal/audio"
	"github.com/scigenius/tutor/internal/gen"
	"github.com/scigenius/tutor/internal/lesson"
	"github.com/scigenius/tutor/internal/topic"
	"github.com/scigenius/tutor/ui"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	topicsFile string
	voice      string
	volume     float64

	rootCmd = &cobra.Command{
		Use:   "tutor [TOPICS_FILE]",
		Short: "AI science lessons in your terminal",
		Long: paragraph(
			fmt.Sprintf("\nGenerated science lessons with narration, %s!", keyword("right in your terminal")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(cmd *cobra.Command) error {
	voice = viper.GetString("generation.voice")
	volume = viper.GetFloat64("volume")

	if volume < 0 || volume > 1 {
		return fmt.Errorf("volume must be between 0.0 and 1.0, got %.2f", volume)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tutor requires an interactive terminal")
	}

	if !cmd.Flags().Changed("topics") {
		topicsFile = viper.GetString("topics")
	}
	return nil
}

func execute(_ *cobra.Command, args []string) error {
	if len(args) == 1 {
		topicsFile = args[0]
	}

	catalog, err := topic.Load(topicsFile)
	if err != nil {
		return fmt.Errorf("unable to load topics: %w", err)
	}

	genCfg := gen.DefaultConfig()
	if err := viper.UnmarshalKey("generation", &genCfg); err != nil {
		return fmt.Errorf("unable to parse generation config: %w", err)
	}
	// Environment wins over the config file.
	if err := env.Parse(&genCfg); err != nil {
		return fmt.Errorf("error parsing environment: %w", err)
	}
	if voice != "" {
		genCfg.Voice = voice
	}

	return runTUI(catalog, genCfg)
}

func runTUI(catalog *topic.Catalog, genCfg gen.Config) error {
	ctx := context.Background()

	client, err := gen.NewClient(ctx, genCfg)
	if err != nil {
		return err
	}

	out, err := audio.NewOtoOutput()
	if err != nil {
		return fmt.Errorf("unable to open audio output: %w", err)
	}

	engine := audio.NewEngine(out)
	if err := engine.SetGain(volume); err != nil {
		return err
	}

	controller := lesson.NewController(ctx, client, engine)
	defer controller.Close() //nolint:errcheck

	return ui.Run(ui.NewModel(catalog, controller, client))
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().StringVar(&topicsFile, "topics", "", "topic catalog file (YAML)")
	rootCmd.Flags().StringVar(&voice, "voice", "", "narration voice name")
	rootCmd.Flags().Float64VarP(&volume, "volume", "v", 1.0, "playback volume (0.0 to 1.0)")

	// Config bindings
	_ = viper.BindPFlag("topics", rootCmd.Flags().Lookup("topics"))
	_ = viper.BindPFlag("generation.voice", rootCmd.Flags().Lookup("voice"))
	_ = viper.BindPFlag("volume", rootCmd.Flags().Lookup("volume"))

	viper.SetDefault("topics", "")
	viper.SetDefault("volume", 1.0)
	viper.SetDefault("generation.voice", "Aoede")

	rootCmd.AddCommand(configCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "tutor")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "tutor")}, dirs...)
	}

	if c := os.Getenv("TUTOR_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("tutor")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("tutor")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "tutor.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
