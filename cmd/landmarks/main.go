package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/woozymasta/mapdata/internal/config"
	"github.com/woozymasta/mapdata/internal/geo"
	"github.com/woozymasta/mapdata/internal/landmark"
	"github.com/woozymasta/mapdata/internal/logger"
	"github.com/woozymasta/mapdata/internal/sparql"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"   env:"CONFIG_FILE"       description:"Path to configuration file" default:"config.yaml"`
	Output     string `short:"o" long:"out"      env:"LANDMARKS_CSV"     description:"Output CSV file" default:"landmarks.csv"`
	GeoJSON    string `short:"g" long:"geojson"  env:"LANDMARKS_GEOJSON" description:"Also write landmarks as GeoJSON to this file"`
	Limit      int    `short:"l" long:"limit"    env:"LANDMARKS_LIMIT"   description:"Override the number of landmarks to request"`
	Language   string `long:"language"           env:"LANDMARKS_LANG"    description:"Override the label fallback language"`
	Minify     bool   `short:"m" long:"minify"   description:"Minify GeoJSON output"`
}

func main() {
	envErr := godotenv.Load()

	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		log.Warn().Err(envErr).Msg("Failed to load .env file")
	}

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	query := landmark.Query{
		LandmarkClass: cfg.Landmarks.LandmarkClass,
		CityClass:     cfg.Landmarks.CityClass,
		Language:      cfg.Landmarks.Language,
		Limit:         cfg.Landmarks.Limit,
	}
	if opts.Limit > 0 {
		query.Limit = opts.Limit
	}
	if opts.Language != "" {
		query.Language = opts.Language
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := sparql.NewClient(cfg.Landmarks.Endpoint, cfg.Landmarks.UserAgent, cfg.Landmarks.Timeout)

	log.Info().
		Str("endpoint", cfg.Landmarks.Endpoint).
		Int("limit", query.Limit).
		Str("language", query.Language).
		Msg("Starting landmark export")

	sum, err := landmark.Export(ctx, client, query, landmark.ExportOptions{
		CSVPath:      opts.Output,
		GeoJSONPath:  opts.GeoJSON,
		NameProperty: cfg.Merge.NameProperty,
		GeoJSON:      geo.SaveOptions{Indent: cfg.Merge.Indent, Minify: opts.Minify},
		Progress:     landmark.LogProgress,
	})
	if err != nil {
		stop()
		fatal(err)
	}

	log.Info().
		Str("path", opts.Output).
		Int("results", sum.Total).
		Int("written", len(sum.Landmarks)).
		Int("skipped", len(sum.Skipped)).
		Msg("Done! Landmarks saved")
}

// fatal logs err with the details an operator needs and exits.
func fatal(err error) {
	var statusErr *sparql.StatusError
	var parseErr *sparql.ParseError

	switch {
	case errors.As(err, &statusErr):
		log.Fatal().
			Int("status", statusErr.Code).
			Str("body", statusErr.Body).
			Msg("HTTP error from query service")
	case errors.As(err, &parseErr):
		log.Fatal().
			Err(parseErr.Err).
			Str("preview", parseErr.Preview).
			Msg("Failed to parse JSON. Response may not be valid JSON")
	default:
		log.Fatal().Err(err).Msg("Landmark export failed")
	}
}
