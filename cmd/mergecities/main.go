package main

import (
	"errors"
	"os"

	"github.com/woozymasta/mapdata/internal/cities"
	"github.com/woozymasta/mapdata/internal/config"
	"github.com/woozymasta/mapdata/internal/geo"
	"github.com/woozymasta/mapdata/internal/logger"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile     string `short:"c" long:"config"           env:"CONFIG_FILE"    description:"Path to configuration file" default:"config.yaml"`
	GeoJSON        string `short:"g" long:"geojson"          env:"CITIES_GEOJSON" description:"Feature collection to merge into (overwritten)" default:"assets/cities.geojson"`
	Cities         string `short:"i" long:"cities"           env:"CITIES_JSON"    description:"JSON list of cities with name, lat and lng" default:"cities.json"`
	DedupeIncoming bool   `short:"d" long:"dedupe-incoming"  description:"Also drop names repeated within the cities list"`
	Minify         bool   `short:"m" long:"minify"           description:"Minify GeoJSON output"`
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

	added, err := cities.MergeFile(
		opts.GeoJSON,
		opts.Cities,
		cities.Options{
			NameProperty:   cfg.Merge.NameProperty,
			DedupeIncoming: opts.DedupeIncoming,
		},
		geo.SaveOptions{Indent: cfg.Merge.Indent, Minify: opts.Minify},
	)
	if err != nil {
		log.Fatal().
			Err(err).
			Str("geojson", opts.GeoJSON).
			Str("cities", opts.Cities).
			Msg("Failed to merge cities")
	}

	log.Info().Int("added", added).Msg("Merge finished successfully")
}
