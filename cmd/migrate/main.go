// migrate aplica o revierte las migraciones embebidas del esquema.
//
// Uso:
//
//	go run ./cmd/migrate              # up
//	go run ./cmd/migrate -cmd down
//	go run ./cmd/migrate -cmd steps -n -1
//	go run ./cmd/migrate -cmd force -version 2
//	go run ./cmd/migrate -cmd version
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/stockmaster/internal/infrastructure/postgres"
	"github.com/jhoicas/stockmaster/pkg/config"
	"github.com/jhoicas/stockmaster/pkg/logger"
)

func main() {
	cmd := flag.String("cmd", "up", "up | down | steps | version | force")
	steps := flag.Int("n", 1, "número de pasos para -cmd steps (negativo revierte)")
	version := flag.Int("version", -1, "versión para -cmd force")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: cfg.App.Name + "-migrate"})

	m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar migraciones")
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar migrador")
		}
	}()

	switch *cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		err = m.Steps(*steps)
	case "force":
		if *version < 0 {
			log.Fatal().Msg("-cmd force requiere -version")
		}
		err = m.Force(*version)
	case "version":
		v, dirty, verr := m.Version()
		if verr == nil {
			log.Info().Uint("version", v).Bool("dirty", dirty).Msg("versión del esquema")
		}
		err = verr
	default:
		log.Fatal().Str("cmd", *cmd).Msg("comando desconocido")
	}
	if err != nil {
		log.Fatal().Err(err).Str("cmd", *cmd).Msg("migración fallida")
	}
}
