package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/greenwatt/energy-monitor/internal/config"
	httpHandlers "github.com/greenwatt/energy-monitor/internal/http"
	"github.com/greenwatt/energy-monitor/internal/service"
	"github.com/greenwatt/energy-monitor/internal/store"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	persister, cleanup, err := openPersister()
	if err != nil {
		log.Fatal().Err(err).Msg("storage open failed")
	}
	defer cleanup()

	st, err := store.Open(persister)
	if err != nil {
		log.Fatal().Err(err).Msg("store load failed")
	}

	svcs := service.New(st, log.Logger)
	app := fiber.New()

	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })

	httpHandlers.Register(app, svcs)

	addr := config.APIAddr()
	log.Info().Str("addr", addr).Str("backend", config.StoreBackend()).Msg("api listening")
	log.Fatal().Err(app.Listen(addr)).Msg("server exit")
}

func openPersister() (store.Persister, func(), error) {
	if config.StoreBackend() == "postgres" {
		p, err := store.OpenPostgres(config.DBDSN())
		if err != nil {
			return nil, nil, err
		}
		return p, func() { p.Close() }, nil
	}
	return store.NewFilePersister(config.DataFile()), func() {}, nil
}
