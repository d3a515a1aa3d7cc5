package main

import (
	"compress/flate"
	"context"
	"net/http"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gamedb/gridview/cmd/webserver/pages"
	"github.com/gamedb/gridview/pkg/config"
	"github.com/gamedb/gridview/pkg/datatable"
	"github.com/gamedb/gridview/pkg/entities"
	"github.com/gamedb/gridview/pkg/grid"
	"github.com/gamedb/gridview/pkg/helpers"
	"github.com/gamedb/gridview/pkg/log"
	"github.com/gamedb/gridview/pkg/middleware"
	"github.com/gamedb/gridview/pkg/mongo"
	"github.com/gamedb/gridview/pkg/ratelimit"
	"github.com/gamedb/gridview/pkg/session"
	"github.com/gamedb/gridview/pkg/settings"
	"github.com/gamedb/gridview/pkg/websockets"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var (
	version string
	commits string
)

func main() {

	err := config.Init(version, commits)
	log.InitZap(log.LogNameWebserver)
	defer log.Flush()
	if err != nil {
		log.ErrS(err)
		return
	}

	timeout := time.Duration(config.C.RemoteTimeout) * time.Second

	tables, err := loadTables(timeout)
	if err != nil {
		log.ErrS(err)
		return
	}

	// Settings
	sessionBackend := settings.NewMemoryBackend(time.Duration(config.C.SettingsSessionTTL) * time.Second)

	var durableBackend settings.Backend
	var bolt *settings.BoltBackend

	if config.C.SettingsUseMongo {
		durableBackend = settings.MongoBackend{Timeout: timeout}
	} else {
		bolt, err = settings.NewBoltBackend(config.C.SettingsBoltPath, "")
		if err != nil {
			log.ErrS(err)
			return
		}
		durableBackend = bolt
	}

	// Grids
	hub := websockets.NewHub()

	registry := grid.NewRegistry(tables, grid.NewHTTPTransport(timeout), time.Duration(config.C.GridTTL)*time.Second)
	registry.OnCreate = func(g *grid.Grid) {

		hub.Relay(g)

		logger := log.Named(log.LogNameRequests).With(zap.String("table", g.Table), zap.String("grid", g.ID))
		g.Events.On(grid.EventError, func(s grid.Signal) {
			logger.Warn("remote fetch failed", zap.Int("draw", s.Draw), zap.Error(s.Err))
		})
		g.Events.On(grid.EventComplete, func(s grid.Signal) {
			logger.Debug("draw complete", zap.Int("draw", s.Draw))
		})
	}

	session.Init()
	pages.Init(registry, sessionBackend, durableBackend, hub, timeout)

	limiters := ratelimit.New(time.Second/10, 20)

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err = c.AddFunc("@every 1m", limiters.Clean)
	if err != nil {
		log.ErrS(err)
		return
	}
	c.Start()

	watcher := watchTables(registry, timeout)

	// Routes
	r := chi.NewRouter()
	r.Use(chiMiddleware.RedirectSlashes)
	r.Use(middleware.MiddlewareCors())
	r.Use(middleware.MiddlewareRealIP)
	r.Use(chiMiddleware.NewCompressor(flate.DefaultCompression, "application/json").Handler)
	r.Use(middleware.RateLimiterWait(limiters))

	r.Mount("/tables", pages.TablesRouter())
	r.Mount("/websocket", pages.WebsocketsRouter())
	r.Mount("/health-check", pages.HealthCheckRouter())

	s := &http.Server{
		Addr:              config.ListenOn(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("Starting Webserver on " + config.ListenOn())
		err := s.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.FatalS(err)
		}
	}()

	helpers.KeepAlive(func() {

		c.Stop()
		if watcher != nil {
			helpers.Close(watcher)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		err := s.Shutdown(ctx)
		if err != nil {
			log.ErrS(err)
		}

		if bolt != nil {
			helpers.Close(bolt)
		}
		mongo.Close()
	})
}

func loadTables(timeout time.Duration) (tables []grid.Table, err error) {

	defs, err := config.LoadTables(config.C.TablesFile)
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(config.C.GridTTL) * time.Second

	for _, def := range defs {

		var columns datatable.Columns
		for _, c := range def.Columns {
			columns = append(columns, datatable.NewColumn(c.Key, c.Options))
		}

		var loader entities.Loader
		if def.Entities.Collection != "" {
			loader = entities.MongoLoader{Collection: def.Entities.Collection, IDField: def.Entities.IDField}
		} else {
			loader = entities.HTTPLoader{
				URL:     def.Entities.URL,
				IDField: def.Entities.IDField,
				Retries: 3,
				Client:  &http.Client{Timeout: timeout},
			}
		}

		tables = append(tables, grid.Table{
			Name:    def.Name,
			URL:     def.URL,
			Columns: columns,
			Cache:   entities.NewCollection(def.Name, loader, ttl),
		})

		log.Info("Loaded table", zap.String("table", def.Name), zap.Strings("columns", columns.Keys()))
	}

	return tables, nil
}

// watchTables reloads the table definitions when the file is written
func watchTables(registry *grid.Registry, timeout time.Duration) *fsnotify.Watcher {

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.ErrS(err)
		return nil
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:

				if !ok {
					return
				}

				if event.Op&fsnotify.Write == fsnotify.Write {

					tables, err := loadTables(timeout)
					if err != nil {
						log.Err("Keeping old tables", zap.Error(err))
						continue
					}

					registry.SetTables(tables)
					log.Info("Reloaded tables", zap.String("file", event.Name))
				}

			case err, ok := <-watcher.Errors:

				if !ok {
					return
				}

				log.ErrS(err)
			}
		}
	}()

	err = watcher.Add(config.C.TablesFile)
	if err != nil {
		log.ErrS(err)
	}

	return watcher
}
