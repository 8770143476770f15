package main

import (
	"context"
	"log"
	"os"
	"time"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/unit"

	"servicemap/catalog"
	"servicemap/config"
	"servicemap/engine"
	"servicemap/mapview"
	"servicemap/prefs"
	"servicemap/tiles"
	"servicemap/tiles/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	store, err := prefs.Open(cfg.PrefsPath)
	if err != nil {
		log.Fatalf("prefs: %v", err)
	}

	client := catalog.NewClient(cfg.CatalogURL)
	client.SetUserLocation(cfg.CenterLat, cfg.CenterLng)
	client.SetLimit(cfg.FetchLimit)
	client.SetExcludeTypes(catalog.CategoryLinkNYC)
	client.SetLogf(log.Printf)

	pool := worker.NewPool(4)
	tm := tiles.NewManager(tiles.NewOSMProvider(cfg.TileURL), pool)
	tm.SetLogf(log.Printf)

	mv := mapview.New(tm)
	lat, lng, zoom := store.View(cfg.CenterLat, cfg.CenterLng, mv.Zoom)
	mv.SetCamera(tiles.LatLng{Lat: lat, Lng: lng}, zoom)

	engineCfg := engine.Config{
		MinZoom:          cfg.MinFetchZoom,
		MinFetchInterval: cfg.MinFetchInterval,
		Debounce:         cfg.FetchDebounce,
		ZoomInRatio:      cfg.ZoomInRatio,
		BufferFrac:       cfg.BoundsBuffer,
		CacheCap:         cfg.CacheCap,
		Logf:             log.Printf,
	}

	go func() {
		w := new(app.Window)
		w.Option(
			app.Title("Service Map"),
			app.Size(unit.Dp(1000), unit.Dp(700)),
		)

		eng := engine.New(client, engineCfg, func(s engine.Snapshot) {
			mv.SetSnapshot(s)
			w.Invalidate()
		})

		mv.OnViewport = eng.SetViewport
		mv.OnRetry = eng.Retry
		eng.SetFilters(catalog.FilterState{})

		tm.SetOnLoadCallback(w.Invalidate)

		// Marker styling comes from the backend's category list; the
		// map works without it, so a failure here is only logged.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			cats, err := client.Categories(ctx)
			if err != nil {
				log.Printf("service types: %v", err)
				return
			}
			mv.SetCategories(cats)
			w.Invalidate()
		}()

		watchCtx, stopWatch := context.WithCancel(context.Background())
		client.WatchConnectivity(watchCtx, cfg.ConnectivityInterval, eng.SetOnline)

		var ops op.Ops
		for {
			switch e := w.Event().(type) {
			case app.DestroyEvent:
				if err := store.SetView(mv.Center.Lat, mv.Center.Lng, mv.Zoom); err != nil {
					log.Printf("save view: %v", err)
				}
				stopWatch()
				eng.Close()
				pool.Shutdown()
				store.Close()
				os.Exit(0)
			case app.FrameEvent:
				gtx := app.NewContext(&ops, e)
				mv.Layout(gtx)
				e.Frame(gtx.Ops)
			}
		}
	}()
	app.Main()
}
