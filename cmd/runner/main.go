package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"

	"github.com/Mefin-SR/FlowtrixGame/audio"
	"github.com/Mefin-SR/FlowtrixGame/config"
	"github.com/Mefin-SR/FlowtrixGame/core"
	"github.com/Mefin-SR/FlowtrixGame/engine"
	"github.com/Mefin-SR/FlowtrixGame/input"
	"github.com/Mefin-SR/FlowtrixGame/parameter"
	"github.com/Mefin-SR/FlowtrixGame/render"
	"github.com/Mefin-SR/FlowtrixGame/service"
	"github.com/Mefin-SR/FlowtrixGame/session"
	"github.com/Mefin-SR/FlowtrixGame/status"
	"github.com/Mefin-SR/FlowtrixGame/stream"
)

func main() {
	// A missing .env is fine; variables may come from the shell
	_ = godotenv.Load()

	opts, err := parseOptions(os.Args[1:], os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "runner: %v\n", err)
		os.Exit(2)
	}

	if opts.schema {
		data, err := config.SchemaJSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "runner: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	if logFile := setupLogging(opts.debug); logFile != nil {
		defer logFile.Close()
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "runner: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, opts); err != nil {
		fmt.Fprintf(os.Stderr, "runner: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, opts options) error {
	logger := log.Default()
	reg := status.NewRegistry()

	sess, err := session.New(cfg, reg, logger)
	if err != nil {
		return err
	}

	keys := input.DefaultKeyTable()
	if opts.keymapPath != "" {
		if keys, err = input.LoadKeyFile(opts.keymapPath); err != nil {
			return err
		}
	}
	handler := input.NewHandler(keys, sess, logger)

	services := service.NewHub(logger)
	sound := audio.NewService(cfg.Audio, logger)
	services.Register(sound)

	var hub *stream.Hub
	if cfg.Stream.Addr != "" {
		hub = stream.NewHub(cfg.Stream, reg, logger)
		if err := services.Register(stream.NewServer(hub, cfg.Stream.Addr, logger)); err != nil {
			return err
		}
	}

	if err := services.InitAll(); err != nil {
		return err
	}
	if err := services.StartAll(); err != nil {
		return err
	}
	defer services.StopAll()

	if manager := sound.Manager(); manager != nil {
		sess.Subscribe(manager)
		handler.SetMute(manager.ToggleMute)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	// Normal exit terminal cleanup
	defer screen.Fini()
	core.SetCrashReset(screen.Fini)
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	view := render.NewView(screen, cfg.Render)
	sess.AddScoreSink(view)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	step := func(dt float64) {
		sess.Step(dt, handler.Take())
		if hub != nil && hub.Subscribers() > 0 {
			if _, err := hub.Offer(sess.Snapshot()); err != nil {
				logger.Printf("stream: %v", err)
			}
		}
	}
	clock := engine.NewClockScheduler(step, parameter.GameUpdateInterval, parameter.MaxFrameDelta, nil)
	clock.Start(ctx)
	defer clock.Stop()

	events := make(chan tcell.Event, 64)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			// nil after Fini
			if ev == nil {
				return
			}
			events <- ev
		}
	})

	frameTicker := time.NewTicker(parameter.FrameUpdateInterval)
	defer frameTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if _, ok := ev.(*tcell.EventResize); ok {
				screen.Sync()
				view.UpdateDimensions()
			}
			if !handler.HandleEvent(ev) {
				return nil
			}
		case <-frameTicker.C:
			view.Draw(sess.Snapshot())
		}
	}
}
