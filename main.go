package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"DraftBoard/internal"
	"DraftBoard/internal/api"
	"DraftBoard/internal/canvas"
	"DraftBoard/internal/doc"
	"DraftBoard/internal/remote"
	"DraftBoard/internal/shape"
	"DraftBoard/internal/ui"
	pkgconfig "DraftBoard/pkg/config"
)

func run(_ context.Context, cmd *cli.Command) error {
	cfg := internal.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		if err := pkgconfig.Load(path, &cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if docPath := cmd.String("document"); docPath != "" {
		cfg.Document.Path = docPath
	}
	if cmd.Bool("watch") {
		cfg.Document.Watch = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	model := canvas.New()
	if cfg.Document.Path != "" {
		shapes, err := doc.Load(cfg.Document.Path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			log.Printf("[canvas] Document %s does not exist yet, starting empty", cfg.Document.Path)
		case err != nil:
			return err
		default:
			replaceShapes(model, shapes)
			log.Printf("[canvas] Loaded %d shapes from %s", len(shapes), cfg.Document.Path)
		}
	}

	var control *api.ControlServer
	if cfg.Control.Enabled {
		control = api.NewControlServer(cfg.Control.SocketDir)
		if err := control.Start(); err != nil {
			return fmt.Errorf("control socket: %w", err)
		}
		defer control.Close()
	}

	if cfg.Remote.Enabled && control != nil {
		srv := remote.NewServer(control, cfg.Remote.Port)
		srv.Start()
		defer srv.Close()
		if cfg.Remote.Advertise {
			mdnsSrv, err := remote.Advertise(cfg.Remote.Port)
			if err != nil {
				log.Printf("[remote] mDNS advertise failed: %v", err)
			} else {
				defer mdnsSrv.Shutdown()
			}
		}
	}

	if cfg.Document.Watch {
		watcher, err := doc.Watch(cfg.Document.Path, func(shapes []shape.Shape) {
			replaceShapes(model, shapes)
		})
		if err != nil {
			return fmt.Errorf("document watch: %w", err)
		}
		defer watcher.Close()
	}

	if cmd.Bool("headless") {
		return runHeadless(model, control)
	}
	ui.RunApp(cfg, model, control)
	return nil
}

func replaceShapes(model *canvas.Canvas, shapes []shape.Shape) {
	model.ClearSelection()
	for _, id := range allShapeIDs(model) {
		model.RemoveShape(id)
	}
	for _, s := range shapes {
		model.AddShape(s)
	}
}

func allShapeIDs(model *canvas.Canvas) []shape.ID {
	shapes := model.Shapes()
	ids := make([]shape.ID, 0, len(shapes))
	for i := range shapes {
		ids = append(ids, shapes[i].ID)
	}
	return ids
}

// runHeadless drains control requests without a window until interrupted.
func runHeadless(model *canvas.Canvas, control *api.ControlServer) error {
	if control == nil {
		return fmt.Errorf("headless mode requires the control socket")
	}
	log.Printf("[canvas] Running headless, control socket at %s", control.Path())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			control.DrainPending(model)
		case s := <-sig:
			log.Printf("[canvas] Received %v, shutting down", s)
			return nil
		}
	}
}

func main() {
	cmd := &cli.Command{
		Name:   "draftboard",
		Usage:  "Interactive 2D design canvas with a scriptable control socket",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Sources: cli.EnvVars("DRAFTBOARD_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "document",
				Aliases: []string{"d"},
				Usage:   "Document file to open",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Reload the document when it changes on disk",
			},
			&cli.BoolFlag{
				Name:  "headless",
				Usage: "Run without a window, serving the control socket only",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("draftboard: %v", err)
	}
}
