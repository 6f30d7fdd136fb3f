package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"

	"github.com/Garsondee/rugtown/internal/audio"
	"github.com/Garsondee/rugtown/internal/game"
	"github.com/Garsondee/rugtown/internal/sim"
)

func main() {
	// A missing .env is normal; real environment variables still apply.
	_ = godotenv.Load()

	base, err := sim.SettingsFromEnv(sim.DefaultSettings(), os.LookupEnv)
	if err != nil {
		log.Fatal(err)
	}
	background := os.Getenv("RUGTOWN_BACKGROUND")
	if background == "" {
		background = "assets/rug.png"
	}

	var settings sim.Settings
	var debug bool
	flag.Float64Var(&settings.EventEverySec, "every", base.EventEverySec, "seconds between incidents (1-60)")
	flag.Float64Var(&settings.Strictness, "strictness", base.Strictness, "road strictness for hand-drawn routes (0-1)")
	flag.BoolVar(&settings.Sound, "sound", base.Sound, "play audible cues")
	flag.StringVar(&background, "background", background, "PNG drawn under the map")
	flag.BoolVar(&debug, "debug", false, "log drags and missed drops")
	flag.Parse()

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	world, err := sim.DefaultWorld()
	if err != nil {
		log.Fatal(err)
	}

	opts := []sim.Option{sim.WithSettings(settings), sim.WithLogger(logger)}
	if synth, err := audio.New(); err != nil {
		logger.Warn("audio unavailable, cues are silent", "err", err)
	} else {
		opts = append(opts, sim.WithBeeper(synth))
	}

	g := game.New(game.Config{
		Sim:        sim.NewSim(world, opts...),
		Logger:     logger,
		Background: background,
	})

	ebiten.SetWindowTitle("RugTown Dispatch")
	ebiten.SetWindowSize(900, 900)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
