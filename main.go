package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/constellation/internal/config"
	"github.com/iburimskiy/constellation/internal/game"
	"github.com/iburimskiy/constellation/internal/lifecycle"
	"github.com/iburimskiy/constellation/internal/palette"
	"github.com/iburimskiy/constellation/internal/playback"
	"github.com/iburimskiy/constellation/internal/scene"
	"github.com/iburimskiy/constellation/internal/terminal"
)

func main() {
	var (
		backend    = flag.String("backend", "window", "drawing surface: window or term")
		profile    = flag.String("profile", "auto", "tuning profile: auto, desktop, touch or terminal")
		accent     = flag.String("accent", "", "primary accent, overrides $"+config.EnvAccent)
		accent2    = flag.String("accent2", "", "secondary accent, overrides $"+config.EnvAccent2)
		background = flag.String("background", config.DefaultBackground, "background colour")
		reduce     = flag.Bool("reduce-motion", false, "leave the surface still, as $"+config.EnvReducedMotion+" does")
		fps        = flag.Int("fps", 0, "tick rate cap, 0 keeps the profile's")
		search     = flag.String("search", "grid", "link search: grid or pairwise")
		batch      = flag.Bool("batch", true, "draw links as one triangle batch per alpha bucket")
		soundtrack = flag.String("soundtrack", "", "wav, mp3 or flac file to loop; its loudness pulses the jitter")
		seed       = flag.Uint64("seed", 0, "particle seed, 0 seeds from the clock")
		debug      = flag.Bool("debug", false, "show the debug overlay")
	)
	flag.Parse()
	log.SetPrefix("constellation: ")

	name := *profile
	if *backend == "term" && (name == "" || name == "auto") {
		name = string(config.Terminal)
	}
	p, err := config.ParseProfile(name, config.Detect())
	if err != nil {
		log.Fatalf("profile: %v", err)
	}
	cfg := config.ApplyEnv(config.For(p), os.LookupEnv)
	if *accent != "" {
		cfg.Accent = *accent
	}
	if *accent2 != "" {
		cfg.Accent2 = *accent2
	}
	cfg.Background = *background
	if *fps > 0 {
		cfg.FPSCap = *fps
	}
	if cfg.Search, err = config.ParseSearch(*search); err != nil {
		log.Fatalf("search: %v", err)
	}
	cfg.Batch = *batch
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	still := *reduce || config.ReducedMotion(os.LookupEnv)
	if still {
		log.Printf("reduced motion requested, leaving the surface still")
	}

	var rng *rand.Rand
	if *seed != 0 {
		rng = rand.New(rand.NewPCG(*seed, *seed))
	}
	sc := scene.New(cfg, rng)

	player := &playback.Player{}
	sc.SetPulse(player)
	if *soundtrack != "" {
		if err := player.Play(*soundtrack); err != nil {
			log.Printf("soundtrack: %v", err)
		}
	}

	bg := palette.Resolve(cfg.Background, config.DefaultBackground)
	log.Printf("profile %s, %s focal, %s search, %d fps", cfg.Profile, cfg.Mode, cfg.Search, cfg.FPSCap)

	switch *backend {
	case "window":
		runWindow(sc, bg, player, still, *debug)
	case "term":
		runTerminal(sc, bg, player, still)
	default:
		log.Fatalf("unknown backend %q", *backend)
	}
}

func runWindow(sc *scene.Context, bg palette.RGB, player *playback.Player, still, debug bool) {
	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("Constellation - D: debug, C/Shift+C: accents, O: soundtrack, Space: pause, Esc/Q: quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(ebiten.SyncWithFPS)

	g := game.New(sc, game.Options{
		Background: bg,
		Batch:      sc.Config().Batch,
		Debug:      debug,
		Still:      still,
		Player:     player,
		Logger:     log.Default(),
	})
	defer g.Close()
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatalf("window: %v", err)
	}
}

// runTerminal owns the tty until the user quits, so log output is held
// back and written once the screen is restored.
func runTerminal(sc *scene.Context, bg palette.RGB, player *playback.Player, still bool) {
	screen, err := terminal.Open()
	if err != nil {
		log.Fatalf("terminal: %v", err)
	}
	var held bytes.Buffer
	logger := log.New(&held, log.Prefix(), log.Flags())

	b := terminal.New(screen, bg)
	queue := &lifecycle.FrameQueue{}
	ctrl := lifecycle.New(sc, b, b, queue, lifecycle.WithLogger(logger))
	sc.Tracker().SetViewport(b.Viewport())
	if !still {
		ctrl.Start()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	terminal.Run(ctx, b, ctrl, queue)
	stop()

	screen.Fini()
	player.Close()
	os.Stderr.Write(held.Bytes())
}
