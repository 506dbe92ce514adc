package main

import (
	"flag"
	"log"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Ball-Drop/internal/audio"
	"github.com/Garsondee/Ball-Drop/internal/game"
)

func main() {
	var configPath string
	var seed int64
	var mute bool

	flag.StringVar(&configPath, "config", "", "optional YAML config file")
	flag.Int64Var(&seed, "seed", 0, "RNG seed (0 = time based)")
	flag.BoolVar(&mute, "mute", false, "disable the cash pop sound")
	flag.Parse()

	cfg := game.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = game.LoadConfig(configPath); err != nil {
			log.Fatal(err)
		}
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	opts := []game.SessionOption{
		game.WithRand(rand.New(rand.NewSource(seed))), // #nosec G404 -- game only
	}
	if !mute {
		pops := audio.NewPopPlayer(seed)
		if err := pops.Init(); err != nil {
			log.Printf("audio disabled: %v", err)
		} else {
			opts = append(opts, game.WithCue(pops))
		}
	}

	g, err := game.New(cfg, opts...)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowTitle("Ball Drop")
	ebiten.SetWindowSize(g.WindowSize())
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
