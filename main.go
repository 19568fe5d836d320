package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/mapslate/mapslate/config"
)

func main() {
	configPath := flag.String("config", "", "path to a mapslate.yaml config")
	mapPath := flag.String("map", "", "map file to open (.json)")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("mapslate")

	game, err := NewGame(cfg, *configPath, *mapPath)
	if err != nil {
		log.Println(err)
		os.Exit(1)
	}

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
