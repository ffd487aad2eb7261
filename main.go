package main

import (
	"embed"
	"flag"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
)

//go:embed all:frontend/dist
var assets embed.FS

// Version is set at build time with -ldflags "-X main.Version=..."
var Version = "dev"

func main() {
	// Allow `claudelens-gui --config-dir /path` for running against a separate profile
	configDir := flag.String("config-dir", "", "claudelens config directory (default ~/.claudelens)")
	flag.Parse()

	// Create an instance of the app structure
	app := NewApp(*configDir)

	// Create application with options
	err := wails.Run(&options.App{
		Title:  "ClaudeLens",
		Width:  1200,
		Height: 800,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup:        app.startup,
		OnShutdown:       app.shutdown,
		Menu:             app.GetMenu(),
		Mac: &mac.Options{
			About: &mac.AboutInfo{
				Title:   "ClaudeLens",
				Message: "Claude Code conversation browser\n\nVersion " + Version,
			},
		},
		Bind: []interface{}{
			app,
		},
	})

	if err != nil {
		println("Error:", err.Error())
	}
}
