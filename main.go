package main

import (
	"flag"
	"os"

	"github.com/nordlock/nordlock/internal/config"
	"github.com/nordlock/nordlock/internal/logging"
	"github.com/nordlock/nordlock/internal/x11"
)

func main() {
	configPath := flag.String("c", "", "Path to configuration file")
	flag.StringVar(configPath, "config", "", "Path to configuration file")

	lockScreen := flag.Bool("l", false, "Lock the screen immediately")
	flag.BoolVar(lockScreen, "lock", false, "Lock the screen immediately")

	debugExit := flag.Bool("debug-exit", false, "Enable exit with ESC or Q key (for debugging)")
	debugMode := flag.Bool("log", false, "Enable debug logging")

	// Appearance overrides on top of the config file
	bgColor := flag.String("color", "", "Background color in rrggbb hex")
	bgImage := flag.String("image", "", "Path to a background image")
	tile := flag.Bool("tile", false, "Tile the background image")
	noIndicator := flag.Bool("no-indicator", false, "Disable the unlock indicator")
	noClock := flag.Bool("no-clock", false, "Disable the clock widget")
	showFailed := flag.Bool("show-failed-attempts", false, "Show the failed attempt counter")
	dpi := flag.Float64("dpi", 0, "DPI override for indicator scaling")

	flag.Parse()

	if *debugMode {
		logging.Init(logging.LevelDebug, true)
		logging.Debug("Debug logging enabled")
	} else {
		logging.Init(logging.LevelError, false)
	}

	cfg := config.DefaultConfig()

	if *configPath == "" {
		if path := config.DefaultConfigPath(); path != "" {
			if _, err := os.Stat(path); err == nil {
				logging.Info("Using default config file: %s", path)
				*configPath = path
			}
		}
	}
	if *configPath != "" {
		if err := config.LoadConfig(*configPath, &cfg); err != nil {
			logging.Error("loading config: %v", err)
			// Continue with default config
		}
	}

	cfg.LockScreen = cfg.LockScreen || *lockScreen
	cfg.DebugExit = cfg.DebugExit || *debugExit
	if *bgColor != "" {
		cfg.BackgroundColor = *bgColor
	}
	if *bgImage != "" {
		cfg.BackgroundImage = *bgImage
	}
	if *tile {
		cfg.TileImage = true
	}
	if *noIndicator {
		cfg.ShowIndicator = false
	}
	if *noClock {
		cfg.ShowClock = false
	}
	if *showFailed {
		cfg.ShowFailedAttempts = true
	}
	if *dpi > 0 {
		cfg.DPI = *dpi
	}

	if err := config.ValidateConfig(&cfg); err != nil {
		logging.Fatal("Invalid configuration: %v", err)
	}

	if server := detectDisplayServer(); server != "x11" {
		logging.Fatal("Unsupported display server: %s", server)
	}

	locker := x11.NewLocker(cfg)

	if cfg.LockScreen {
		if err := locker.Lock(); err != nil {
			logging.Fatal("Failed to lock screen: %v", err)
		}
		return
	}

	if err := locker.StartIdleMonitor(); err != nil {
		logging.Fatal("Failed to start idle monitor: %v", err)
	}
	// The watcher runs on its own goroutine; keep the process alive
	// until it spawns the locker or the user kills us
	select {}
}

// detectDisplayServer reports which display server the session runs on
func detectDisplayServer() string {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return "wayland"
	}
	return "x11"
}
