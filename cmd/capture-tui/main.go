package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/handiism/capture-studio/internal/config"
	"github.com/handiism/capture-studio/internal/logging"
	"github.com/handiism/capture-studio/internal/media"
	"github.com/handiism/capture-studio/internal/media/portaudio"
	"github.com/handiism/capture-studio/internal/media/v4l"
	"github.com/handiism/capture-studio/internal/tui"
)

func main() {
	var (
		configFlag = flag.String("config", config.DefaultPath(), "Path to config file")
		envFlag    = flag.String("env", ".env", "Path to .env file with CAPTURE_* overrides")
	)
	flag.Parse()

	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := settings.ApplyEnv(*envFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error applying environment: %v\n", err)
		os.Exit(1)
	}

	logger, closer := logging.New(logging.Options{
		Path:  settings.LogPath,
		Level: settings.LogLevel,
	})
	defer closer.Close()

	devices := media.Router{
		Audio: portaudio.NewDevices(portaudio.Config{
			SampleRate:      settings.SampleRate,
			FramesPerBuffer: settings.FramesPerBuffer,
			InputChannels:   settings.InputChannels,
		}, logger),
		Video: v4l.NewDevices(v4l.Config{
			Device: settings.CameraDevice,
			Width:  settings.CameraWidth,
			Height: settings.CameraHeight,
		}, logger),
	}

	err = tui.Run(tui.Options{
		Settings: settings,
		Devices:  devices,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("tui exited", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
