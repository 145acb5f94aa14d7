package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/handiism/capture-studio/internal/app"
	"github.com/handiism/capture-studio/internal/capture"
	"github.com/handiism/capture-studio/internal/config"
	"github.com/handiism/capture-studio/internal/download"
	"github.com/handiism/capture-studio/internal/logging"
	"github.com/handiism/capture-studio/internal/media"
	"github.com/handiism/capture-studio/internal/media/portaudio"
	"github.com/handiism/capture-studio/internal/media/v4l"
	"github.com/handiism/capture-studio/internal/model"
	"github.com/handiism/capture-studio/internal/notify"
	"github.com/pkg/browser"
)

func main() {
	// Command line flags
	var (
		modeFlag     = flag.String("mode", "audio", "What to capture: audio or photo")
		durationFlag = flag.Duration("duration", 5*time.Second, "Recording length in audio mode")
		warmupFlag   = flag.Duration("warmup", 5*time.Second, "How long to wait for the first video frame in photo mode")
		outputFlag   = flag.String("output", "", "Output directory (overrides config)")
		configFlag   = flag.String("config", config.DefaultPath(), "Path to config file")
		openFlag     = flag.Bool("open", false, "Open the result when done")
		verboseFlag  = flag.Bool("verbose", false, "Show verbose output")
	)

	flag.Parse()

	page, ok := model.ParsePage(*modeFlag)
	if !ok {
		fmt.Println("Capture Studio - record audio or take a photo")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  capture-cli -mode audio -duration 10s")
		fmt.Println("  capture-cli -mode photo -open")
		fmt.Println()
		fmt.Println("For interactive mode, use: capture-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := settings.ApplyEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error applying environment: %v\n", err)
		os.Exit(1)
	}

	// Apply flags
	if *outputFlag != "" {
		settings.DownloadsPath = *outputFlag
	}
	settings.ServeResources = false

	logOpts := logging.Options{Path: settings.LogPath, Level: settings.LogLevel}
	if *verboseFlag {
		logOpts = logging.Options{Level: "debug"}
	}
	logger, closer := logging.New(logOpts)
	defer closer.Close()

	// Handle interrupts
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifier := notify.Multi{
		notify.Func(func(n notify.Notification) {
			fmt.Fprintf(os.Stderr, "❌ %s: %s\n", n.Title, n.Message)
		}),
	}
	if settings.DesktopNotifications {
		notifier = append(notifier, notify.Desktop{AppName: "Capture Studio", Logger: logger})
	}

	a := app.New(app.Options{
		Settings: settings,
		Devices:  newDevices(settings, logger),
		Notifier: notifier,
		Logger:   logger,
		OnProgress: func(event download.ProgressEvent) {
			if event.Level == download.LevelVerbose && !*verboseFlag {
				return
			}
			fmt.Println(progressPrefix(event.Level) + event.Message)
		},
	})
	a.Navigate(page)

	var res *model.Resource
	switch page {
	case model.PagePhoto:
		res, err = takePhoto(ctx, a, *warmupFlag)
	default:
		res, err = record(ctx, a, *durationFlag)
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err == nil {
		var path string
		// Ctrl+C ends a recording early; the result is still saved.
		path, err = a.Downloads.Save(context.WithoutCancel(ctx), res)
		if err == nil && *openFlag {
			if openErr := browser.OpenFile(path); openErr != nil {
				fmt.Fprintf(os.Stderr, "Error opening %s: %v\n", path, openErr)
			}
		}
	}

	if closeErr := a.Close(closeCtx); closeErr != nil {
		logger.Warn("error closing", "error", closeErr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if ctx.Err() != nil {
			os.Exit(130)
		}
		os.Exit(1)
	}
}

func newDevices(settings *config.Settings, logger *slog.Logger) media.Devices {
	return media.Router{
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
}

// record captures audio for d, or until interrupted, drawing the meter
// on one line.
func record(ctx context.Context, a *app.App, d time.Duration) (*model.Resource, error) {
	if err := a.Audio.StartRecording(ctx); err != nil {
		return nil, err
	}
	fmt.Printf("🎙  Recording for %s, Ctrl+C stops early\n", d)

	deadline := time.NewTimer(d)
	defer deadline.Stop()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-deadline.C:
			break loop
		case <-ticker.C:
			st := a.Audio.State()
			if !st.Recording {
				break loop
			}
			fmt.Printf("\r● %s %s", model.FormatElapsed(st.Elapsed), meterLine(st.Levels))
		}
	}
	fmt.Println()

	res := a.Audio.StopRecording()
	if res == nil {
		// The device went away and the session already finalized.
		res = a.Audio.State().Result
	}
	if res == nil {
		return nil, errors.New("recording produced no result")
	}
	fmt.Printf("✅ %s\n", res.Describe())
	return res, nil
}

// takePhoto starts the camera, waits for the first frame and captures it.
func takePhoto(ctx context.Context, a *app.App, warmup time.Duration) (*model.Resource, error) {
	if err := a.Photo.StartCamera(ctx); err != nil {
		return nil, err
	}
	defer a.Photo.StopCamera()

	fmt.Println("📷 Waiting for the camera...")
	waitCtx, cancel := context.WithTimeout(ctx, warmup)
	defer cancel()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for a.Photo.State().Width == 0 {
		select {
		case <-waitCtx.Done():
			// Let TakePhoto report the not-ready state.
			return a.Photo.TakePhoto(ctx)
		case <-ticker.C:
		}
	}

	res, err := a.Photo.TakePhoto(ctx)
	if err != nil {
		if capture.KindOf(err) == capture.KindNotReady {
			return nil, fmt.Errorf("camera produced no frame within %s: %w", warmup, err)
		}
		return nil, err
	}
	fmt.Printf("✅ %s\n", res.Describe())
	return res, nil
}

var meterRunes = []rune("▁▂▃▄▅▆▇█")

func meterLine(levels model.Levels) string {
	var b strings.Builder
	for _, v := range levels {
		i := int(v / 100 * float64(len(meterRunes)-1))
		b.WriteRune(meterRunes[min(max(i, 0), len(meterRunes)-1)])
	}
	return b.String()
}

func progressPrefix(level download.ProgressLevel) string {
	switch level {
	case download.LevelError:
		return "❌ "
	case download.LevelWarning:
		return "⚠️  "
	case download.LevelSuccess:
		return "✅ "
	case download.LevelInfo:
		return "ℹ️  "
	default:
		return "   "
	}
}
