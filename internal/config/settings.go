package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/handiism/capture-studio/internal/model"
	"github.com/joho/godotenv"
)

// Settings holds all configuration options.
type Settings struct {
	// Audio capture
	SampleRate      int `json:"sample_rate"`
	FramesPerBuffer int `json:"frames_per_buffer"`
	InputChannels   int `json:"input_channels"`
	FFTSize         int `json:"fft_size"`

	// Timing, in milliseconds
	RecorderTimesliceMs int `json:"recorder_timeslice_ms"`
	FrameIntervalMs     int `json:"frame_interval_ms"`
	TimerIntervalMs     int `json:"timer_interval_ms"`

	// Camera
	CameraDevice string `json:"camera_device"`
	CameraWidth  int    `json:"camera_width"`
	CameraHeight int    `json:"camera_height"`

	// Results
	DownloadsPath     string `json:"downloads_path"`
	RecordingFileName string `json:"recording_file_name"`
	PhotoFileName     string `json:"photo_file_name"`

	// Resource server
	ServeResources bool   `json:"serve_resources"`
	ListenAddress  string `json:"listen_address"`

	// Logging and notifications
	LogPath              string `json:"log_path"`
	LogLevel             string `json:"log_level"` // debug, info, warn, error
	DesktopNotifications bool   `json:"desktop_notifications"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	return &Settings{
		SampleRate:      44100,
		FramesPerBuffer: 1024,
		InputChannels:   1,
		FFTSize:         64,

		RecorderTimesliceMs: 1000,
		FrameIntervalMs:     16,
		TimerIntervalMs:     1000,

		CameraDevice: "/dev/video0",
		CameraWidth:  640,
		CameraHeight: 480,

		DownloadsPath:     filepath.Join(homeDir, "Downloads"),
		RecordingFileName: model.RecordingFileName,
		PhotoFileName:     model.PhotoFileName,

		ServeResources: true,
		ListenAddress:  "127.0.0.1:0",

		LogPath:  filepath.Join(cacheDir, "capture-studio", "capture.log"),
		LogLevel: "info",
	}
}

// DefaultPath returns the settings file location under the user's
// config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "capture-studio", "settings.json")
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, settings.Validate()
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate reports settings that cannot work.
func (s *Settings) Validate() error {
	var errs []error
	if s.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample_rate must be positive, got %d", s.SampleRate))
	}
	if s.FramesPerBuffer <= 0 {
		errs = append(errs, fmt.Errorf("frames_per_buffer must be positive, got %d", s.FramesPerBuffer))
	}
	if s.InputChannels <= 0 {
		errs = append(errs, fmt.Errorf("input_channels must be positive, got %d", s.InputChannels))
	}
	if s.FFTSize < 32 || s.FFTSize&(s.FFTSize-1) != 0 {
		errs = append(errs, fmt.Errorf("fft_size must be a power of two >= 32, got %d", s.FFTSize))
	}
	if s.FrameIntervalMs <= 0 || s.TimerIntervalMs <= 0 || s.RecorderTimesliceMs <= 0 {
		errs = append(errs, errors.New("intervals must be positive"))
	}
	return errors.Join(errs...)
}

// ApplyEnv loads envFile (if it exists) into the process environment and
// overrides settings from CAPTURE_* variables.
//
// A missing envFile is not an error. Pass "" to skip the file entirely.
func (s *Settings) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if v := os.Getenv("CAPTURE_DOWNLOADS_PATH"); v != "" {
		s.DownloadsPath = v
	}
	if v := os.Getenv("CAPTURE_CAMERA_DEVICE"); v != "" {
		s.CameraDevice = v
	}
	if v := os.Getenv("CAPTURE_LISTEN_ADDRESS"); v != "" {
		s.ListenAddress = v
	}
	if v := os.Getenv("CAPTURE_LOG_PATH"); v != "" {
		s.LogPath = v
	}
	if v := os.Getenv("CAPTURE_LOG_LEVEL"); v != "" {
		s.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("CAPTURE_SAMPLE_RATE"); v != "" {
		rate, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CAPTURE_SAMPLE_RATE: %w", err)
		}
		s.SampleRate = rate
	}
	if v := os.Getenv("CAPTURE_DESKTOP_NOTIFICATIONS"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CAPTURE_DESKTOP_NOTIFICATIONS: %w", err)
		}
		s.DesktopNotifications = on
	}

	return s.Validate()
}

// RecorderTimeslice returns how often the recorder emits a chunk.
func (s *Settings) RecorderTimeslice() time.Duration {
	return time.Duration(s.RecorderTimesliceMs) * time.Millisecond
}

// FrameInterval returns the level meter sampling period.
func (s *Settings) FrameInterval() time.Duration {
	return time.Duration(s.FrameIntervalMs) * time.Millisecond
}

// TimerInterval returns the elapsed-time counter period.
func (s *Settings) TimerInterval() time.Duration {
	return time.Duration(s.TimerIntervalMs) * time.Millisecond
}
