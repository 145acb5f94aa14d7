// Package config provides configuration management for capture-studio.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Environment overrides (optionally read from a .env file)
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Records 44.1 kHz mono, samples the meter every 16ms
//	// Opens /dev/video0 at 640x480
//	// Saves downloads to ~/Downloads
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Environment
//
// ApplyEnv loads a .env file when present and then overrides settings
// from CAPTURE_* variables:
//
//	CAPTURE_DOWNLOADS_PATH=/tmp/captures
//	CAPTURE_SAMPLE_RATE=48000
//	CAPTURE_CAMERA_DEVICE=/dev/video2
//	CAPTURE_LISTEN_ADDRESS=127.0.0.1:8089
//	CAPTURE_LOG_LEVEL=debug
//	CAPTURE_LOG_PATH=/tmp/capture.log
//	CAPTURE_DESKTOP_NOTIFICATIONS=true
//
// # Saving Settings
//
//	settings.DownloadsPath = "/custom/path"
//	err := settings.Save("/path/to/config.json")
package config
