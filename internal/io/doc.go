// Package ioutils provides file system, in-memory buffer and image
// processing utilities.
//
// This package contains functions for:
//   - File writing and directory creation
//   - Choosing a free file name for downloads
//   - An in-memory io.WriteSeeker for encoders that seek
//   - Still-frame snapshots, PNG encoding and preview thumbnails
//
// # File Operations
//
//	// Write data to file
//	err := ioutils.WriteFile(ctx, "/path/to/photo.png", data)
//
//	// Pick "recording (1).wav" if "recording.wav" already exists
//	path := ioutils.UniquePath("/home/me/Downloads/recording.wav")
//
// # In-memory Files
//
//	var f ioutils.MemFile
//	enc := wav.NewEncoder(&f, 44100, 16, 1, 1)
//	...
//	data := f.Bytes()
//
// # Image Processing
//
// The ImageService handles photo capture and previews:
//
//	svc := ioutils.NewImageService()
//
//	// Draw the current frame onto a 640x480 surface and encode it
//	surface := svc.Snapshot(frame, 640, 480)
//	png, _ := svc.EncodePNG(ctx, surface)
//
//	// Shrink a frame to fit a 64x48 terminal preview
//	thumb := svc.Thumbnail(frame, 64, 48)
package ioutils
