// Package media is the boundary to capture devices.
//
// It models what a capture device hands out (streams made of tracks)
// and the recorder that turns a live audio track into data chunks.
// Concrete devices live in subpackages:
//
//   - media/portaudio: microphone capture through PortAudio
//   - media/v4l: camera capture through Video4Linux (Linux only)
//   - media/mediatest: in-memory fakes for tests
//
// # Streams and Tracks
//
// Devices.GetUserMedia returns a Stream. Every Track in it is owned by
// whoever requested the stream and must be stopped when done:
//
//	stream, err := devices.GetUserMedia(ctx, media.Constraints{Audio: true})
//	if err != nil {
//	    // errors.Is(err, media.ErrAccessDenied) or media.ErrDeviceUnavailable
//	}
//	defer stream.Stop()
//
// # Recording
//
//	rec := media.NewRecorder(track, time.Second)
//	rec.OnDataAvailable = func(chunk []byte) { chunks = append(chunks, chunk) }
//	rec.OnStop = func() { finalize(chunks) }
//	rec.Start()
//	...
//	rec.Stop() // returns once OnStop has run
package media
