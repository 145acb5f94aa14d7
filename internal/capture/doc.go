// Package capture implements the two capture features: audio recording
// with a live level meter, and camera photo capture.
//
// Each feature is a controller owning at most one session at a time.
// A session holds every device handle and repeating task it acquired and
// releases all of them when it ends:
//
//	audio := capture.NewAudioController(deps, capture.DefaultAudioOptions())
//	if err := audio.StartRecording(ctx); err != nil {
//	    // already logged and shown to the user
//	}
//	...
//	res := audio.StopRecording() // recording.wav, even if nothing was captured
//
//	photo := capture.NewPhotoController(deps, capture.DefaultPhotoOptions())
//	photo.StartCamera(ctx)
//	res, err := photo.TakePhoto(ctx) // ErrNotReady until the first frame
//	photo.StopCamera()
//
// Errors fall into two kinds, see KindOf. Both are handled the same way:
// the detail is logged, the user is notified, the operation is abandoned
// and earlier state is left untouched. Nothing is retried.
package capture
