// Package http serves captured resources over loopback HTTP and fetches
// them back to disk.
//
// # Server
//
// Server exposes a blob.Store so that recordings can be played and
// photos viewed in a browser, and downloaded with their suggested name:
//
//	srv := http.NewServer(store, logger)
//	base, err := srv.Start("127.0.0.1:0")
//	store.SetBaseURL(base)
//	defer srv.Shutdown(ctx)
//
//	GET /blob/{id}             -> the blob with its content type
//	GET /blob/{id}?download=1  -> the same, as an attachment
//
// # Client
//
// Client downloads a resource URL to a file with progress tracking:
//
//	client := http.NewClient()
//	err := client.DownloadFile(ctx, res.DownloadURL(), "/dl/recording.wav", nil)
package http
