// Package download saves finished recordings and photos to disk, the
// terminal counterpart of a browser's download link.
//
// # Manager
//
// The Manager writes a resource into the downloads directory under its
// suggested file name. Existing files are never overwritten; repeated
// saves become "recording (1).wav", "recording (2).wav" and so on.
//
// Resources served over HTTP are fetched through the resource server
// with the download flag set, so the bytes on disk are exactly what a
// browser would receive. Resources that were never served are read
// straight from the blob store.
//
// # Basic Usage
//
//	manager := download.NewManager(settings.DownloadsPath, store, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	path, err := manager.Save(ctx, res)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// # Retry Logic
//
// Failed HTTP fetches are retried with exponential backoff, bounded by
// Manager.MaxRetries. Reads from the store are not retried.
package download
