package model

import (
	"fmt"
	"time"
)

// Suggested download names.
const (
	RecordingFileName = "recording.wav"
	PhotoFileName     = "photo.png"
)

// Resource is a finished capture exposed through a resource URL.
//
// A Resource is created when a recording stops or a photo is taken, and
// lives until it is replaced by a newer one or the application exits.
type Resource struct {
	// ID is the blob identifier inside the resource store.
	ID string

	// URL is where the resource can be fetched, played or downloaded.
	URL string

	// MIMEType is the content type of the encoded data.
	MIMEType string

	// FileName is the suggested download name.
	FileName string

	// Size is the encoded size in bytes.
	Size int

	// Width and Height are the pixel dimensions of image resources.
	// Both are zero for audio.
	Width  int
	Height int

	// CreatedAt is when the resource was minted.
	CreatedAt time.Time
}

// DownloadURL returns the URL that asks the resource server for an
// attachment response.
func (r *Resource) DownloadURL() string {
	return r.URL + "?download=1"
}

// Describe returns a one-line human readable summary.
func (r *Resource) Describe() string {
	if r.Width > 0 && r.Height > 0 {
		return fmt.Sprintf("%s (%dx%d, %s)", r.FileName, r.Width, r.Height, FormatBytes(r.Size))
	}
	return fmt.Sprintf("%s (%s)", r.FileName, FormatBytes(r.Size))
}

// FormatBytes renders a byte count using binary units.
func FormatBytes(n int) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.2f MB", float64(n)/1024/1024)
	case n >= 1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// FormatElapsed renders seconds as m:ss.
func FormatElapsed(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
