// Package audio finalizes recorded PCM chunks into WAV files.
//
// # Encoding
//
// EncodeWAV joins the chunks emitted by a media.Recorder and wraps them
// in a RIFF/WAVE container:
//
//	data, err := audio.EncodeWAV(chunks, rec.Format(), &audio.Metadata{
//	    Title:        "recording",
//	    CreationDate: time.Now(),
//	})
//	os.WriteFile("recording.wav", data, 0644)
//
// Zero chunks are valid and produce a playable, empty WAV file.
//
// # Metadata
//
// Metadata is written as a LIST/INFO chunk:
//   - Title (INAM)
//   - Creation date (ICRD)
//   - Software (ISFT)
//   - Comments (ICMT)
package audio
