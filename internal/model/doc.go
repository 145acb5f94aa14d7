// Package model defines the core data structures shared by the capture
// features and the user interface.
//
// # Pages
//
// Page selects which feature is visible. The zero value is PageAudio:
//
//	page := model.PageAudio
//	fmt.Println(page.Title()) // "Record Audio"
//
// # Levels
//
// Levels is the live amplitude meter: exactly LevelCount values, each a
// percentage in [0,100]:
//
//	var levels model.Levels
//	levels[0] = 42.5
//
// # Resources
//
// Resource describes a finished capture (a recording or a photo) that can
// be played, viewed or downloaded through its URL:
//
//	res := &model.Resource{
//	    URL:      "http://127.0.0.1:40123/blob/2f6c...",
//	    MIMEType: "audio/wav",
//	    FileName: "recording.wav",
//	}
package model
