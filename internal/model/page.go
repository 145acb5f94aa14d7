package model

// Page identifies which feature the application shows.
type Page int

const (
	// PageAudio shows the audio recorder. It is the default page.
	PageAudio Page = iota

	// PagePhoto shows the camera and photo capture.
	PagePhoto
)

// Pages lists every page in navigation order.
var Pages = []Page{PageAudio, PagePhoto}

// Title returns the navigation label for the page.
func (p Page) Title() string {
	switch p {
	case PagePhoto:
		return "Take Photo"
	default:
		return "Record Audio"
	}
}

// String implements fmt.Stringer.
func (p Page) String() string {
	switch p {
	case PagePhoto:
		return "photo"
	default:
		return "audio"
	}
}

// Next returns the page after p, wrapping around.
func (p Page) Next() Page {
	return Pages[(int(p)+1)%len(Pages)]
}

// ParsePage converts "audio" or "photo" to a Page.
func ParsePage(s string) (Page, bool) {
	switch s {
	case "audio":
		return PageAudio, true
	case "photo":
		return PagePhoto, true
	}
	return PageAudio, false
}
