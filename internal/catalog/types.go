package catalog

import (
	"strings"
	"time"
)

// Entry mirrors a character as returned by /character.
type Entry struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Status   string   `json:"status"`
	Species  string   `json:"species"`
	Type     string   `json:"type"`
	Gender   string   `json:"gender"`
	Origin   Place    `json:"origin"`
	Location Place    `json:"location"`
	Image    string   `json:"image"`
	Episode  []string `json:"episode"`
	URL      string   `json:"url"`
	Created  string   `json:"created"`
}

// Place is a named reference to an origin or location resource.
type Place struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Page is one page of the paginated character listing.
type Page struct {
	Number  int
	Entries []Entry
	HasMore bool
	Count   int
	Pages   int
}

// pageInfo mirrors the "info" block of list responses.
type pageInfo struct {
	Count int     `json:"count"`
	Pages int     `json:"pages"`
	Next  *string `json:"next"`
	Prev  *string `json:"prev"`
}

// listResponse mirrors /character and /character/?name= payloads.
type listResponse struct {
	Info    pageInfo `json:"info"`
	Results []Entry  `json:"results"`
}

// ParsedCreated returns the Created timestamp as time.Time when possible.
func (e Entry) ParsedCreated() time.Time {
	if e.Created == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, e.Created); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Detail returns value, or "Unknown" when the API left it blank.
func Detail(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Unknown"
	}
	return value
}

// EpisodeCount reports how many episodes the character appears in.
func (e Entry) EpisodeCount() int {
	return len(e.Episode)
}
