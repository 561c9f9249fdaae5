package models

// FormatKind tells whether a SourceFormat carries video or audio only
type FormatKind string

const (
	FormatKindVideo FormatKind = "video"
	FormatKindAudio FormatKind = "audio"
)

// SourceFormat is one downloadable encoding reported by the inspection service.
// Video formats carry ResolutionP and FrameRate; audio formats leave them zero.
type SourceFormat struct {
	FormatID    string     `json:"format_id"`
	Kind        FormatKind `json:"kind"`
	ResolutionP int        `json:"resolution,omitempty"`
	FrameRate   int        `json:"fps,omitempty"`
	Container   string     `json:"ext"`
	Bitrate     *float64   `json:"tbr"` // nil when the source did not report one
}

// BitrateValue returns the bitrate, treating a missing value as 0
func (f SourceFormat) BitrateValue() float64 {
	if f.Bitrate == nil {
		return 0
	}
	return *f.Bitrate
}

// MediaCatalog is the result of one successful inspection
type MediaCatalog struct {
	Title           string         `json:"title"`
	DurationSeconds int            `json:"duration"`
	ThumbnailRef    string         `json:"thumbnail"`
	VideoFormats    []SourceFormat `json:"video_formats"`
	AudioFormats    []SourceFormat `json:"audio_formats"`
}

// HasFormat reports whether formatID exists anywhere in the catalog
func (c *MediaCatalog) HasFormat(formatID string) bool {
	if c == nil {
		return false
	}
	for _, f := range c.VideoFormats {
		if f.FormatID == formatID {
			return true
		}
	}
	for _, f := range c.AudioFormats {
		if f.FormatID == formatID {
			return true
		}
	}
	return false
}

// QueueEntry is an accepted download job awaiting execution
type QueueEntry struct {
	FormatID     string `json:"format_id"`
	SourceURL    string `json:"url"` // unique key within a queue
	Title        string `json:"title"`
	ThumbnailRef string `json:"thumbnail"`
}
