package ytdlp

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/amaumene/vidarr/internal/models"
)

// info is the subset of yt-dlp's --dump-single-json output we read
type info struct {
	Title     string    `json:"title"`
	Duration  *float64  `json:"duration"`
	Thumbnail string    `json:"thumbnail"`
	Formats   []rawFormat `json:"formats"`
}

type rawFormat struct {
	FormatID string   `json:"format_id"`
	Height   *float64 `json:"height"`
	FPS      *float64 `json:"fps"`
	TBR      *float64 `json:"tbr"`
	Ext      string   `json:"ext"`
}

// ParseInfo decodes yt-dlp JSON into a catalog.
// Formats with a height become video formats, the rest audio. Video formats
// shorter than minVideoHeight are dropped. Source order is kept.
func ParseInfo(data []byte, minVideoHeight int) (*models.MediaCatalog, error) {
	var raw info
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: failed to decode yt-dlp output: %v", models.ErrInspectionFailed, err)
	}

	if len(raw.Formats) == 0 {
		return nil, fmt.Errorf("%w: no formats available", models.ErrInspectionFailed)
	}

	catalog := &models.MediaCatalog{
		Title:        raw.Title,
		ThumbnailRef: raw.Thumbnail,
		VideoFormats: []models.SourceFormat{},
		AudioFormats: []models.SourceFormat{},
	}
	if raw.Duration != nil && *raw.Duration > 0 {
		catalog.DurationSeconds = int(math.Round(*raw.Duration))
	}

	for _, f := range raw.Formats {
		if f.FormatID == "" {
			continue
		}

		format := models.SourceFormat{
			FormatID:  f.FormatID,
			Container: f.Ext,
			Bitrate:   f.TBR,
		}

		if f.Height != nil && *f.Height > 0 {
			height := int(*f.Height)
			if height < minVideoHeight {
				continue
			}
			format.Kind = models.FormatKindVideo
			format.ResolutionP = height
			if f.FPS != nil {
				format.FrameRate = int(math.Round(*f.FPS))
			}
			catalog.VideoFormats = append(catalog.VideoFormats, format)
			continue
		}

		format.Kind = models.FormatKindAudio
		catalog.AudioFormats = append(catalog.AudioFormats, format)
	}

	return catalog, nil
}
