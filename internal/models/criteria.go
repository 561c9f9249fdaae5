package models

import "strings"

// SelectionCriteria narrows a catalog to a single format.
// Video mode needs ResolutionP and Container; audio mode needs AudioContainer.
// Zero values mean "not set".
type SelectionCriteria struct {
	AudioOnly      bool   `json:"audio_only"`
	ResolutionP    int    `json:"resolution,omitempty"`
	Container      string `json:"container,omitempty"`
	FrameRate      int    `json:"frame_rate,omitempty"` // optional refinement, video only
	AudioContainer string `json:"audio_container,omitempty"`
}

// VideoCriteria builds criteria for a video download
func VideoCriteria(resolutionP int, container string) SelectionCriteria {
	return SelectionCriteria{ResolutionP: resolutionP, Container: container}
}

// AudioCriteria builds criteria for an audio-only download
func AudioCriteria(container string) SelectionCriteria {
	return SelectionCriteria{AudioOnly: true, AudioContainer: container}
}

// Validate checks that the fields required by the selected mode are present.
// Fields are reported in form order so the first one is what the user fixes first.
func (c SelectionCriteria) Validate() error {
	verr := &ValidationError{}

	if c.AudioOnly {
		if strings.TrimSpace(c.AudioContainer) == "" {
			verr.add("audio_container", "audio container is required")
		}
		return verr.orNil()
	}

	switch {
	case c.ResolutionP == 0:
		verr.add("resolution", "resolution is required")
	case c.ResolutionP < 0:
		verr.add("resolution", "resolution must be a positive number")
	}
	if strings.TrimSpace(c.Container) == "" {
		verr.add("container", "container is required")
	}
	if c.FrameRate < 0 {
		verr.add("frame_rate", "frame rate must be a positive number")
	}

	return verr.orNil()
}
