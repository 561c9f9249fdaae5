// Package resolver turns a user's partial format selection into one concrete
// format from an inspected catalog. Everything here is pure and deterministic.
package resolver

import (
	"fmt"

	"github.com/amaumene/vidarr/internal/models"
	"github.com/amaumene/vidarr/internal/utils"
)

// Resolve picks the single format of catalog that satisfies criteria.
//
// Audio criteria filter the audio formats by container; video criteria filter
// the video formats by resolution and container (and frame rate when set).
// Among several matches the highest bitrate wins, a missing bitrate counts as 0,
// and ties keep the first one in catalog order.
func Resolve(catalog *models.MediaCatalog, criteria models.SelectionCriteria) (models.SourceFormat, error) {
	if err := criteria.Validate(); err != nil {
		return models.SourceFormat{}, err
	}
	if catalog == nil {
		return models.SourceFormat{}, fmt.Errorf("%w: no catalog to resolve against", models.ErrNoMatchingFormat)
	}

	pool := catalog.VideoFormats
	if criteria.AudioOnly {
		pool = catalog.AudioFormats
	}

	var best *models.SourceFormat
	for i := range pool {
		candidate := &pool[i]
		if !matches(candidate, criteria) {
			continue
		}
		// Strictly greater so the first-seen candidate keeps a tie
		if best == nil || candidate.BitrateValue() > best.BitrateValue() {
			best = candidate
		}
	}

	if best == nil {
		return models.SourceFormat{}, noMatchError(catalog, criteria)
	}

	return *best, nil
}

// matches reports whether format satisfies every constraint of criteria
func matches(format *models.SourceFormat, criteria models.SelectionCriteria) bool {
	if criteria.AudioOnly {
		return format.Container == criteria.AudioContainer
	}
	if format.ResolutionP != criteria.ResolutionP || format.Container != criteria.Container {
		return false
	}
	if criteria.FrameRate > 0 && format.FrameRate != criteria.FrameRate {
		return false
	}
	return true
}

// noMatchError describes what was asked for and, when a near container exists, hints at it
func noMatchError(catalog *models.MediaCatalog, criteria models.SelectionCriteria) error {
	if criteria.AudioOnly {
		err := fmt.Errorf("%w: no %s audio format", models.ErrNoMatchingFormat, criteria.AudioContainer)
		if hint := utils.SuggestContainer(criteria.AudioContainer, AudioContainers(catalog)); hint != "" && hint != criteria.AudioContainer {
			err = fmt.Errorf("%w (did you mean %s?)", err, hint)
		}
		return err
	}

	desc := fmt.Sprintf("%dp %s", criteria.ResolutionP, criteria.Container)
	if criteria.FrameRate > 0 {
		desc = fmt.Sprintf("%s at %dfps", desc, criteria.FrameRate)
	}
	err := fmt.Errorf("%w: no %s video format", models.ErrNoMatchingFormat, desc)
	if hint := utils.SuggestContainer(criteria.Container, Containers(catalog, criteria.ResolutionP)); hint != "" && hint != criteria.Container {
		err = fmt.Errorf("%w (did you mean %s?)", err, hint)
	}
	return err
}
