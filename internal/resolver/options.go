package resolver

import (
	"sort"

	"github.com/amaumene/vidarr/internal/models"
)

// Resolutions lists the distinct video resolutions of catalog, highest first
func Resolutions(catalog *models.MediaCatalog) []int {
	if catalog == nil {
		return []int{}
	}
	seen := make(map[int]struct{})
	resolutions := []int{}
	for _, f := range catalog.VideoFormats {
		if _, ok := seen[f.ResolutionP]; ok {
			continue
		}
		seen[f.ResolutionP] = struct{}{}
		resolutions = append(resolutions, f.ResolutionP)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(resolutions)))
	return resolutions
}

// Containers lists the distinct video containers available at resolutionP,
// in catalog order. A resolutionP of 0 lists containers at every resolution.
func Containers(catalog *models.MediaCatalog, resolutionP int) []string {
	if catalog == nil {
		return []string{}
	}
	seen := make(map[string]struct{})
	containers := []string{}
	for _, f := range catalog.VideoFormats {
		if resolutionP > 0 && f.ResolutionP != resolutionP {
			continue
		}
		if _, ok := seen[f.Container]; ok {
			continue
		}
		seen[f.Container] = struct{}{}
		containers = append(containers, f.Container)
	}
	return containers
}

// FrameRates lists the distinct frame rates for a resolution and container, in catalog order
func FrameRates(catalog *models.MediaCatalog, resolutionP int, container string) []int {
	if catalog == nil {
		return []int{}
	}
	seen := make(map[int]struct{})
	rates := []int{}
	for _, f := range catalog.VideoFormats {
		if f.ResolutionP != resolutionP || f.Container != container {
			continue
		}
		if _, ok := seen[f.FrameRate]; ok {
			continue
		}
		seen[f.FrameRate] = struct{}{}
		rates = append(rates, f.FrameRate)
	}
	return rates
}

// AudioContainers lists the distinct audio containers of catalog, in catalog order
func AudioContainers(catalog *models.MediaCatalog) []string {
	if catalog == nil {
		return []string{}
	}
	seen := make(map[string]struct{})
	containers := []string{}
	for _, f := range catalog.AudioFormats {
		if _, ok := seen[f.Container]; ok {
			continue
		}
		seen[f.Container] = struct{}{}
		containers = append(containers, f.Container)
	}
	return containers
}
