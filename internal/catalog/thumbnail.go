package catalog

import (
	"encoding/base64"
	"fmt"
	"hash/fnv"
)

// placeholderColors are the accent colors used for generated thumbnails.
var placeholderColors = [...]string{"#8B5CF6", "#D946EF", "#F97316", "#0EA5E9", "#10B981"}

const placeholderSVG = `<svg width="800" height="450" xmlns="http://www.w3.org/2000/svg">` +
	`<rect width="800" height="450" fill="%[1]s"/>` +
	`<circle cx="400" cy="225" r="60" fill="white" opacity="0.8"/>` +
	`<polygon points="380,205 380,245 420,225" fill="%[1]s"/>` +
	`</svg>`

// PlaceholderThumbnail renders a decorative SVG thumbnail as a data URL.
// The accent color is picked deterministically from the seed, so the same
// upload always gets the same placeholder.
func PlaceholderThumbnail(seed string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(seed))
	color := placeholderColors[h.Sum32()%uint32(len(placeholderColors))]

	svg := fmt.Sprintf(placeholderSVG, color)
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}
