package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// FormatVariant is one derived rendition of a source asset. Variants
// are computed, never stored as separate binaries: the URL is a
// transformation of the original delivery URL and the dimensions are
// the original aspect ratio fitted into the variant's bounding box.
type FormatVariant struct {
	Ext         string `json:"ext"`
	URL         string `json:"url"`
	Hash        string `json:"hash"`
	Mime        string `json:"mime"`
	Name        string `json:"name"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	SizeInBytes int64  `json:"sizeInBytes"`
}

// Variant bounding boxes in pixels. The box limits both dimensions
// ("c_limit" semantics); an image already inside the box keeps its
// exact original dimensions.
const (
	ThumbnailBox = 156
	SmallBox     = 500
	MediumBox    = 750
	LargeBox     = 1000
)

// VariantNames lists the four fixed renditions in ascending size order.
var VariantNames = []string{"thumbnail", "small", "medium", "large"}

var variantBoxes = map[string]int{
	"thumbnail": ThumbnailBox,
	"small":     SmallBox,
	"medium":    MediumBox,
	"large":     LargeBox,
}

// versionRegexp matches the version segment of a source delivery URL.
var versionRegexp = regexp.MustCompile(`/v(\d+)/`)

// VersionToken extracts the v<digits> version marker from a source
// delivery URL. Returns "" when the URL carries no version segment.
func VersionToken(url string) string {
	m := versionRegexp.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// FitWithin scales (width, height) to fit inside a square bounding box
// of the given size, preserving aspect ratio and never upscaling.
func FitWithin(width, height, box int) (int, int) {
	if width <= 0 || height <= 0 {
		return width, height
	}
	scale := math.Min(1, math.Min(float64(box)/float64(width), float64(box)/float64(height)))
	w := int(math.Round(float64(width) * scale))
	h := int(math.Round(float64(height) * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// DeriveFormats computes the four variant records for a source asset.
// URLs splice a c_limit transformation into the asset's delivery URL;
// the version token, when present in the source URL, is preserved.
func DeriveFormats(asset SourceAsset) map[string]FormatVariant {
	formats := make(map[string]FormatVariant, len(VariantNames))
	for _, name := range VariantNames {
		formats[name] = deriveVariant(asset, name, variantBoxes[name])
	}
	return formats
}

func deriveVariant(asset SourceAsset, variant string, box int) FormatVariant {
	w, h := FitWithin(asset.Width, asset.Height, box)
	return FormatVariant{
		Ext:         "." + asset.Format,
		URL:         VariantURL(asset, w, h),
		Hash:        variant + "_" + lastSegment(asset.PublicID),
		Mime:        MimeType(asset.Format),
		Name:        fmt.Sprintf("%s_%s.%s", variant, asset.DisplayName, asset.Format),
		Width:       w,
		Height:      h,
		SizeInBytes: scaleBytes(asset.Bytes, asset.Width, asset.Height, w, h),
	}
}

// VariantURL builds the transformed delivery URL for one rendition.
// The transformation is inserted after the upload segment; the version
// token is carried over only when the source URL has one.
func VariantURL(asset SourceAsset, w, h int) string {
	const marker = "/upload/"
	i := strings.Index(asset.URL, marker)
	if i < 0 {
		return asset.URL
	}
	prefix := asset.URL[:i+len(marker)]
	transform := fmt.Sprintf("c_limit,h_%d,w_%d/", h, w)
	if token := VersionToken(asset.URL); token != "" {
		return prefix + transform + "v" + token + "/" + asset.PublicID + "." + asset.Format
	}
	return prefix + transform + asset.PublicID + "." + asset.Format
}

// MimeType maps a source format to its MIME type.
func MimeType(format string) string {
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "svg":
		return "image/svg+xml"
	case "":
		return "application/octet-stream"
	default:
		return "image/" + strings.ToLower(format)
	}
}

// ContentHash summarises the reconciliation-relevant content of a
// source asset: dimensions, byte size and the URL version token. Used
// by the optional skip-unchanged gate to detect no-op updates.
func ContentHash(asset SourceAsset) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%d|%d|%d|%s",
		asset.Width, asset.Height, asset.Bytes, VersionToken(asset.URL)))
	return hex.EncodeToString(sum[:])
}

// scaleBytes estimates a variant's byte size by scaling the original
// size with the pixel-area ratio.
func scaleBytes(bytes int64, ow, oh, w, h int) int64 {
	if ow <= 0 || oh <= 0 {
		return bytes
	}
	ratio := float64(w*h) / float64(ow*oh)
	return int64(math.Round(float64(bytes) * ratio))
}

// lastSegment returns the final path segment of a public ID.
func lastSegment(publicID string) string {
	if i := strings.LastIndex(publicID, "/"); i >= 0 {
		return publicID[i+1:]
	}
	return publicID
}
