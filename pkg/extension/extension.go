package extension

import (
	"strings"

	set "github.com/deckarep/golang-set/v2"
)

var extImage = set.NewSet("jpg", "jpeg", "png", "svg", "webp")

// IsImage reports whether the filename or URL path ends with a known image
// extension. Names without any extension are not rejected by callers: this is
// a positive check only.
func IsImage(filename string) bool {
	parts := strings.Split(filename, ".")

	if len(parts) < 2 {
		return false
	}
	ext := strings.ToLower(parts[len(parts)-1])

	return extImage.ContainsOne(ext)
}
