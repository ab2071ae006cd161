package images

import "strings"

// FetchSuffix is appended to an identifier on fetch, whatever extension the
// image was uploaded with. GET /image/foo only ever finds foo.webp.
const FetchSuffix = ".webp"

// FetchContentType is declared on every fetched image regardless of format.
const FetchContentType = "image/jpeg"

// Extension returns everything after the last "." of a declared filename.
// A filename without a dot is returned whole.
func Extension(declared string) string {
	if i := strings.LastIndex(declared, "."); i >= 0 {
		return declared[i+1:]
	}
	return declared
}

// StoredName builds the on-disk name for an upload: name + "." + extension.
func StoredName(name, declared string) string {
	return name + "." + Extension(declared)
}

// FetchName maps an identifier to the name looked up by fetch.
func FetchName(imageID string) string {
	return imageID + FetchSuffix
}
