// Package archive speaks the host platform's entry-reference and upload API
// conventions. Only the small surface the generator and publisher need is
// covered: proxy references and the raw-file upload endpoint.
package archive

import (
	"fmt"
	"strings"
)

// Proxy returns the reference value for an entry, of the form
// ../uploads/{uploadID}/archive/{entryID}#/data.
func Proxy(uploadID, entryID string) string {
	return fmt.Sprintf("../uploads/%s/archive/%s#/data", uploadID, entryID)
}

// NormalizeProxy fixes a reference whose section path is missing its leading
// slash, e.g. "../uploads/1234/archive/5678#data" becomes
// "../uploads/1234/archive/5678#/data". References without a fragment are
// returned unchanged.
func NormalizeProxy(ref string) string {
	entryPath, sectionPath, found := strings.Cut(ref, "#")
	if !found || strings.HasPrefix(sectionPath, "/") {
		return ref
	}
	return entryPath + "#/" + sectionPath
}

// ParseProxy extracts the upload and entry IDs from a proxy reference.
func ParseProxy(ref string) (uploadID, entryID string, err error) {
	entryPath, _, _ := strings.Cut(ref, "#")
	parts := strings.Split(strings.TrimPrefix(entryPath, "../"), "/")
	if len(parts) != 4 || parts[0] != "uploads" || parts[2] != "archive" || parts[1] == "" || parts[3] == "" {
		return "", "", fmt.Errorf("archive: %q is not an entry reference", ref)
	}
	return parts[1], parts[3], nil
}
