// Package htmlsanitize strips dangerous HTML from user-generated content.
//
// Group descriptions accept limited formatting; everything capable of
// executing script or hijacking navigation is removed before storage.
package htmlsanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.UGCPolicy()

// Sanitize returns s with unsafe HTML removed. Plain text passes through
// unchanged.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}
