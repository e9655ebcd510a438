package user

import (
	"encoding/json"
	"strings"
)

// NormalizeProfileImage collapses a profile_image column value to a single
// URL. Older rows stored a JSON array of uploaded images; the first element
// is the representative one. Absent or unparsable values normalize to "".
func NormalizeProfileImage(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if strings.HasPrefix(raw, "[") {
		var urls []string
		if err := json.Unmarshal([]byte(raw), &urls); err == nil {
			for _, u := range urls {
				if u != "" {
					return u
				}
			}
			return ""
		}
	}

	return raw
}
