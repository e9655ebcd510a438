package post

import (
	"encoding/json"
	"strings"
)

// ImageURLList is the ordered set of image URLs attached to a post. The
// posts.image_urls column has held three shapes over the app's life: a JSON
// array, a JSON-encoded string of one URL, and a comma-joined string. All
// reads normalize here so nothing downstream branches on representation;
// writes always produce the canonical JSON array.
type ImageURLList []string

// ParseImageURLs normalizes a raw column value into an ordered URL list.
func ParseImageURLs(raw string) ImageURLList {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ImageURLList{}
	}

	if strings.HasPrefix(raw, "[") {
		var urls []string
		if err := json.Unmarshal([]byte(raw), &urls); err == nil {
			return compact(urls)
		}
	}

	if strings.HasPrefix(raw, `"`) {
		var single string
		if err := json.Unmarshal([]byte(raw), &single); err == nil {
			return ParseImageURLs(single)
		}
	}

	return compact(strings.Split(raw, ","))
}

// Canonical returns the JSON-array form written back to the store.
func (l ImageURLList) Canonical() string {
	if len(l) == 0 {
		return "[]"
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return "[]"
	}
	return string(b)
}

// First returns the representative image, or "" for an empty list.
func (l ImageURLList) First() string {
	if len(l) == 0 {
		return ""
	}
	return l[0]
}

func (l *ImageURLList) UnmarshalJSON(data []byte) error {
	var urls []string
	if err := json.Unmarshal(data, &urls); err == nil {
		*l = compact(urls)
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = ParseImageURLs(raw)
	return nil
}

func compact(urls []string) ImageURLList {
	out := make(ImageURLList, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}
