package post

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseImageURLs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ImageURLList
	}{
		{
			name: "json array",
			raw:  `["https://cdn.example.com/a.jpg","https://cdn.example.com/b.jpg"]`,
			want: ImageURLList{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
		},
		{
			name: "json encoded single url",
			raw:  `"https://cdn.example.com/a.jpg"`,
			want: ImageURLList{"https://cdn.example.com/a.jpg"},
		},
		{
			name: "comma joined",
			raw:  "https://cdn.example.com/a.jpg, https://cdn.example.com/b.jpg",
			want: ImageURLList{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
		},
		{
			name: "single bare url",
			raw:  "https://cdn.example.com/a.jpg",
			want: ImageURLList{"https://cdn.example.com/a.jpg"},
		},
		{
			name: "empty",
			raw:  "",
			want: ImageURLList{},
		},
		{
			name: "empty json array",
			raw:  "[]",
			want: ImageURLList{},
		},
		{
			name: "array with blanks dropped",
			raw:  `["", "https://cdn.example.com/a.jpg"]`,
			want: ImageURLList{"https://cdn.example.com/a.jpg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseImageURLs(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseImageURLs(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	// Whatever shape came in, the write-back form is always a JSON array
	// that parses back to the same list.
	for _, raw := range []string{
		`["https://cdn.example.com/a.jpg"]`,
		"https://cdn.example.com/a.jpg,https://cdn.example.com/b.jpg",
		"",
	} {
		parsed := ParseImageURLs(raw)
		again := ParseImageURLs(parsed.Canonical())
		if !reflect.DeepEqual(parsed, again) {
			t.Errorf("canonical form of %q did not round-trip: %v vs %v", raw, parsed, again)
		}
	}
}

func TestImageURLListUnmarshalJSON(t *testing.T) {
	var p Post
	payload := `{"id":"b1a9c6ee-8f33-4f2e-9f4e-0a8a1c2d3e4f","image_urls":"[\"https://cdn.example.com/a.jpg\"]"}`
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(p.ImageURLs) != 1 || p.ImageURLs.First() != "https://cdn.example.com/a.jpg" {
		t.Errorf("expected normalized single url, got %v", p.ImageURLs)
	}

	payload = `{"image_urls":["https://cdn.example.com/a.jpg","https://cdn.example.com/b.jpg"]}`
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(p.ImageURLs) != 2 {
		t.Errorf("expected two urls, got %v", p.ImageURLs)
	}
}
