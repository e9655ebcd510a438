package user

import "testing"

func TestNormalizeProfileImage(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"https://cdn.example.com/me.jpg", "https://cdn.example.com/me.jpg"},
		{`["https://cdn.example.com/a.jpg","https://cdn.example.com/b.jpg"]`, "https://cdn.example.com/a.jpg"},
		{`["", "https://cdn.example.com/b.jpg"]`, "https://cdn.example.com/b.jpg"},
		{`[]`, ""},
		{"  https://cdn.example.com/me.jpg  ", "https://cdn.example.com/me.jpg"},
	}

	for _, tt := range tests {
		if got := NormalizeProfileImage(tt.raw); got != tt.want {
			t.Errorf("NormalizeProfileImage(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
