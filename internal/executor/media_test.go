package executor

import "testing"

func TestTransformMediaURL(t *testing.T) {
	tc := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "youtube watch url",
			raw:  "https://www.youtube.com/watch?v=abc123",
			want: "https://www.youtube.com/embed/abc123",
		},
		{
			name: "youtube short url",
			raw:  "https://youtu.be/abc123",
			want: "https://www.youtube.com/embed/abc123",
		},
		{
			name: "vimeo url",
			raw:  "https://vimeo.com/987654",
			want: "https://player.vimeo.com/video/987654",
		},
		{
			name: "drive video preview",
			raw:  "https://drive.google.com/file/d/FILE123/view",
			want: "https://drive.google.com/file/d/FILE123/preview",
		},
		{
			name: "drive wav download",
			raw:  "https://drive.google.com/file/d/FILE123/lecture.wav",
			want: "https://drive.google.com/uc?export=download&id=FILE123",
		},
		{
			name: "missing scheme",
			raw:  "example.com/video.mp4",
			want: "http://example.com/video.mp4",
		},
		{
			name: "plain url unchanged",
			raw:  "https://example.com/clip.mp4",
			want: "https://example.com/clip.mp4",
		},
		{
			name: "youtube watch without id",
			raw:  "https://www.youtube.com/watch",
			want: "https://www.youtube.com/watch",
		},
		{
			name: "drive url without file segment",
			raw:  "https://drive.google.com/drive/folders/xyz",
			want: "https://drive.google.com/drive/folders/xyz",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := TransformMediaURL(tt.raw)
			if got != tt.want {
				t.Errorf("TransformMediaURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}

			if again := TransformMediaURL(got); again != got {
				t.Errorf("transform not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestIsAudioURL(t *testing.T) {
	tc := []struct {
		name string
		raw  string
		want bool
	}{
		{name: "wav suffix", raw: "https://example.com/lecture.wav", want: true},
		{name: "wav suffix uppercase", raw: "https://example.com/LECTURE.WAV", want: true},
		{name: "drive download with wav hint", raw: "https://drive.google.com/uc?export=download&id=X&name=talk.wav", want: true},
		{name: "mp4 video", raw: "https://example.com/clip.mp4", want: false},
		{name: "youtube embed", raw: "https://www.youtube.com/embed/abc", want: false},
		{name: "drive preview", raw: "https://drive.google.com/file/d/X/preview", want: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAudioURL(tt.raw); got != tt.want {
				t.Errorf("IsAudioURL(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestEnsureScheme(t *testing.T) {
	if got := EnsureScheme("example.com"); got != "http://example.com" {
		t.Errorf("EnsureScheme = %q", got)
	}
	if got := EnsureScheme("https://example.com"); got != "https://example.com" {
		t.Errorf("https should pass through, got %q", got)
	}
	if got := EnsureScheme("http://example.com"); got != "http://example.com" {
		t.Errorf("http should pass through, got %q", got)
	}
}
