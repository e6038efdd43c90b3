package executor

import (
	"net/url"
	"strings"
)

// EnsureScheme prefixes http:// when the URL carries no scheme.
func EnsureScheme(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "http://" + raw
}

// TransformMediaURL rewrites a media URL into its embeddable form. The
// transform is deterministic and idempotent: already-embeddable URLs pass
// through unchanged.
//
// Rules:
//
//	youtube.com/watch?v=ID, youtu.be/ID -> https://www.youtube.com/embed/ID
//	vimeo.com/ID                        -> https://player.vimeo.com/video/ID
//	drive.google.com/.../d/FILEID/...   -> direct download for .wav, preview otherwise
//	anything else                       -> unchanged after scheme normalization
func TransformMediaURL(raw string) string {
	raw = EnsureScheme(raw)

	switch {
	case strings.Contains(raw, "youtube.com/watch"):
		if parsed, err := url.Parse(raw); err == nil {
			if id := parsed.Query().Get("v"); id != "" {
				return "https://www.youtube.com/embed/" + id
			}
		}
		return raw
	case strings.Contains(raw, "youtu.be/"):
		return "https://www.youtube.com/embed/" + lastSegment(raw)
	case strings.Contains(raw, "vimeo.com/"):
		return "https://player.vimeo.com/video/" + lastSegment(raw)
	case strings.Contains(raw, "drive.google.com"):
		parts := strings.Split(raw, "/")
		for i, part := range parts {
			if part != "d" || i+1 >= len(parts) {
				continue
			}
			fileID := parts[i+1]
			if strings.Contains(strings.ToLower(raw), ".wav") {
				return "https://drive.google.com/uc?export=download&id=" + fileID
			}
			return "https://drive.google.com/file/d/" + fileID + "/preview"
		}
		return raw
	default:
		return raw
	}
}

// IsAudioURL reports whether a resolved media URL should render in an audio
// player rather than a video frame.
func IsAudioURL(raw string) bool {
	lower := strings.ToLower(raw)
	if strings.HasSuffix(lower, ".wav") {
		return true
	}
	return strings.Contains(raw, "drive.google.com/uc") && strings.Contains(lower, "wav")
}

func lastSegment(raw string) string {
	parts := strings.Split(raw, "/")
	return parts[len(parts)-1]
}
