// Utilities for parsing cURL commands copied from browser DevTools.
//
// Students sign in through the web interface; "Copy as cURL" on any
// authenticated request is the quickest way to hand the CLI a bearer token.
package shared

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// CurlAuth represents credentials extracted from a cURL command.
type CurlAuth struct {
	Token   string            // bearer token from the Authorization header
	Headers map[string]string // remaining request headers
}

var curlHeaderRegex = regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)

// ParseCurlFile reads a .sh file containing a cURL command and extracts the bearer token.
func ParseCurlFile(filepath string) (*CurlAuth, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(content)
}

// ParseCurlCommand parses a cURL command string and extracts the bearer token and headers.
//
// Returns an error when no Authorization header with a Bearer scheme is present.
func ParseCurlCommand(data []byte) (*CurlAuth, error) {
	curlCmd := string(data)
	curlCmd = strings.ReplaceAll(curlCmd, "\\\n", " ")
	curlCmd = strings.ReplaceAll(curlCmd, "\\", "")

	auth := &CurlAuth{Headers: make(map[string]string)}

	for _, match := range curlHeaderRegex.FindAllStringSubmatch(curlCmd, -1) {
		headerLine := match[1]
		if headerLine == "" {
			headerLine = match[2]
		}

		parts := strings.SplitN(headerLine, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if strings.EqualFold(key, "authorization") {
			if token, ok := strings.CutPrefix(value, "Bearer "); ok {
				auth.Token = strings.TrimSpace(token)
			}
			continue
		}
		auth.Headers[key] = value
	}

	if auth.Token == "" {
		return nil, fmt.Errorf("%w: no bearer token found in curl command", ErrInvalidInput)
	}

	return auth, nil
}
