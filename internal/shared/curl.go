// Utilities for lifting a bearer token out of a cURL command copied from browser DevTools.
package shared

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	curlHeaderRegex = regexp.MustCompile(`(?:-H|--header)\s+'([^']+)'|(?:-H|--header)\s+"([^"]+)"`)
	curlURLRegex    = regexp.MustCompile(`curl\s+(?:-[^\s]+\s+)*'?"?(https?://[^\s'"]+)`)
)

// CurlRequest is the subset of a cURL command relevant to session import.
type CurlRequest struct {
	URL     string
	Headers map[string]string
	Token   string
}

// ParseCurlFile reads a .sh file containing a cURL command and parses it.
func ParseCurlFile(path string) (*CurlRequest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(string(content))
}

// ParseCurlCommand extracts headers and the bearer token from a cURL command.
//
// Header names are lower-cased. A command with no Authorization: Bearer header is rejected.
func ParseCurlCommand(command string) (*CurlRequest, error) {
	command = strings.ReplaceAll(command, "\\\n", " ")
	command = strings.ReplaceAll(command, "\\", "")

	req := &CurlRequest{Headers: make(map[string]string)}

	if m := curlURLRegex.FindStringSubmatch(command); len(m) > 1 {
		req.URL = m[1]
	}

	for _, match := range curlHeaderRegex.FindAllStringSubmatch(command, -1) {
		line := match[1]
		if line == "" {
			line = match[2]
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		req.Headers[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}

	auth := req.Headers["authorization"]
	scheme, token, _ := strings.Cut(auth, " ")
	if !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" || token == "null" {
		return nil, fmt.Errorf("%w: no bearer token found in curl command", ErrInvalidArgument)
	}
	req.Token = strings.TrimSpace(token)

	return req, nil
}
