package shared

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strconv"
)

var getRuntime = func() string { return runtime.GOOS }

const osmBaseURL = "https://www.openstreetmap.org/"

// MapURL builds an OpenStreetMap link centred on the given coordinates.
//
// The map tile provider is external; the CLI only hands the link to the browser.
func MapURL(lat, lon float64, zoom int) string {
	if zoom <= 0 {
		zoom = 15
	}
	q := url.Values{}
	q.Set("mlat", strconv.FormatFloat(lat, 'f', 6, 64))
	q.Set("mlon", strconv.FormatFloat(lon, 'f', 6, 64))

	return fmt.Sprintf("%s?%s#map=%d/%.6f/%.6f", osmBaseURL, q.Encode(), zoom, lat, lon)
}

// OpenBrowser opens the default system browser to the specified URL.
//
// Supports macOS, Linux, and Windows platforms.
func OpenBrowser(target string) error {
	var cmd *exec.Cmd
	rt := getRuntime()
	switch rt {
	case "darwin":
		cmd = exec.Command("open", target)
	case "linux":
		cmd = exec.Command("xdg-open", target)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		return fmt.Errorf("unsupported platform: %s", rt)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
