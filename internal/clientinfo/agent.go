// Package clientinfo describes a visitor: browser and OS from the
// User-Agent, and an approximate location from ipapi.co.
package clientinfo

import (
	"regexp"
	"strings"
)

const Unknown = "Unknown"

var (
	firefoxVer = regexp.MustCompile(`Firefox/([\d.]+)`)
	edgeVer    = regexp.MustCompile(`Edg(?:e|A|iOS)?/([\d.]+)`)
	chromeVer  = regexp.MustCompile(`Chrome/([\d.]+)`)
	safariVer  = regexp.MustCompile(`Version/([\d.]+)`)
)

type Browser struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func (b Browser) String() string {
	return b.Name + " " + b.Version
}

// DetectBrowser checks Firefox, Edge, Chrome and Safari in that order.
func DetectBrowser(ua string) Browser {
	b := Browser{Name: Unknown, Version: "N/A"}
	var re *regexp.Regexp
	switch {
	case strings.Contains(ua, "Firefox"):
		b.Name, re = "Firefox", firefoxVer
	case strings.Contains(ua, "Edg"):
		b.Name, re = "Edge", edgeVer
	case strings.Contains(ua, "Chrome"):
		b.Name, re = "Chrome", chromeVer
	case strings.Contains(ua, "Safari"):
		b.Name, re = "Safari", safariVer
	default:
		return b
	}
	if m := re.FindStringSubmatch(ua); m != nil {
		b.Version = m[1]
	}
	return b
}

// DetectOS reads the platform from the User-Agent alone.
func DetectOS(ua string) string {
	l := strings.ToLower(ua)
	switch {
	case strings.Contains(l, "android"):
		return "Android"
	case strings.Contains(l, "iphone"), strings.Contains(l, "ipad"), strings.Contains(l, "ipod"):
		return "iOS"
	case strings.Contains(l, "windows"), strings.Contains(l, "win64"), strings.Contains(l, "win32"):
		return "Windows"
	case strings.Contains(l, "macintosh"), strings.Contains(l, "mac os"):
		return "macOS"
	case strings.Contains(l, "linux"), strings.Contains(l, "x11"):
		return "Linux"
	}
	return Unknown
}

// FlagEmoji turns a two letter country code into its regional indicator
// pair. Anything else gives "".
func FlagEmoji(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		return ""
	}
	var b strings.Builder
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return ""
		}
		b.WriteRune(c - 'A' + 0x1F1E6)
	}
	return b.String()
}
