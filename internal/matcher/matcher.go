// Package matcher decides which saved credentials belong to a destination
// (a page URL, a bare host or any string a caller identifies a site by).
//
// Matching is two-tier. When both sides parse as URLs the hosts are
// compared: equal host and port match, and so does a page hostname that is
// a strict subdomain of the saved hostname on the same port. When either
// side does not parse, a prefix comparison on the raw strings is used
// instead, after stripping an optional http(s) scheme and "www.".
package matcher

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-pass-vault/models"
)

var schemeAndWWW = regexp.MustCompile(`^(https?://)?(www\.)?`)

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
	"ws":    "80",
	"wss":   "443",
	"ftp":   "21",
}

type destination struct {
	hostname string
	port     string
}

func (d destination) host() string {
	if d.port == "" {
		return d.hostname
	}
	return d.hostname + ":" + d.port
}

// Match reports whether a credential saved for saved should be offered on
// page.
func Match(page, saved string) bool {
	p, pageOK := parse(page)
	s, savedOK := parse(saved)
	if pageOK && savedOK {
		if p.host() == s.host() {
			return true
		}
		return p.port == s.port && strings.HasSuffix(p.hostname, "."+s.hostname)
	}

	return prefixMatch(page, saved)
}

// Filter returns the credentials matching destination in their original
// order. The result is never nil.
func Filter(credentials []models.Credential, destination string) []models.Credential {
	matched := make([]models.Credential, 0, len(credentials))
	for _, c := range credentials {
		if Match(destination, c.WebsiteURL) {
			matched = append(matched, c)
		}
	}
	return matched
}

func parse(raw string) (destination, bool) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return destination{}, false
	}

	hostname := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if hostname == "" {
		return destination{}, false
	}

	port := u.Port()
	if port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n < 1 || n > 65535 {
			return destination{}, false
		}
		port = strconv.Itoa(n)
		if defaultPorts[strings.ToLower(u.Scheme)] == port {
			port = ""
		}
	}

	return destination{hostname: hostname, port: port}, true
}

// prefixMatch is the fallback for inputs that are not URLs. An empty saved
// destination never matches.
func prefixMatch(page, saved string) bool {
	cleanPage := schemeAndWWW.ReplaceAllString(page, "")
	cleanSaved := schemeAndWWW.ReplaceAllString(saved, "")
	if cleanSaved == "" {
		return false
	}
	return strings.HasPrefix(cleanPage, cleanSaved)
}
