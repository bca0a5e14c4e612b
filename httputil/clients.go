package httputil

import (
	"crypto/tls"
	"net/http"
	"time"
)

type Clients struct {
	Scraping *http.Client // for listing portals
	Download *http.Client // for snapshot artifacts, no overall timeout
}

func NewClients(scrapeTimeout time.Duration) *Clients {
	// HTTP/1.1 only, some portals reject non-browser HTTP/2 clients
	transport := &http.Transport{
		ForceAttemptHTTP2: false,
		TLSNextProto:      make(map[string]func(string, *tls.Conn) http.RoundTripper),
	}

	scraping := &http.Client{
		Timeout:   scrapeTimeout,
		Transport: transport,
	}

	// snapshot bodies can take minutes, only the header phase is bounded
	download := &http.Client{
		Transport: &http.Transport{
			ResponseHeaderTimeout: 60 * time.Second,
		},
	}

	return &Clients{
		Scraping: scraping,
		Download: download,
	}
}
