package roster

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/ozfortress/slurwatch/internal/adapter"
	"github.com/ozfortress/slurwatch/internal/steamid"
)

// ErrNotFound is returned when a roster id does not (yet) exist upstream.
// It is an expected, terminal-per-id outcome, not a transport failure.
var ErrNotFound = errors.New("roster profile not found")

var (
	steamLinkRe = regexp.MustCompile(`(?i)https?://steamcommunity\.com/profiles/(\d{17})`)
	headingRe   = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)
	markupRe    = regexp.MustCompile(`<[^>]+>`)
)

// Profile is the result of probing one roster id.
type Profile struct {
	RosterID    int64
	SteamID64   *int64
	DisplayName string
	ProfileURL  string
}

// SteamProfileURL returns the steamcommunity URL for the linked account, nil
// when the profile has no linked account.
func (p *Profile) SteamProfileURL() *string {
	if p.SteamID64 == nil {
		return nil
	}
	url := steamid.ProfileURL(uint64(*p.SteamID64))
	return &url
}

// Prober defines the interface for fetching one roster profile page
//
//go:generate mockgen -source=probe.go -destination=../mocks/prober.go -package=mocks -mock_names=Prober=MockProber
type Prober interface {
	// Probe fetches the profile page for a roster id. Returns ErrNotFound on
	// 404; any other non-2xx status or transport failure is a transient
	// error. The probe itself never retries.
	Probe(ctx context.Context, rosterID int64) (*Profile, error)
}

// HTTPProber implements Prober against the ozfortress site
type HTTPProber struct {
	httpClient adapter.HTTPClient
	baseURL    string
}

// NewProber creates a new roster prober
func NewProber(httpClient adapter.HTTPClient, baseURL string) Prober {
	return &HTTPProber{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Probe fetches the profile page for a roster id and extracts the linked
// steam account and display name.
func (p *HTTPProber) Probe(ctx context.Context, rosterID int64) (*Profile, error) {
	url := fmt.Sprintf("%s/users/%d", p.baseURL, rosterID)

	headers := map[string]string{
		"Accept":  "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Referer": p.baseURL + "/",
	}

	status, body, err := p.httpClient.GetRaw(ctx, url, headers)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster profile %d: %w", rosterID, err)
	}
	if status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("unexpected status code %d for roster profile %d", status, rosterID)
	}

	profile := &Profile{
		RosterID:   rosterID,
		ProfileURL: url,
	}

	// First profile link wins; absence is valid (no linked account).
	if m := steamLinkRe.FindSubmatch(body); m != nil {
		id, err := strconv.ParseInt(string(m[1]), 10, 64)
		if err == nil {
			profile.SteamID64 = &id
		}
	}

	if m := headingRe.FindSubmatch(body); m != nil {
		profile.DisplayName = strings.TrimSpace(markupRe.ReplaceAllString(string(m[1]), ""))
	}

	return profile, nil
}
