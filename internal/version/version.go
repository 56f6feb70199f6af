// Package version describes the running build and checks GitHub for a
// newer release.
package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	defaultAPIURL = "https://api.github.com/repos/Elpulgo/pullrefresh/releases/latest"
	httpTimeout   = 5 * time.Second
)

// Build identifies a binary. The fields are injected via ldflags.
type Build struct {
	Version string
	Commit  string
	Date    string
}

// String formats the build for `pullrefresh version`.
func (b Build) String() string {
	v := b.Version
	if v == "" {
		v = "dev"
	}
	commit, date := b.Commit, b.Date
	if commit == "" {
		commit = "none"
	}
	if date == "" {
		date = "unknown"
	}
	return fmt.Sprintf("pullrefresh version %s (commit: %s, built: %s)", v, commit, date)
}

// UpdateInfo contains the result of a version check.
type UpdateInfo struct {
	CurrentVersion  string
	LatestVersion   string
	UpdateAvailable bool
	ReleaseURL      string
}

// Checker checks GitHub for newer releases.
type Checker struct {
	currentVersion string
	apiURL         string
	httpClient     *http.Client
}

// Option configures a Checker.
type Option func(*Checker)

// WithAPIURL points the checker at another releases endpoint.
func WithAPIURL(url string) Option {
	return func(c *Checker) {
		c.apiURL = url
	}
}

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Checker) {
		c.httpClient = client
	}
}

// githubRelease is the subset of the GitHub release API response we need.
type githubRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// NewChecker creates a version checker for the given current version.
func NewChecker(currentVersion string, opts ...Option) *Checker {
	c := &Checker{
		currentVersion: currentVersion,
		apiURL:         defaultAPIURL,
		httpClient: &http.Client{
			Timeout: httpTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckForUpdate asks GitHub for the latest release. Development builds are
// never checked.
func (c *Checker) CheckForUpdate(ctx context.Context) (*UpdateInfo, error) {
	info := &UpdateInfo{
		CurrentVersion: c.currentVersion,
	}

	if canonical(c.currentVersion) == "" {
		return info, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to check for updates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to parse release response: %w", err)
	}

	info.LatestVersion = release.TagName
	info.ReleaseURL = release.HTMLURL
	info.UpdateAvailable = isNewer(c.currentVersion, release.TagName)

	return info, nil
}

// isNewer returns true if latest is a newer semver than current.
func isNewer(current, latest string) bool {
	cur, lat := canonical(current), canonical(latest)
	if cur == "" || lat == "" {
		return false
	}
	return semver.Compare(lat, cur) > 0
}

// canonical returns v with a "v" prefix, or "" when it is not a full
// major.minor.patch version.
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) || semver.Canonical(v) != strings.SplitN(v, "+", 2)[0] {
		return ""
	}
	return v
}
