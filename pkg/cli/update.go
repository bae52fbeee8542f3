package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

// Version is the running release. Overridden at build time with
// -ldflags "-X github.com/Fepozopo/logostrip/pkg/cli.Version=1.2.3".
var Version = "0.1.0"

const updateRepo = "Fepozopo/logostrip"

type ghAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

type ghRelease struct {
	TagName    string    `json:"tag_name"`
	Name       string    `json:"name"`
	Draft      bool      `json:"draft"`
	Prerelease bool      `json:"prerelease"`
	Assets     []ghAsset `json:"assets"`
}

// semverRe finds v1.2.3 or 1.2.3 (with optional pre-release/build) inside a
// tag or release name such as "logostrip-v1.2.3".
var semverRe = regexp.MustCompile(`v?\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?`)

func fetchReleases(repo string) ([]ghRelease, error) {
	apiURL := fmt.Sprintf("https://api.github.com/repos/%s/releases", repo)
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(apiURL)
	if err != nil {
		return nil, fmt.Errorf("github API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading github response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github API returned status %d: %s", resp.StatusCode, string(body))
	}
	var releases []ghRelease
	if err := json.Unmarshal(body, &releases); err != nil {
		return nil, fmt.Errorf("failed to decode github releases: %w", err)
	}
	return releases, nil
}

// releaseVersion extracts the semantic version of r from its tag, falling
// back to its name.
func releaseVersion(r ghRelease) (semver.Version, bool) {
	for _, s := range []string{r.TagName, r.Name} {
		match := semverRe.FindString(s)
		if match == "" {
			continue
		}
		v, err := semver.Parse(strings.TrimPrefix(match, "v"))
		if err == nil {
			return v, true
		}
	}
	return semver.Version{}, false
}

// pickAsset prefers an asset built for goos/goarch, then one naming goos,
// then the first asset.
func pickAsset(assets []ghAsset, goos, goarch string) string {
	best, bestScore := "", -1
	for _, a := range assets {
		name := strings.ToLower(a.Name)
		score := 0
		if strings.Contains(name, goos) {
			score += 2
		}
		if strings.Contains(name, goarch) {
			score++
		}
		if score > bestScore {
			best, bestScore = a.BrowserDownloadURL, score
		}
	}
	return best
}

// latestRelease returns the highest published, non-prerelease version among
// releases.
func latestRelease(releases []ghRelease, goos, goarch string) (*selfupdate.Release, bool) {
	var latest *selfupdate.Release
	for _, r := range releases {
		if r.Draft || r.Prerelease {
			continue
		}
		v, ok := releaseVersion(r)
		if !ok {
			continue
		}
		if latest == nil || v.GT(latest.Version) {
			latest = &selfupdate.Release{
				Version:  v,
				AssetURL: pickAsset(r.Assets, goos, goarch),
			}
		}
	}
	return latest, latest != nil
}

// CheckForUpdates compares Version with the newest GitHub release and, after
// confirmation on stdin, replaces the running binary with it.
func CheckForUpdates(out io.Writer) error {
	fmt.Fprintf(out, "Current version: %s\n", Version)
	releases, err := fetchReleases(updateRepo)
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	latest, found := latestRelease(releases, runtime.GOOS, runtime.GOARCH)
	if !found {
		fmt.Fprintf(out, "No releases found for %s.\n", updateRepo)
		return nil
	}
	fmt.Fprintf(out, "Latest version: %s\n", latest.Version)

	current, perr := semver.Parse(strings.TrimPrefix(Version, "v"))
	if perr != nil {
		fmt.Fprintf(out, "warning: could not parse current version %q: %v\n", Version, perr)
	} else if latest.Version.LTE(current) {
		fmt.Fprintf(out, "You are already running the latest version: %s.\n", current)
		return nil
	}

	if latest.AssetURL == "" {
		fmt.Fprintf(out, "A new version (%s) is available but there is no downloadable asset.\n", latest.Version)
		fmt.Fprintf(out, "Download it from https://github.com/%s/releases.\n", updateRepo)
		return nil
	}

	answer, err := PromptLine(fmt.Sprintf("A new version (%s) is available. Update now? (y/N): ", latest.Version))
	if err != nil {
		return fmt.Errorf("failed reading input: %w", err)
	}
	if a := strings.ToLower(answer); a != "y" && a != "yes" {
		fmt.Fprintln(out, "Update cancelled.")
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("could not locate executable: %w", err)
	}
	fmt.Fprintln(out, "Updating...")
	if err := selfupdate.UpdateTo(latest.AssetURL, exe); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	fmt.Fprintf(out, "Updated to %s. Run logostrip again to use it.\n", latest.Version)
	return nil
}
