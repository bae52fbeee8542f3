package cli

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// fzfPreviewCommand picks a --preview command for fzf matching the renderer
// the terminal supports. fzf substitutes {} with the highlighted path.
func fzfPreviewCommand() string {
	const chafa = "chafa --fill=block --symbols=block -s 80x40 {} 2>/dev/null"
	switch {
	case isKitty():
		// clear the previous kitty image first so they do not stack up
		return "printf \"\\x1b_Ga=d\\x1b\\\\\"; kitty +kitten icat --silent {} 2>/dev/null || " + chafa
	case isInlineImageCapable():
		return "imgcat {} 2>/dev/null || " + chafa
	default:
		return chafa
	}
}

// SelectFilesWithFzf lists the images under startDir in fzf (multi-select
// with TAB) and returns the chosen paths. It needs find, bash and fzf on
// PATH.
func SelectFilesWithFzf(startDir string) ([]string, error) {
	cmdStr := fmt.Sprintf(
		"find %s -type f \\( -iname '*.png' -o -iname '*.jpg' -o -iname '*.jpeg' -o -iname '*.gif' -o -iname '*.webp' -o -iname '*.bmp' -o -iname '*.tif' -o -iname '*.tiff' \\) | fzf --multi --height 100%% --border --prompt='Logos> ' --ansi --preview=%q --preview-window='right:60%%'",
		strconv.Quote(startDir),
		fzfPreviewCommand(),
	)
	cmd := exec.Command("bash", "-lc", cmdStr)
	cmd.Stderr = os.Stderr

	var out bytes.Buffer
	cmd.Stdout = &out

	err := cmd.Run()
	clearKittyImages()
	if err != nil {
		return nil, fmt.Errorf("error running fzf: %w", err)
	}

	paths := parseSelection(out.String())
	if len(paths) == 0 {
		return nil, fmt.Errorf("no file selected")
	}
	return paths, nil
}

// parseSelection splits fzf output into one path per non-empty line.
func parseSelection(s string) []string {
	var paths []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			paths = append(paths, line)
		}
	}
	return paths
}

// clearKittyImages emits the kitty graphics "delete" control sequence.
// Terminals that don't understand it will ignore it.
func clearKittyImages() {
	if isKitty() {
		fmt.Fprint(os.Stdout, "\x1b_Ga=d\x1b\\")
	}
}
