package cli

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Fepozopo/logostrip/pkg/preset"
	"github.com/Fepozopo/logostrip/pkg/stdimg"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("LOGOSTRIP_PRESETS", "")
	var stdout, stderr bytes.Buffer
	code := Run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// writeLogo writes a 10x10 dark square with a 2x2 cyan block at (4,4).
func writeLogo(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.SetNRGBA(x, y, color.NRGBA{30, 30, 30, 255})
		}
	}
	for y := 4; y < 6; y++ {
		for x := 4; x < 6; x++ {
			img.SetNRGBA(x, y, color.NRGBA{20, 220, 220, 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestRunVersionAndList(t *testing.T) {
	code, out, _ := runCLI(t, "-version")
	if code != exitOK || !strings.Contains(out, Version) {
		t.Fatalf("-version: code %d, out %q", code, out)
	}

	code, out, _ = runCLI(t, "-list")
	if code != exitOK {
		t.Fatalf("-list exit %d", code)
	}
	for _, want := range []string{"* neon-full", "dark [raw]", "brightness_below(threshold)", "border_margin(margin[, threshold])", "crop to content, pad 2px"} {
		if !strings.Contains(out, want) {
			t.Fatalf("-list output missing %q:\n%s", want, out)
		}
	}
}

func TestRunUsageErrors(t *testing.T) {
	cases := map[string][]string{
		"no inputs":      {},
		"bad flag":       {"-frobnicate"},
		"unknown preset": {"-preset", "sparkle", "a.png"},
		"-o with many":   {"-o", "x.png", "a.png", "b.png"},
		"-o and inplace": {"-o", "x.png", "-inplace", "a.png"},
		"empty suffix":   {"-suffix", "", "a.png"},
		"missing config": {"-config", filepath.Join(t.TempDir(), "nope.json"), "a.png"},
	}
	for name, args := range cases {
		if code, _, _ := runCLI(t, args...); code != exitUsage {
			t.Fatalf("%s: exit %d; want %d", name, code, exitUsage)
		}
	}
}

func TestRunProcessesFiles(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "logo.png")
	writeLogo(t, in)

	code, out, errOut := runCLI(t, "-preset", "dark", "-workers", "2", in)
	if code != exitOK {
		t.Fatalf("exit %d, stderr %q", code, errOut)
	}
	outPath := filepath.Join(dir, "logo_fixed.png")
	for _, want := range []string{
		in + " -> " + outPath,
		"corners: TL(30,30,30,255)",
		"pass dark-box: erased 96 of 100 px",
		"final: 10x10",
		"done: 1 ok, 0 failed",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Fatalf("output not written: %v", err)
	}

	code, out, _ = runCLI(t, "-preset", "crop", "-inplace", "-sheet", outPath)
	if code != exitOK {
		t.Fatalf("crop exit %d", code)
	}
	if !strings.Contains(out, "content: (4,4)-(5,5)") || !strings.Contains(out, "final: 2x2") {
		t.Fatalf("crop report wrong:\n%s", out)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	img, _, err := stdimg.DecodeBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("in-place crop produced %v", img.Bounds())
	}
	if _, err := os.Stat(filepath.Join(dir, "logo_fixed_compare.png")); err != nil {
		t.Fatalf("comparison sheet not written: %v", err)
	}
}

func TestRunReportsFailuresAndContinues(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")
	writeLogo(t, good)
	missing := filepath.Join(dir, "missing.png")

	code, out, errOut := runCLI(t, "-preset", "dark", missing, good)
	if code != exitFailed {
		t.Fatalf("exit %d; want %d", code, exitFailed)
	}
	if !strings.Contains(errOut, missing) || !strings.Contains(errOut, "not-found") {
		t.Fatalf("stderr should name the path and kind: %q", errOut)
	}
	if !strings.Contains(out, "done: 1 ok, 1 failed") {
		t.Fatalf("summary wrong:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "good_fixed.png")); err != nil {
		t.Fatalf("second file not processed: %v", err)
	}
}

func TestRunConfigAndDump(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "presets.json")
	doc := `{"presets":[{"name":"mine","source":"raw","passes":[{"name":"p","rules":[{"kind":"brightness_below","threshold":45}]}],"crop":{"enabled":true,"pad":1}}]}`
	if err := os.WriteFile(cfg, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	code, out, _ := runCLI(t, "-config", cfg, "-preset", "mine", "-dump")
	if code != exitOK {
		t.Fatalf("-dump exit %d", code)
	}
	set, err := preset.Parse([]byte(out))
	if err != nil {
		t.Fatalf("dump is not a presets file: %v\n%s", err, out)
	}
	if set["mine"].Crop.Pad != 1 {
		t.Fatalf("dumped preset lost crop pad: %+v", set["mine"])
	}

	in := filepath.Join(dir, "logo.png")
	writeLogo(t, in)
	out2 := filepath.Join(dir, "result.png")
	if code, _, errOut := runCLI(t, "-config", cfg, "-preset", "mine", "-o", out2, in); code != exitOK {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	data, err := os.ReadFile(out2)
	if err != nil {
		t.Fatal(err)
	}
	img, _, err := stdimg.DecodeBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 4 {
		t.Fatalf("padded crop width %d; want 4", img.Bounds().Dx())
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"presets":[{"name":"x","passes":[{"rules":[{"kind":"glitter"}]}]}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if code, _, _ := runCLI(t, "-config", bad, "-list"); code != exitUsage {
		t.Fatalf("invalid presets file: exit %d; want %d", code, exitUsage)
	}
}

func TestOutputPath(t *testing.T) {
	cases := map[string]string{
		"logo.png":         "logo_fixed.png",
		"dir/logo.jpg":     "dir/logo_fixed.png",
		"noext":            "noext_fixed.png",
		"a.b/logo.v2.webp": "a.b/logo.v2_fixed.png",
	}
	for in, want := range cases {
		if got := OutputPath(in, "_fixed"); got != want {
			t.Fatalf("OutputPath(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestLatestRelease(t *testing.T) {
	releases := []ghRelease{
		{TagName: "v0.2.0", Assets: []ghAsset{{Name: "logostrip_windows_amd64.zip", BrowserDownloadURL: "w"}, {Name: "logostrip_linux_amd64.tar.gz", BrowserDownloadURL: "l"}}},
		{TagName: "v0.9.0", Prerelease: true},
		{TagName: "nightly", Name: "logostrip 0.3.1"},
		{TagName: "junk"},
		{TagName: "v1.0.0", Draft: true},
	}
	latest, ok := latestRelease(releases, "linux", "amd64")
	if !ok {
		t.Fatalf("no release found")
	}
	if latest.Version.String() != "0.3.1" {
		t.Fatalf("latest = %s; want 0.3.1", latest.Version)
	}
	if got := pickAsset(releases[0].Assets, "linux", "amd64"); got != "l" {
		t.Fatalf("pickAsset = %q; want linux asset", got)
	}
	if _, ok := latestRelease(nil, "linux", "amd64"); ok {
		t.Fatalf("empty release list should find nothing")
	}
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.JPG", "a_fixed.png", "a_fixed_compare.png", ".hidden.png", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := expandInputs([]string{dir, "missing.png"}, "_fixed")
	if err != nil {
		t.Fatalf("expandInputs: %v", err)
	}
	want := []string{filepath.Join(dir, "a.JPG"), filepath.Join(dir, "b.png"), "missing.png"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("expandInputs = %v; want %v", got, want)
	}
}
