package extractor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestPrintedPath(t *testing.T) {
	cases := []struct {
		stdout  string
		want    string
		wantErr bool
	}{
		{"downloads/dl-1/Cat video.mp4\n", "downloads/dl-1/Cat video.mp4", false},
		{"[info] something\ndownloads/dl-1/a.webm\n\n  \n", "downloads/dl-1/a.webm", false},
		{"", "", true},
		{"NA\n", "", true},
	}
	for _, tc := range cases {
		got, err := printedPath(tc.stdout)
		if (err != nil) != tc.wantErr {
			t.Errorf("printedPath(%q) error = %v, wantErr %v", tc.stdout, err, tc.wantErr)
			continue
		}
		if tc.wantErr && !errors.Is(err, ErrNoOutput) {
			t.Errorf("printedPath(%q) error = %v, want ErrNoOutput", tc.stdout, err)
		}
		if got != tc.want {
			t.Errorf("printedPath(%q) = %q, want %q", tc.stdout, got, tc.want)
		}
	}
}

func TestFileRemove(t *testing.T) {
	base := t.TempDir()
	jobDir := filepath.Join(base, "dl-123")
	if err := os.Mkdir(jobDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(jobDir, "clip.mp4")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(jobDir, "clip.f137.mp4.part"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	f := &File{Path: path, dir: jobDir}
	if size, err := f.Size(); err != nil || size != 4 {
		t.Fatalf("Size() = %d, %v", size, err)
	}
	if f.Name() != "clip.mp4" {
		t.Errorf("Name() = %q", f.Name())
	}
	if err := f.Remove(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(jobDir); !os.IsNotExist(err) {
		t.Errorf("job dir still present: %v", err)
	}

	plain := NewFile(filepath.Join(base, "loose.mp4"))
	if err := os.WriteFile(plain.Path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := plain.Remove(); err != nil {
		t.Fatal(err)
	}
	if err := plain.Remove(); err != nil {
		t.Errorf("second Remove: %v", err)
	}
	if _, err := os.Stat(base); err != nil {
		t.Errorf("base dir removed: %v", err)
	}

	var nilFile *File
	if err := nilFile.Remove(); err != nil {
		t.Errorf("nil Remove: %v", err)
	}
}

func TestMIMEType(t *testing.T) {
	cases := map[string]string{
		"a.mp4":        "video/mp4",
		"b.WEBM":       "video/webm",
		"c.mkv":        "video/x-matroska",
		"d.m4a":        "audio/mp4",
		"no extension": "video/mp4",
	}
	for in, want := range cases {
		if got := MIMEType(in); got != want {
			t.Errorf("MIMEType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDownloadMissingDir(t *testing.T) {
	y := NewYtDlp(Options{Dir: filepath.Join(t.TempDir(), "missing"), Format: "best", Output: "%(title)s.%(ext)s"})
	if _, err := y.Download(context.Background(), "https://example.com/v"); err == nil {
		t.Fatal("Download into missing dir returned nil error")
	}
}
