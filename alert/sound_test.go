package alert

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestReadSoundFileBuffersContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cue.mp3")
	want := []byte("not really audio")

	err := os.WriteFile(path, want, 0o644)
	if err != nil {
		t.Fatal(err)
	}

	got, ext, err := readSoundFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if ext != ".mp3" {
		t.Errorf("expected extension .mp3, got %q", ext)
	}

	// the buffer must stay valid after the file is gone
	err = os.Remove(path)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestReadSoundFileMissing(t *testing.T) {
	_, _, err := readSoundFile(filepath.Join(t.TempDir(), "nope.wav"))
	if err == nil {
		t.Fatal("expected an error for a missing sound file")
	}
}

func TestDecodeSoundRejectsUnknownFormat(t *testing.T) {
	_, _, err := decodeSound(".txt", io.NopCloser(bytes.NewReader(nil)))
	if !errors.Is(err, errInvalidSoundFormat) {
		t.Fatalf("expected errInvalidSoundFormat, got: %v", err)
	}
}
