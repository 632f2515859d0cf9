package alert

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/azatkg/lounge/config"
)

var errInvalidSoundFormat = errors.New(
	"sound file must be in mp3, ogg, flac, or wav format",
)

// readSoundFile resolves the named sound and reads it into memory, so
// playback never depends on an open file handle. It returns the file
// contents and the extension that selects the decoder.
func readSoundFile(sound string) ([]byte, string, error) {
	ext := filepath.Ext(sound)
	path := sound

	// without extension, treat as an OGG file in the sounds data dir
	if ext == "" {
		ext = ".ogg"

		var err error

		path, err = xdg.SearchDataFile(
			filepath.Join(config.Dir(), "sounds", sound+ext),
		)
		if err != nil {
			return nil, "", err
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}

	return b, ext, nil
}

func decodeSound(
	ext string,
	rc io.ReadCloser,
) (beep.StreamSeekCloser, beep.Format, error) {
	switch ext {
	case ".ogg":
		return vorbis.Decode(rc)
	case ".mp3":
		return mp3.Decode(rc)
	case ".flac":
		return flac.Decode(rc)
	case ".wav":
		return wav.Decode(rc)
	default:
		return nil, beep.Format{}, errInvalidSoundFormat
	}
}

// prepSoundStream returns an audio stream for the specified sound.
func prepSoundStream(sound string) (beep.StreamSeekCloser, error) {
	b, ext, err := readSoundFile(sound)
	if err != nil {
		return nil, err
	}

	stream, format, err := decodeSound(ext, io.NopCloser(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}

	bufferSize := 10

	err = speaker.Init(
		format.SampleRate,
		format.SampleRate.N(time.Duration(int(time.Second)/bufferSize)),
	)
	if err != nil {
		return nil, err
	}

	err = stream.Seek(0)
	if err != nil {
		return nil, err
	}

	return stream, nil
}

// playSound plays the named sound once, or on repeat until stopSounds is
// called. An empty name disables the cue.
func playSound(sound string, repeat bool) error {
	if sound == "" || sound == "off" {
		return nil
	}

	stream, err := prepSoundStream(sound)
	if err != nil {
		return err
	}

	if repeat {
		speaker.Play(beep.Loop(-1, stream))
		return nil
	}

	speaker.Play(beep.Seq(stream, beep.Callback(func() {
		stream.Close()
	})))

	return nil
}

func stopSounds() {
	speaker.Clear()
}
