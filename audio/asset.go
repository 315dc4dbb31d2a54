package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/flac"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"
)

// isRemote reports whether p is fetched over HTTP
func isRemote(p string) bool {
	lower := strings.ToLower(p)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// assetExt returns the lowercased extension of p, ignoring any query string
func assetExt(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 && isRemote(p) {
		p = p[:i]
	}
	return strings.ToLower(path.Ext(p))
}

// readAsset loads the asset bytes from a URL or the filesystem
func readAsset(ctx context.Context, client *http.Client, p string, limit int64) ([]byte, error) {
	var r io.Reader
	if isRemote(p) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("fetch %s: HTTP[%s]", p, resp.Status)
		}
		r = resp.Body
	} else {
		f, err := os.Open(strings.TrimPrefix(p, "file://"))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%s: %w", p, ErrAssetTooLarge)
	}
	return data, nil
}

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

// decodeAsset picks a decoder by file extension
func decodeAsset(p string, data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	rc := memFile{bytes.NewReader(data)}
	switch assetExt(p) {
	case ".mp3":
		return mp3.Decode(rc)
	case ".wav":
		return wav.Decode(rc)
	case ".flac":
		return flac.Decode(rc)
	case ".ogg", ".oga":
		return vorbis.Decode(rc)
	}
	return nil, beep.Format{}, fmt.Errorf("%s: %w", p, ErrUnsupportedFormat)
}

// bufferAsset decodes data fully into a buffer at the target sample rate
func bufferAsset(p string, data []byte, target beep.SampleRate) (*beep.Buffer, error) {
	streamer, format, err := decodeAsset(p, data)
	if err != nil {
		return nil, err
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != target {
		s = beep.Resample(4, format.SampleRate, target, streamer)
	}

	buf := beep.NewBuffer(beep.Format{
		SampleRate:  target,
		NumChannels: format.NumChannels,
		Precision:   format.Precision,
	})
	buf.Append(s)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", p, err)
	}
	return buf, nil
}
