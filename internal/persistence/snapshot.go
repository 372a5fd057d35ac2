package persistence

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/talgya/narivia/internal/engine"
)

// SnapshotVersion is bumped whenever the encoded State layout changes.
const SnapshotVersion = 1

// ErrSnapshotVersion is returned for snapshots written by a newer layout.
var ErrSnapshotVersion = errors.New("unsupported snapshot version")

// SnapshotHeader is the JSON line at the top of every snapshot file. It
// can be read without decoding the state.
type SnapshotHeader struct {
	Version   int       `json:"version"`
	SessionID string    `json:"session_id"`
	WorldID   string    `json:"world_id"`
	Turn      int       `json:"turn"`
	WrittenAt time.Time `json:"written_at"`
}

// WriteSnapshot writes s to path as a zstd stream holding a JSON header
// line followed by the gob-encoded state.
func WriteSnapshot(path string, s engine.State) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)

	hdr := SnapshotHeader{
		Version:   SnapshotVersion,
		SessionID: s.SessionID,
		WorldID:   s.WorldID,
		Turn:      s.Turn,
		WrittenAt: time.Now().UTC(),
	}
	hb, err := json.Marshal(hdr)
	if err != nil {
		return err
	}
	if _, err := bw.Write(append(hb, '\n')); err != nil {
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&s); err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ReadSnapshot reads a snapshot written by WriteSnapshot.
func ReadSnapshot(path string) (SnapshotHeader, engine.State, error) {
	f, err := os.Open(path)
	if err != nil {
		return SnapshotHeader{}, engine.State{}, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return SnapshotHeader{}, engine.State{}, err
	}
	defer dec.Close()
	br := bufio.NewReaderSize(dec, 256*1024)

	hdr, err := readHeader(br)
	if err != nil {
		return SnapshotHeader{}, engine.State{}, err
	}

	var s engine.State
	if err := gob.NewDecoder(br).Decode(&s); err != nil {
		return SnapshotHeader{}, engine.State{}, fmt.Errorf("decode state: %w", err)
	}
	return hdr, s, nil
}

// ReadSnapshotHeader reads only the header line of a snapshot.
func ReadSnapshotHeader(path string) (SnapshotHeader, error) {
	f, err := os.Open(path)
	if err != nil {
		return SnapshotHeader{}, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return SnapshotHeader{}, err
	}
	defer dec.Close()
	return readHeader(bufio.NewReader(dec))
}

// SnapshotExt is the file extension of snapshot files.
const SnapshotExt = ".zst"

// ListSnapshots reads the header of every snapshot in dir, newest first.
// Files whose header cannot be read are skipped. A missing dir holds no
// snapshots.
func ListSnapshots(dir string) ([]SnapshotHeader, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []SnapshotHeader{}, nil
	}
	if err != nil {
		return nil, err
	}

	out := []SnapshotHeader{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), SnapshotExt) {
			continue
		}
		hdr, err := ReadSnapshotHeader(filepath.Join(dir, e.Name()))
		if err != nil {
			slog.Warn("skipping unreadable snapshot", "file", e.Name(), "error", err)
			continue
		}
		out = append(out, hdr)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].WrittenAt.After(out[j].WrittenAt) })
	return out, nil
}

func readHeader(br *bufio.Reader) (SnapshotHeader, error) {
	line, err := br.ReadBytes('\n')
	if err != nil {
		return SnapshotHeader{}, fmt.Errorf("read header: %w", err)
	}
	var hdr SnapshotHeader
	if err := json.Unmarshal(line, &hdr); err != nil {
		return SnapshotHeader{}, fmt.Errorf("parse header: %w", err)
	}
	if hdr.Version > SnapshotVersion {
		return SnapshotHeader{}, fmt.Errorf("%w: %d", ErrSnapshotVersion, hdr.Version)
	}
	return hdr, nil
}
