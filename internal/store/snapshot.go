package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

const snapshotVersion = 1

type snapshotHeader struct {
	Version int    `json:"version"`
	Key     string `json:"key"`
}

// Export writes the save under key to w as a zstd frame holding a one-line
// JSON header followed by the raw save record.
func Export(ctx context.Context, s Store, key string, w io.Writer) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(enc)

	hb, _ := json.Marshal(snapshotHeader{Version: snapshotVersion, Key: key})
	if _, err := bw.Write(hb); err != nil {
		enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		enc.Close()
		return err
	}
	if _, err := bw.Write(data); err != nil {
		enc.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// Import reads a snapshot written by Export and stores it under key. An
// empty key restores the snapshot under the key it was exported from. The
// key actually written is returned.
func Import(ctx context.Context, s Store, key string, r io.Reader) (string, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return "", err
	}
	defer dec.Close()

	br := bufio.NewReader(dec)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return "", fmt.Errorf("read snapshot header: %w", err)
	}
	var h snapshotHeader
	if err := json.Unmarshal(line, &h); err != nil {
		return "", fmt.Errorf("parse snapshot header: %w", err)
	}
	if h.Version != snapshotVersion {
		return "", fmt.Errorf("unsupported snapshot version %d", h.Version)
	}

	data, err := io.ReadAll(br)
	if err != nil {
		return "", fmt.Errorf("read snapshot body: %w", err)
	}
	if !json.Valid(data) {
		return "", fmt.Errorf("snapshot body is not a JSON save")
	}

	if key == "" {
		key = h.Key
	}
	if err := s.Put(ctx, key, data); err != nil {
		return "", err
	}
	return key, nil
}
