// suitability-mcp: MCP server for district branch-suitability scoring
// SPDX-License-Identifier: MIT
//
// File-backed provider for exported snapshots.

package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// FileProvider serves a JSON snapshot from disk. The file holds either a bare
// array of flat district records or an object with a "districts" array. The
// requested window is recorded on the snapshot; the records are not filtered.
type FileProvider struct {
	path string
}

func NewFile(path string) *FileProvider { return &FileProvider{path: path} }

func (p *FileProvider) Snapshot(ctx context.Context, w Window) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	raw, err := os.ReadFile(p.path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot file: %w", err)
	}
	snap, err := DecodeSnapshot(raw)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Window = w
	if err := Validate(snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// DecodeSnapshot parses either snapshot layout and orders districts by id.
func DecodeSnapshot(raw []byte) (Snapshot, error) {
	var snap Snapshot
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &snap.Districts); err != nil {
			return Snapshot{}, fmt.Errorf("%w: decode: %v", ErrInvalidSnapshot, err)
		}
	} else if err := json.Unmarshal(trimmed, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: decode: %v", ErrInvalidSnapshot, err)
	}
	sort.SliceStable(snap.Districts, func(i, j int) bool { return snap.Districts[i].ID < snap.Districts[j].ID })
	return snap, nil
}
