package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gumruyanzh/xavier/internal/model"
	"github.com/gumruyanzh/xavier/internal/xerrors"
)

// Backup copies every current per-kind JSON file into a timestamped
// snapshot directory under dataDir/backups, per spec §6's downgrade
// protection requirement, and records a manifest describing what was
// captured and how large it was (go-humanize, matching the Factory
// pack's sizing style).
func (s *Store) Backup(reason string) (model.BackupRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now().UTC()
	dir := filepath.Join(s.dataDir, "backups", now.Format("20060102T150405Z"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return model.BackupRecord{}, xerrors.Wrap(xerrors.KindIO, err, "store: create backup directory %s", dir)
	}

	rec := model.BackupRecord{Timestamp: now, Reason: reason}
	for _, k := range allKinds {
		src := s.pathFor(k)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		dst := filepath.Join(dir, filepath.Base(src))
		size, err := copyFile(src, dst)
		if err != nil {
			return model.BackupRecord{}, xerrors.Wrap(xerrors.KindIO, err, "store: backup %s", src)
		}
		rec.Files = append(rec.Files, fmt.Sprintf("%s (%s)", filepath.Base(src), humanize.Bytes(uint64(size))))
	}

	manifest, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return model.BackupRecord{}, xerrors.Wrap(xerrors.KindSchema, err, "store: marshal backup manifest")
	}
	if err := os.WriteFile(filepath.Join(dir, "manifest.json"), manifest, 0o644); err != nil {
		return model.BackupRecord{}, xerrors.Wrap(xerrors.KindIO, err, "store: write backup manifest")
	}
	return rec, nil
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	defer out.Close()
	return io.Copy(out, in)
}
