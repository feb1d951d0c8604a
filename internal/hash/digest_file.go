package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

func DigestFile(path string) (digest string, size int64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open file %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, fmt.Errorf("hash file %s: %w", path, err)
	}
	return "sha256:" + hex.EncodeToString(h.Sum(nil)), n, nil
}

// FileDigest is one entry of a submission manifest.
type FileDigest struct {
	Name   string
	Digest string
	Size   int64
}

// DigestSubmission hashes every CSV directly inside dir. The returned digest
// covers a manifest of name, file digest and size sorted by name, so it is
// independent of directory listing order and of non-CSV files.
func DigestSubmission(dir string) (string, []FileDigest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", nil, fmt.Errorf("read submission dir %s: %w", dir, err)
	}
	files := make([]FileDigest, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		d, size, err := DigestFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return "", nil, err
		}
		files = append(files, FileDigest{Name: e.Name(), Digest: d, Size: size})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	var sb strings.Builder
	for _, f := range files {
		fmt.Fprintf(&sb, "%s\x00%s\x00%d\n", f.Name, f.Digest, f.Size)
	}
	return DigestBytes([]byte(sb.String())), files, nil
}
