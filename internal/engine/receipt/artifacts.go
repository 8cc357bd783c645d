package receipt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ArtifactStore writes the per-request QR and passport images to a scratch
// directory so the renderer can embed them by path.
type ArtifactStore struct {
	dir       string
	writeFile func(name string, data []byte, perm os.FileMode) error
}

func NewArtifactStore(dir string) (*ArtifactStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	return &ArtifactStore{dir: dir, writeFile: os.WriteFile}, nil
}

func (s *ArtifactStore) Dir() string {
	return s.dir
}

// Artifacts are the image files written for one request.
type Artifacts struct {
	QRPath       string
	PassportPath string
}

// Remove deletes every file of the set. Missing files are ignored.
func (a *Artifacts) Remove() error {
	var errs []error
	for _, p := range []string{a.QRPath, a.PassportPath} {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Save writes both images under fresh unique names. On failure nothing is
// left behind.
func (s *ArtifactStore) Save(qrPNG, passportJPEG []byte) (*Artifacts, error) {
	set := &Artifacts{}

	qrPath, err := s.write("qr", ".png", qrPNG)
	if err != nil {
		return nil, err
	}
	set.QRPath = qrPath

	passportPath, err := s.write("passport", ".jpg", passportJPEG)
	if err != nil {
		if rmErr := set.Remove(); rmErr != nil {
			err = errors.Join(err, rmErr)
		}
		return nil, err
	}
	set.PassportPath = passportPath

	return set, nil
}

func (s *ArtifactStore) write(prefix, ext string, data []byte) (string, error) {
	name := fmt.Sprintf("%s_%s%s", prefix, strings.ReplaceAll(uuid.NewString(), "-", ""), ext)
	path := filepath.Join(s.dir, name)
	if err := s.writeFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s artifact: %w", prefix, err)
	}
	return path, nil
}

// Sweep removes artifacts older than maxAge, left behind when a request died
// between writing and cleanup. It returns the number of files removed.
func (s *ArtifactStore) Sweep(maxAge time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() || !isArtifactName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < maxAge {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func isArtifactName(name string) bool {
	return (strings.HasPrefix(name, "qr_") && strings.HasSuffix(name, ".png")) ||
		(strings.HasPrefix(name, "passport_") && strings.HasSuffix(name, ".jpg"))
}
