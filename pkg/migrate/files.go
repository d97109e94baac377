package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const versionLayout = "20060102150405"

var (
	fileNameRe = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.sql$`)
	slugRe     = regexp.MustCompile(`[^a-z0-9]+`)
)

// File is one goose SQL migration.
type File struct {
	Version int64
	Name    string
	Path    string
}

// ListFS returns the migrations under dir sorted by version. Filenames must
// look like YYYYMMDDHHMMSS_name.sql and versions must be unique.
func ListFS(fsys fs.FS, dir string) ([]File, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations %q: %w", dir, err)
	}

	byVersion := make(map[int64]File, len(entries))
	files := make([]File, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		m := fileNameRe.FindStringSubmatch(e.Name())
		if m == nil {
			return nil, fmt.Errorf("bad migration filename %q, want YYYYMMDDHHMMSS_name.sql", e.Name())
		}
		version, _ := strconv.ParseInt(m[1], 10, 64)
		if prev, dup := byVersion[version]; dup {
			return nil, fmt.Errorf("version %d used by %q and %q", version, prev.Path, e.Name())
		}
		f := File{Version: version, Name: m[2], Path: path.Join(dir, e.Name())}
		byVersion[version] = f
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Version < files[j].Version })
	return files, nil
}

// ValidateFS checks filenames and the goose annotations of every migration.
func ValidateFS(fsys fs.FS, dir string) error {
	files, err := ListFS(fsys, dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no migrations in %q", dir)
	}
	for _, f := range files {
		body, err := fs.ReadFile(fsys, f.Path)
		if err != nil {
			return fmt.Errorf("read %q: %w", f.Path, err)
		}
		if err := checkAnnotations(string(body)); err != nil {
			return fmt.Errorf("%s: %w", f.Path, err)
		}
	}
	return nil
}

// ValidateDir validates migrations on disk.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	return ValidateFS(os.DirFS(dir), ".")
}

// ValidateEmbedded validates the migrations compiled into the binary.
func ValidateEmbedded() error {
	return ValidateFS(Migrations, embeddedDir)
}

func checkAnnotations(sql string) error {
	up := strings.Index(sql, "-- +goose Up")
	down := strings.Index(sql, "-- +goose Down")
	switch {
	case up < 0:
		return fmt.Errorf(`missing "-- +goose Up"`)
	case down < 0:
		return fmt.Errorf(`missing "-- +goose Down"`)
	case down < up:
		return fmt.Errorf("down section precedes up section")
	}
	begins := strings.Count(sql, "-- +goose StatementBegin")
	ends := strings.Count(sql, "-- +goose StatementEnd")
	if begins != ends {
		return fmt.Errorf("%d StatementBegin vs %d StatementEnd", begins, ends)
	}
	return nil
}

// Slug normalizes a free-form migration name to lower_snake_case.
func Slug(name string) string {
	return strings.Trim(slugRe.ReplaceAllString(strings.ToLower(name), "_"), "_")
}

// Create writes an empty migration stamped with now and returns its path.
func Create(dir, name string, now time.Time) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}
	slug := Slug(name)
	if slug == "" {
		return "", fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	full := filepath.Join(dir, fmt.Sprintf("%s_%s.sql", now.UTC().Format(versionLayout), slug))
	body := fmt.Sprintf("-- +goose Up\n-- %s\n\n-- +goose Down\n-- undo %s\n", slug, slug)

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %q: %w", full, err)
	}
	defer f.Close()
	if _, err := f.WriteString(body); err != nil {
		return "", fmt.Errorf("write %q: %w", full, err)
	}
	return full, nil
}
