package bundle

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Pandoc converts a bundle to epub by invoking the pandoc binary.
type Pandoc struct {
	// Binary overrides the executable name, default "pandoc".
	Binary string
}

func (p Pandoc) binary() string {
	if p.Binary != "" {
		return p.Binary
	}
	return "pandoc"
}

// Convert writes the metadata document and one chapter file per item
// into a temp directory, then runs pandoc over them. A nonzero exit or
// a missing output file is a conversion failure.
func (p Pandoc) Convert(ctx context.Context, b Bundle, outPath string) error {
	tmp, err := os.MkdirTemp("", "readstack-bundle-")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	meta, err := b.MetadataDocument()
	if err != nil {
		return err
	}
	metaPath := filepath.Join(tmp, "metadata.yaml")
	if err := os.WriteFile(metaPath, []byte(meta), 0o644); err != nil {
		return fmt.Errorf("write bundle metadata: %w", err)
	}

	args := []string{metaPath}
	for i, it := range b.Items {
		chapterPath := filepath.Join(tmp, fmt.Sprintf("%02d_%s", i, it.ID))
		if err := os.WriteFile(chapterPath, []byte(ChapterMarkdown(it)), 0o644); err != nil {
			return fmt.Errorf("write chapter %s: %w", it.ID, err)
		}
		args = append(args, chapterPath)
	}
	args = append(args,
		"-o", outPath,
		"--toc",
		"--toc-depth=1",
		"--epub-chapter-level=1",
		"--file-scope",
	)

	cmd := exec.CommandContext(ctx, p.binary(), args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("pandoc: %w: %s", err, strings.TrimSpace(string(output)))
	}

	if _, err := os.Stat(outPath); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("pandoc exited cleanly but produced no output at %s", outPath)
	} else if err != nil {
		return fmt.Errorf("stat artifact: %w", err)
	}
	return nil
}
