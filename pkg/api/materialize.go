package api

import (
	"context"
	"fmt"
	"io"
	"os"
)

// materialize replays entries under root. Entries are handled strictly in
// stream order, one at a time; the next entry is not requested until the
// current one has fully landed on disk. The first failure aborts the whole
// operation and already-written entries stay where they are.
func materialize(ctx context.Context, root string, entries EntryStream, links linker) error {
	for {
		entry, err := entries.Next(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		full := entry.Path.ToPath(root)
		log.Debugf("materializing %s", full)
		switch body := entry.Body.(type) {
		case Directory:
			if err := os.MkdirAll(full, 0755); err != nil {
				return fmt.Errorf("creating directory %s: %w", entry.Path, err)
			}
		case Content:
			if err := ensureParent(root, entry); err != nil {
				return err
			}
			if err := writeFile(full, body.Reader); err != nil {
				return fmt.Errorf("writing file %s: %w", entry.Path, err)
			}
		case Symlink:
			if err := ensureParent(root, entry); err != nil {
				return err
			}
			if err := links.create(ctx, body.Target, full); err != nil {
				return fmt.Errorf("creating symlink %s: %w", entry.Path, err)
			}
		default:
			return fmt.Errorf("unknown entry body %T for %s", entry.Body, entry.Path)
		}
	}
}

func ensureParent(root string, entry Entry) error {
	parent, ok := entry.Path.Parent()
	if !ok {
		return nil
	}
	if err := os.MkdirAll(parent.ToPath(root), 0755); err != nil {
		return fmt.Errorf("creating parent of %s: %w", entry.Path, err)
	}
	return nil
}

func writeFile(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
