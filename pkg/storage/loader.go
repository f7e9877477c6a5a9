package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/docuvec/docuvec/pkg/document"
)

// FileFailure records a single object that could not be turned into a
// document. Individual failures never abort a load; they are reported
// alongside the successful documents.
type FileFailure struct {
	Key    string
	Reason string
}

// Loader produces documents from every readable object under the
// configured bucket prefix.
type Loader struct {
	store  ObjectStore
	cfg    LoaderConfig
	logger Logger
}

// NewLoader constructs a Loader over an ObjectStore.
func NewLoader(store ObjectStore, cfg LoaderConfig, logger Logger) *Loader {
	return &Loader{store: store, cfg: cfg, logger: logger}
}

// Load lists the prefix recursively and reads each object into a
// document. A listing failure is fatal (ErrSourceUnavailable); a prefix
// that lists successfully but holds zero objects is not an error.
// Unreadable, oversized or non-text objects are skipped and recorded.
func (l *Loader) Load(ctx context.Context) ([]document.Document, []FileFailure, error) {
	objects, err := l.store.List(ctx, l.cfg.Prefix)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	var (
		docs     []document.Document
		failures []FileFailure
	)

	for _, obj := range objects {
		// Listing surfaces pseudo-directory keys; they carry no content.
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}

		if l.cfg.MaxObjectSize > 0 && obj.Size > l.cfg.MaxObjectSize {
			l.recordFailure(&failures, obj.Key, fmt.Sprintf("object size %d exceeds limit %d", obj.Size, l.cfg.MaxObjectSize))
			continue
		}

		data, err := l.store.Get(ctx, obj.Key)
		if err != nil {
			l.recordFailure(&failures, obj.Key, fmt.Sprintf("read failed: %v", err))
			continue
		}

		if !utf8.Valid(data) {
			l.recordFailure(&failures, obj.Key, "not valid UTF-8 text")
			continue
		}

		docs = append(docs, document.Document{
			ID:   obj.Key,
			Text: string(data),
			Metadata: map[string]string{
				document.MetaFilePath: obj.Key,
				document.MetaFileName: path.Base(obj.Key),
			},
		})
	}

	l.logger.Info("loaded documents", nil, map[string]interface{}{
		"prefix":    l.cfg.Prefix,
		"documents": len(docs),
		"skipped":   len(failures),
	})
	return docs, failures, nil
}

func (l *Loader) recordFailure(failures *[]FileFailure, key, reason string) {
	l.logger.Warn("skipping object", nil, map[string]interface{}{
		"key":    key,
		"reason": reason,
	})
	*failures = append(*failures, FileFailure{Key: key, Reason: reason})
}
