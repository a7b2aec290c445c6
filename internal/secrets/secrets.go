// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads model credentials from a directory of plain-text
// files. The file name is the key and the trimmed contents are the value.
//
// Recognized files: openai-api-key, openai-base-url, openai-model.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/knowledge-agent/pkg/types"
)

// DefaultDir is the secrets directory relative to the working directory.
const DefaultDir = ".secrets"

// Key file names.
const (
	APIKey  = "openai-api-key"
	BaseURL = "openai-base-url"
	Model   = "openai-model"
)

// Secrets maps key file names to their values.
type Secrets map[string]string

// Load reads every regular, non-hidden file in dir. A missing directory is
// not an error and yields empty Secrets. Unreadable files are logged and
// skipped; empty files are ignored.
func Load(dir string, logger *zap.Logger) (Secrets, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	out := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("secret unreadable", zap.String("file", name), zap.Error(err))
			continue
		}
		if v := strings.TrimSpace(string(data)); v != "" {
			out[name] = v
		}
	}
	return out, nil
}

// Keys returns the loaded key names, sorted.
func (s Secrets) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Settings returns the connection settings the secrets provide.
func (s Secrets) Settings() types.Settings {
	return types.Settings{APIKey: s[APIKey], BaseURL: s[BaseURL], ModelID: s[Model]}
}
