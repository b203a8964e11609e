// Package assets resolves static asset names to cache-busting URLs.
package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"sync"
)

// StaticPrefix is the URL prefix static files are served under.
const StaticPrefix = "/static/"

// versionLength is the number of hex digits of the content hash kept in URLs.
const versionLength = 8

// AssetResolver maps logical asset names (css/dashboard.css) to URLs carrying
// a content version (/static/css/dashboard.css?v=1a2b3c4d). Versions are
// computed once from the embedded static filesystem.
type AssetResolver struct {
	mu       sync.RWMutex
	versions map[string]string
	logger   *slog.Logger
}

// NewAssetResolverFromFS hashes every regular file of fsys.
func NewAssetResolverFromFS(fsys fs.FS) (*AssetResolver, error) {
	ar := &AssetResolver{versions: make(map[string]string), logger: slog.Default()}
	if fsys == nil {
		return ar, nil
	}
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		b, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read asset %s: %w", p, err)
		}
		sum := sha256.Sum256(b)
		ar.versions[p] = hex.EncodeToString(sum[:])[:versionLength]
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("hash static assets: %w", err)
	}
	return ar, nil
}

// Version returns the content version of a logical name, or "" when unknown.
func (ar *AssetResolver) Version(logicalName string) string {
	if ar == nil {
		return ""
	}
	ar.mu.RLock()
	defer ar.mu.RUnlock()
	return ar.versions[normalize(logicalName)]
}

// Len returns the number of known assets.
func (ar *AssetResolver) Len() int {
	if ar == nil {
		return 0
	}
	ar.mu.RLock()
	defer ar.mu.RUnlock()
	return len(ar.versions)
}

// ResolveAsset returns the URL of logicalName. Dev mode and unknown names get
// the bare path so edited files are picked up on reload.
func ResolveAsset(ar *AssetResolver, logicalName string, devMode bool) string {
	name := normalize(logicalName)
	u := StaticPrefix + name
	if devMode {
		return u
	}
	v := ar.Version(name)
	if v == "" {
		if ar != nil {
			ar.logger.Debug("asset without version", "asset", name)
		}
		return u
	}
	return u + "?v=" + v
}

func normalize(name string) string {
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}
