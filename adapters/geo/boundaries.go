package geo

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"greenpulse/domain/core"
	domaingeo "greenpulse/domain/geo"
	"greenpulse/internal/errors"
)

// Property names probed for a feature's display name and ISO code, most specific first
var (
	nameProperties = []string{"name", "NAME", "ADMIN", "admin", "name_long", "country"}
	isoProperties  = []string{"iso_a3", "ISO_A3", "ADM0_A3", "iso3", "ISO3"}
)

// FileSource reads a GeoJSON boundary collection from disk
type FileSource struct {
	path string
}

// NewFileSource creates a boundary source for path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name identifies the source in logs
func (s *FileSource) Name() string {
	return filepath.Base(s.path)
}

// ReadBoundaries returns the raw file content
func (s *FileSource) ReadBoundaries(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, errors.NotFound("boundary file " + s.path)
	}
	if err != nil {
		return nil, errors.SourceError(s.path, err)
	}
	return data, nil
}

// ParseFeatures extracts the join keys of every feature in a FeatureCollection.
// Features with neither a name nor an ISO code are skipped.
func ParseFeatures(data []byte) ([]domaingeo.Feature, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.WithCode(errors.CodeInvalidInput, core.ErrNotGeoJSON)
	}
	root := gjson.ParseBytes(data)
	if root.Get("type").String() != "FeatureCollection" {
		return nil, errors.WithCode(errors.CodeInvalidInput, core.ErrNotGeoJSON)
	}

	var features []domaingeo.Feature
	skipped := 0
	root.Get("features").ForEach(func(_, feature gjson.Result) bool {
		props := feature.Get("properties")
		f := domaingeo.Feature{
			Name: firstString(props, nameProperties),
			ISO:  strings.ToUpper(firstString(props, isoProperties)),
		}
		// top-level "id" carries the ISO code in many world-atlas exports
		if f.ISO == "" {
			if id := feature.Get("id"); id.Type == gjson.String && len(id.String()) == 3 {
				f.ISO = strings.ToUpper(id.String())
			}
		}
		if f.ISO == "-99" {
			f.ISO = ""
		}
		if f.Name == "" && f.ISO == "" {
			skipped++
			return true
		}
		if geom := feature.Get("geometry"); geom.Exists() {
			f.Geometry = []byte(geom.Raw)
		}
		features = append(features, f)
		return true
	})

	if skipped > 0 {
		log.Printf("[Geo] Skipped %d features without name or ISO code", skipped)
	}
	return features, nil
}

func firstString(props gjson.Result, keys []string) string {
	for _, key := range keys {
		if v := props.Get(key); v.Exists() && v.Type == gjson.String {
			if s := strings.TrimSpace(v.String()); s != "" {
				return s
			}
		}
	}
	return ""
}
