package memory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"firedam/internal/domain"
)

// Fixtures is the on-disk layout of a fixtures file. JSON files parse too.
//
//	collections:
//	  assets:
//	    - id: asset123
//	      title: Summer banner
//	buckets:
//	  owndays-dam.firebasestorage.app:
//	    - name: assets/asset123/v1.png
//	      size: 2048
type Fixtures struct {
	Collections map[string][]map[string]any `yaml:"collections"`
	Buckets     map[string][]map[string]any `yaml:"buckets"`
}

// LoadFixtures reads a fixtures file into a new Store
func LoadFixtures(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixtures: %w", err)
	}
	return ParseFixtures(data)
}

// ParseFixtures decodes fixtures from YAML or JSON
func ParseFixtures(data []byte) (*Store, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing fixtures: %w", err)
	}

	s := NewStore()
	for collection, docs := range f.Collections {
		for i, doc := range docs {
			if _, ok := doc["id"].(string); !ok {
				return nil, fmt.Errorf("parsing fixtures: %s[%d] has no string id", collection, i)
			}
			s.AddDocument(collection, domain.RawRecord(doc))
		}
	}
	for bucket, objs := range f.Buckets {
		for i, obj := range objs {
			if _, ok := obj["name"].(string); !ok {
				return nil, fmt.Errorf("parsing fixtures: %s[%d] has no string name", bucket, i)
			}
			s.AddObject(bucket, domain.RawRecord(obj))
		}
	}
	return s, nil
}
