package ingestion

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mr1hm/go-disaster-reports/internal/models"
)

// importFile accepts either a bare list of submissions or a document with a
// top level "reports" key.
type importFile struct {
	Reports []models.Submission `yaml:"reports"`
}

func LoadFile(path string) ([]models.Submission, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening import file: %w", err)
	}
	defer f.Close()

	subs, err := DecodeSubmissions(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return subs, nil
}

func DecodeSubmissions(r io.Reader) ([]models.Submission, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if err == io.EOF {
			return []models.Submission{}, nil
		}
		return nil, fmt.Errorf("error decoding import file: %w", err)
	}

	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	switch root.Kind {
	case yaml.SequenceNode:
		subs := make([]models.Submission, 0, len(root.Content))
		if err := root.Decode(&subs); err != nil {
			return nil, fmt.Errorf("error decoding submissions: %w", err)
		}
		return subs, nil
	case yaml.MappingNode:
		var doc importFile
		if err := root.Decode(&doc); err != nil {
			return nil, fmt.Errorf("error decoding submissions: %w", err)
		}
		if doc.Reports == nil {
			doc.Reports = []models.Submission{}
		}
		return doc.Reports, nil
	default:
		return nil, fmt.Errorf("error decoding import file: expected a list of reports")
	}
}
