package quiz

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var defaultCatalogYAML []byte

type catalogFile struct {
	Questions []Question `yaml:"questions"`
}

// DefaultCatalog returns the built-in question set.
func DefaultCatalog() []Question {
	questions, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		// The embedded catalog is validated by tests.
		panic(fmt.Sprintf("embedded question catalog: %v", err))
	}
	return questions
}

// LoadCatalogFile reads and validates a question catalog from a YAML file.
func LoadCatalogFile(path string) ([]Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML question catalog.
func ParseCatalog(data []byte) ([]Question, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := ValidateCatalog(file.Questions); err != nil {
		return nil, err
	}
	return file.Questions, nil
}

// ValidateCatalog checks structural rules: at least one question, every
// question has options, option IDs are unique within their question and
// every option has a label.
func ValidateCatalog(questions []Question) error {
	if len(questions) == 0 {
		return errors.New("catalog has no questions")
	}
	var errs []error
	for i, q := range questions {
		if len(q.Options) == 0 {
			errs = append(errs, fmt.Errorf("question %d (%q): no options", i, q.Title))
			continue
		}
		seen := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			if o.ID == "" {
				errs = append(errs, fmt.Errorf("question %d: option with empty id", i))
			}
			if seen[o.ID] {
				errs = append(errs, fmt.Errorf("question %d: duplicate option id %q", i, o.ID))
			}
			seen[o.ID] = true
			if o.Label == "" {
				errs = append(errs, fmt.Errorf("question %d: option %q has no label", i, o.ID))
			}
		}
	}
	return errors.Join(errs...)
}
