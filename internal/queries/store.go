// Package queries implements the on-disk query definition store. Each
// definition lives in <dir>/<identifier>.yml with three required keys:
// name, description, and body.
package queries

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"dashengine/internal/domain"
)

// definitionExt is the file extension definition resources must carry.
const definitionExt = ".yml"

// definitionFile mirrors the YAML layout of a definition resource.
type definitionFile struct {
	Name        *string `yaml:"name"`
	Description *string `yaml:"description"`
	Body        *string `yaml:"body"`
}

// FileStore resolves query identifiers to definition files under a fixed
// directory root. The root is process-wide configuration, fixed at start.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Load reads and parses the definition for identifier. It fails with a
// DefinitionNotFoundError when no file backs the identifier and a
// DefinitionParseError when the file is malformed or missing a required key.
func (s *FileStore) Load(identifier string) (domain.QueryDefinition, error) {
	if err := validIdentifier(identifier); err != nil {
		return domain.QueryDefinition{}, err
	}

	path := filepath.Join(s.dir, identifier+definitionExt)
	data, err := os.ReadFile(path) //nolint:gosec // path is rooted at the configured query directory
	if err != nil {
		if os.IsNotExist(err) {
			return domain.QueryDefinition{}, domain.ErrDefinitionNotFound(identifier, err)
		}
		return domain.QueryDefinition{}, fmt.Errorf("read %s: %w", path, err)
	}

	var def definitionFile
	if err := yaml.Unmarshal(data, &def); err != nil {
		return domain.QueryDefinition{}, domain.ErrDefinitionParse(identifier, err)
	}
	for key, val := range map[string]*string{
		"name":        def.Name,
		"description": def.Description,
		"body":        def.Body,
	} {
		if val == nil {
			return domain.QueryDefinition{}, domain.ErrDefinitionParse(
				identifier, fmt.Errorf("missing required key %q", key))
		}
	}

	return domain.QueryDefinition{
		Name:        *def.Name,
		Description: *def.Description,
		Body:        *def.Body,
	}, nil
}

// Identifiers returns the sorted identifiers of every definition file under
// the store's directory. Subdirectories are not walked.
func (s *FileStore) Identifiers() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read query directory %s: %w", s.dir, err)
	}

	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), definitionExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), definitionExt))
	}
	sort.Strings(ids)
	return ids, nil
}

// validIdentifier rejects identifiers that would escape the query directory.
func validIdentifier(identifier string) error {
	if identifier == "" {
		return domain.ErrValidation("query identifier is required")
	}
	if strings.ContainsAny(identifier, `/\`) || strings.Contains(identifier, "..") {
		return domain.ErrValidation("query identifier %q must not contain path separators", identifier)
	}
	return nil
}
