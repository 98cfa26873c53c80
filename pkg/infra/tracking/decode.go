package tracking

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/m-mizutani/releasewatch/pkg/domain/model"
	"github.com/m-mizutani/releasewatch/pkg/domain/types"
)

// tomlDocument is the TOML layout; TOML has no top-level arrays
type tomlDocument struct {
	Repos []model.TrackedRepository `toml:"repos"`
}

// Decode parses a tracking list. The format is chosen from the extension of
// name: .toml, .yaml/.yml, otherwise JSON. The JSON and YAML forms are a
// top-level array of {github_repo_owner, github_repo_name} objects.
func Decode(name string, data []byte) ([]model.TrackedRepository, error) {
	var repos []model.TrackedRepository

	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		var doc tomlDocument
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, goerr.Wrap(err, "failed to parse TOML tracking list",
				goerr.T(types.ErrTagConfig), goerr.V("name", name))
		}
		repos = doc.Repos

	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &repos); err != nil {
			return nil, goerr.Wrap(err, "failed to parse YAML tracking list",
				goerr.T(types.ErrTagConfig), goerr.V("name", name))
		}

	default:
		if err := json.Unmarshal(data, &repos); err != nil {
			return nil, goerr.Wrap(err, "failed to parse JSON tracking list",
				goerr.T(types.ErrTagConfig), goerr.V("name", name))
		}
	}

	return repos, nil
}
