package state

import (
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/releasewatch/pkg/domain/model"
	"github.com/m-mizutani/releasewatch/pkg/domain/types"
)

// recordKey derives the deterministic record name "<owner>_<name>". Names
// that could escape a directory or object prefix are rejected.
func recordKey(repo model.TrackedRepository) (string, error) {
	for _, part := range []string{repo.Owner, repo.Name} {
		if part == "" || part == "." || part == ".." || strings.ContainsAny(part, `/\`) {
			return "", goerr.New("invalid repository name for state record",
				goerr.T(types.ErrTagStorage),
				goerr.V("owner", repo.Owner),
				goerr.V("name", repo.Name))
		}
	}
	return repo.Owner + "_" + repo.Name, nil
}

// encodeDescriptor serializes the full payload with 4-space indentation,
// the layout state files have always used.
func encodeDescriptor(desc *model.ReleaseDescriptor) ([]byte, error) {
	data, err := json.MarshalIndent(desc.Payload(), "", "    ")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode release descriptor",
			goerr.T(types.ErrTagStorage), goerr.V("tag_name", desc.TagName))
	}
	return data, nil
}

func decodeDescriptor(data []byte) (*model.ReleaseDescriptor, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, goerr.Wrap(err, "corrupt release state record", goerr.T(types.ErrTagStorage))
	}
	if raw == nil {
		return nil, goerr.New("empty release state record", goerr.T(types.ErrTagStorage))
	}
	return model.NewReleaseDescriptor(raw), nil
}
