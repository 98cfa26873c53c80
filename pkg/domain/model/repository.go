package model

import "fmt"

// TrackedRepository identifies one upstream project whose releases are polled
type TrackedRepository struct {
	Owner string `json:"github_repo_owner" toml:"github_repo_owner" yaml:"github_repo_owner"`
	Name  string `json:"github_repo_name" toml:"github_repo_name" yaml:"github_repo_name"`
}

// FullName returns "owner/name"
func (r TrackedRepository) FullName() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// IsValid reports whether both owner and name are set
func (r TrackedRepository) IsValid() bool {
	return r.Owner != "" && r.Name != ""
}
