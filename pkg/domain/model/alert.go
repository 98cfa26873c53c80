package model

import "fmt"

// AlertKind distinguishes upgrade from downgrade notifications
type AlertKind string

const (
	AlertUpgrade   AlertKind = "upgrade"
	AlertDowngrade AlertKind = "downgrade"
)

// Alert is a version change to report to operators
type Alert struct {
	Kind       AlertKind
	Repository TrackedRepository
	OldVersion string
	NewVersion string
	URL        string
}

// NewAlert returns the alert for an ordering, or nil when the ordering does
// not call for one (same or incomparable).
func NewAlert(ordering VersionOrdering, repo TrackedRepository, prev, curr *ReleaseDescriptor) *Alert {
	var kind AlertKind
	switch ordering {
	case VersionOlder:
		kind = AlertUpgrade
	case VersionNewer:
		kind = AlertDowngrade
	default:
		return nil
	}

	return &Alert{
		Kind:       kind,
		Repository: repo,
		OldVersion: prev.TagName,
		NewVersion: curr.TagName,
		URL:        curr.HTMLURL,
	}
}

// Title returns the first line of the alert, e.g. "Upgrade release for acme/widget"
func (a *Alert) Title() string {
	switch a.Kind {
	case AlertUpgrade:
		return "Upgrade release for " + a.Repository.FullName()
	case AlertDowngrade:
		return "Downgrade release for " + a.Repository.FullName()
	default:
		return "Release change for " + a.Repository.FullName()
	}
}

// Message renders the plain text body sent to every channel
func (a *Alert) Message() string {
	return fmt.Sprintf("%s:\nOld version: %s\nNew version: %s\n%s",
		a.Title(), a.OldVersion, a.NewVersion, a.URL)
}
