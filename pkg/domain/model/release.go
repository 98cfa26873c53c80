package model

// NotAvailable is substituted for release fields missing from the upstream
// payload. It never parses as a version.
const NotAvailable = "N/A"

// ReleaseDescriptor is a snapshot of the latest release of a repository.
type ReleaseDescriptor struct {
	TagName string         // Release tag, used as the version string
	HTMLURL string         // Release page URL
	Raw     map[string]any // Full upstream payload, persisted verbatim
}

// NewReleaseDescriptor builds a descriptor from a decoded release payload.
// tag_name and html_url fall back to NotAvailable when absent or not strings.
func NewReleaseDescriptor(raw map[string]any) *ReleaseDescriptor {
	if raw == nil {
		raw = map[string]any{}
	}

	return &ReleaseDescriptor{
		TagName: stringField(raw, "tag_name"),
		HTMLURL: stringField(raw, "html_url"),
		Raw:     raw,
	}
}

// Payload returns the map to persist. Typed fields are written back into a
// copy of Raw so a descriptor built without a payload still records its tag.
func (d *ReleaseDescriptor) Payload() map[string]any {
	out := make(map[string]any, len(d.Raw)+2)
	for k, v := range d.Raw {
		out[k] = v
	}
	if _, ok := out["tag_name"]; !ok && d.TagName != NotAvailable {
		out["tag_name"] = d.TagName
	}
	if _, ok := out["html_url"]; !ok && d.HTMLURL != NotAvailable {
		out["html_url"] = d.HTMLURL
	}
	return out
}

func stringField(raw map[string]any, key string) string {
	s, ok := raw[key].(string)
	if !ok || s == "" {
		return NotAvailable
	}
	return s
}
