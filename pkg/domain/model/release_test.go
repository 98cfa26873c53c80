package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/releasewatch/pkg/domain/model"
)

func TestNewReleaseDescriptor(t *testing.T) {
	t.Run("typed fields from payload", func(t *testing.T) {
		desc := model.NewReleaseDescriptor(map[string]any{
			"tag_name": "v1.0.0",
			"html_url": "https://x/1.0.0",
			"id":       float64(42),
		})
		gt.Equal(t, desc.TagName, "v1.0.0")
		gt.Equal(t, desc.HTMLURL, "https://x/1.0.0")
		gt.Equal(t, desc.Raw["id"], any(float64(42)))
	})

	t.Run("missing fields fall back to sentinel", func(t *testing.T) {
		desc := model.NewReleaseDescriptor(map[string]any{"name": "no tag"})
		gt.Equal(t, desc.TagName, model.NotAvailable)
		gt.Equal(t, desc.HTMLURL, model.NotAvailable)
	})

	t.Run("non-string tag is not a version", func(t *testing.T) {
		desc := model.NewReleaseDescriptor(map[string]any{"tag_name": nil})
		gt.Equal(t, desc.TagName, model.NotAvailable)
	})

	t.Run("nil payload", func(t *testing.T) {
		desc := model.NewReleaseDescriptor(nil)
		gt.Equal(t, desc.TagName, model.NotAvailable)
		gt.NotNil(t, desc.Raw)
	})
}

func TestReleaseDescriptor_Payload(t *testing.T) {
	desc := &model.ReleaseDescriptor{TagName: "v2.0.0", HTMLURL: "https://x/2.0.0"}
	payload := desc.Payload()
	gt.Equal(t, payload["tag_name"], any("v2.0.0"))
	gt.Equal(t, payload["html_url"], any("https://x/2.0.0"))

	// payload values win over typed fields
	desc = model.NewReleaseDescriptor(map[string]any{"tag_name": "v1", "body": "notes"})
	payload = desc.Payload()
	gt.Equal(t, payload["tag_name"], any("v1"))
	gt.Equal(t, payload["body"], any("notes"))
	_, hasURL := payload["html_url"]
	gt.False(t, hasURL)
}

func TestAlert(t *testing.T) {
	repo := model.TrackedRepository{Owner: "acme", Name: "widget"}
	prev := model.NewReleaseDescriptor(map[string]any{"tag_name": "v1.0.0", "html_url": "https://x/1.0.0"})
	curr := model.NewReleaseDescriptor(map[string]any{"tag_name": "v1.1.0", "html_url": "https://x/1.1.0"})

	t.Run("upgrade", func(t *testing.T) {
		alert := model.NewAlert(model.VersionOlder, repo, prev, curr)
		gt.NotNil(t, alert)
		gt.Equal(t, alert.Kind, model.AlertUpgrade)
		gt.Equal(t, alert.Message(),
			"Upgrade release for acme/widget:\nOld version: v1.0.0\nNew version: v1.1.0\nhttps://x/1.1.0")
	})

	t.Run("downgrade", func(t *testing.T) {
		alert := model.NewAlert(model.VersionNewer, repo, curr, prev)
		gt.NotNil(t, alert)
		gt.Equal(t, alert.Kind, model.AlertDowngrade)
		gt.String(t, alert.Message()).Contains("Downgrade release for acme/widget")
	})

	t.Run("no alert for same or incomparable", func(t *testing.T) {
		gt.Value(t, model.NewAlert(model.VersionSame, repo, prev, curr)).Nil()
		gt.Value(t, model.NewAlert(model.VersionIncomparable, repo, prev, curr)).Nil()
	})
}
