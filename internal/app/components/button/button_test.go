package button

import (
	"context"
	"html/template"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, props ...Props) *goquery.Document {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, Button(props...).Render(context.Background(), &sb))
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sb.String()))
	require.NoError(t, err)
	return doc
}

func TestButton(t *testing.T) {
	t.Run("it renders a button element", func(t *testing.T) {
		doc := render(t, Props{ID: "my-button", Type: TypeSubmit, Label: "Salvar"})

		btn := doc.Find("button")
		require.Equal(t, 1, btn.Length())
		assert.Equal(t, "my-button", btn.AttrOr("id", ""))
		assert.Equal(t, "submit", btn.AttrOr("type", ""))
		assert.Equal(t, "Salvar", btn.Text())
	})

	t.Run("it renders an anchor element when href is provided", func(t *testing.T) {
		doc := render(t, Props{ID: "my-link-button", Href: "/games"})

		a := doc.Find("a")
		require.Equal(t, 1, a.Length())
		assert.Equal(t, "/games", a.AttrOr("href", ""))
		assert.Equal(t, 0, doc.Find("button").Length())
	})

	t.Run("it applies variant and size classes", func(t *testing.T) {
		doc := render(t, Props{Variant: VariantDestructive, Size: SizeLg})

		btn := doc.Find("button")
		assert.True(t, btn.HasClass("bg-destructive"))
		assert.True(t, btn.HasClass("h-10"))
		assert.False(t, btn.HasClass("h-9"))
	})

	t.Run("it passes extra attributes through", func(t *testing.T) {
		doc := render(t, Props{Attributes: []template.HTMLAttr{`hx-post="/auth/logout"`}})
		assert.Equal(t, "/auth/logout", doc.Find("button").AttrOr("hx-post", ""))
	})

	t.Run("it defaults to type button", func(t *testing.T) {
		doc := render(t)
		assert.Equal(t, "button", doc.Find("button").AttrOr("type", ""))
	})
}

func TestClass_ExtraClassesWin(t *testing.T) {
	cls := Class(VariantDefault, SizeDefault, "h-12 w-full")
	assert.Contains(t, cls, "h-12")
	assert.NotContains(t, strings.Fields(cls), "h-9")
	assert.Contains(t, cls, "w-full")
}
