package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_StripsScriptAndStyle(t *testing.T) {
	t.Run("script content never leaks", func(t *testing.T) {
		out := Normalize(`<script>alert(1)</script>Hello`)
		assert.Equal(t, "Hello", out)
		assert.NotContains(t, out, "alert(1)")
	})

	t.Run("script with attributes", func(t *testing.T) {
		out := Normalize(`<script type="text/javascript" src="x.js">var x = 1;</script>Announcement`)
		assert.Equal(t, "Announcement", out)
	})

	t.Run("style content removed", func(t *testing.T) {
		out := Normalize(`<style>.popup { display: none; }</style>Schools closed`)
		assert.Equal(t, "Schools closed", out)
		assert.NotContains(t, out, "display")
	})

	t.Run("multiline script", func(t *testing.T) {
		out := Normalize("<script>\nwindow.open();\nalert(2);\n</script>Notice")
		assert.Equal(t, "Notice", out)
	})
}

func TestNormalize_BlockStructure(t *testing.T) {
	t.Run("paragraphs become lines", func(t *testing.T) {
		out := Normalize(`<p>First paragraph</p><p>Second paragraph</p>`)
		assert.Equal(t, "First paragraph\nSecond paragraph", out)
	})

	t.Run("br becomes newline", func(t *testing.T) {
		assert.Equal(t, "line one\nline two", Normalize("line one<br>line two"))
		assert.Equal(t, "line one\nline two", Normalize("line one<br />line two"))
	})

	t.Run("table rows become lines", func(t *testing.T) {
		out := Normalize(`<table><tr><td>Monday</td><td>Open</td></tr><tr><td>Tuesday</td><td>Closed</td></tr></table>`)
		assert.Equal(t, "Monday\nOpen\nTuesday\nClosed", out)
	})

	t.Run("headings and list items", func(t *testing.T) {
		out := Normalize(`<h1>Weather Update</h1><ul><li>Buses delayed</li><li>Activities cancelled</li></ul>`)
		assert.Equal(t, "Weather Update\nBuses delayed\nActivities cancelled", out)
	})
}

func TestNormalize_InlineTagsBecomeSpaces(t *testing.T) {
	// A space replaces each tag so words don't concatenate across boundaries.
	out := Normalize(`Schools<b>closed</b>Tuesday`)
	assert.Equal(t, "Schools closed Tuesday", out)
}

func TestNormalize_Entities(t *testing.T) {
	t.Run("basic entity set", func(t *testing.T) {
		out := Normalize(`Snow&nbsp;day &amp; ice: &quot;stay home&quot; it&#39;s official`)
		assert.Equal(t, `Snow day & ice: "stay home" it's official`, out)
	})

	t.Run("double-encoded stays literal", func(t *testing.T) {
		out := Normalize(`A&amp;nbsp;B`)
		assert.Equal(t, "A&nbsp;B", out)
	})

	t.Run("encoded markup does not leak as tags", func(t *testing.T) {
		out := Normalize(`&lt;script&gt;alert(1)&lt;/script&gt; is just text`)
		// Decoded after tag stripping, so the text survives instead of being
		// removed as a script region.
		assert.Contains(t, out, "is just text")
	})
}

func TestNormalize_Whitespace(t *testing.T) {
	t.Run("collapses runs and drops empty lines", func(t *testing.T) {
		out := Normalize("  Schools \t  closed  <p></p><p></p><p></p>  next   line ")
		assert.Equal(t, "Schools closed\nnext line", out)
	})

	t.Run("trims each line", func(t *testing.T) {
		out := Normalize("<p>   padded   </p><p>  also padded </p>")
		assert.Equal(t, "padded\nalso padded", out)
	})
}

func TestNormalize_NoResidualMarkup(t *testing.T) {
	page := `<html><head><title>Status</title><style>body{}</style></head>
	<body><div class="popup"><h2>Inclement Weather</h2>
	<p>All schools will be <strong>closed</strong> on Tuesday, January 27th.</p>
	<script>track();</script></div></body></html>`

	out := Normalize(page)
	assert.NotContains(t, out, "<")
	assert.NotContains(t, out, ">")
	assert.NotContains(t, out, "track()")
	assert.Contains(t, out, "closed")
	assert.Contains(t, out, "Tuesday, January 27th")
}

func TestNormalize_Deterministic(t *testing.T) {
	page := `<div><p>Schools&nbsp;closed</p><br><span>tomorrow</span></div>`
	first := Normalize(page)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Normalize(page))
	}
}

func TestNormalize_EmptyAndPlainInput(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "already plain text", Normalize("already plain text"))
	assert.Equal(t, "", Normalize("<script>only();</script>"))
	assert.Equal(t, "", Normalize(strings.Repeat("\n", 10)))
}
