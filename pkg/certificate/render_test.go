package certificate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCertificate(t *testing.T) {
	content := `<h1>{{ upper .HonorName }}</h1>{{ .Logo }}<p>{{ .StudentName }} ({{ .SchoolYear }}) {{ date .IssuedAt }}</p>`
	out, err := Render("honor", content, Data{
		StudentName: "Ana <Reyes>",
		HonorName:   "With Honors",
		SchoolYear:  "2024-2025",
		IssuedAt:    time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Logo:        `<img src="data:image/png;base64,AA==">`,
	})
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "<h1>WITH HONORS</h1>")
	assert.Contains(t, html, `<img src="data:image/png;base64,AA==">`)
	assert.Contains(t, html, "Ana &lt;Reyes&gt;")
	assert.Contains(t, html, "April 1, 2025")
}

func TestParseRejectsBrokenTemplates(t *testing.T) {
	_, err := Parse("broken", "{{ .StudentName ")
	assert.Error(t, err)

	_, err = Parse("empty", "   ")
	assert.Error(t, err)
}

func TestRenderUnknownField(t *testing.T) {
	_, err := Render("unknown", "{{ .Missing }}", Data{})
	assert.Error(t, err)
}
