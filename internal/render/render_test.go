package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webvalidator/webvalidator/pkg/model"
)

func sampleDocs() []model.DocumentOutput {
	ok := model.NewElement("a", model.Attribute{Name: "href", Value: "https://example.com/ok"})
	bad := model.NewElement("img", model.Attribute{Name: "src", Value: "https://example.com/missing.png"})
	doc := model.NewDocumentOutput("https://example.com/", []model.ElementOutput{
		{Element: ok, Results: []model.Result{model.Ok(nil)}},
		{Element: bad, Results: []model.Result{model.Fail(model.NewError(model.ErrInvalidStatus, "unexpected status 404", nil))}},
	})
	return []model.DocumentOutput{doc}
}

func TestNewResolvesKnownFormats(t *testing.T) {
	r, err := New(FormatText)
	require.NoError(t, err)
	assert.IsType(t, TextRenderer{}, r)

	r, err = New(FormatJSON)
	require.NoError(t, err)
	assert.IsType(t, JSONRenderer{}, r)

	r, err = New("")
	require.NoError(t, err)
	assert.IsType(t, TextRenderer{}, r)
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New(Format("yaml"))
	assert.Error(t, err)
}

func TestTextRendererPrintsSummaryAndErrorsOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TextRenderer{}.Render(&buf, sampleDocs()))

	out := buf.String()
	assert.Contains(t, out, "https://example.com/  ok=1 error=1")
	assert.Contains(t, out, "invalid_status")
	assert.Contains(t, out, "missing.png")
	assert.NotContains(t, out, "ok</a>")
}

func TestJSONRendererEncodesFullDocumentSet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONRenderer{}.Render(&buf, sampleDocs()))

	var decoded []model.DocumentOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "https://example.com/", decoded[0].URL)
	assert.Equal(t, 1, decoded[0].Metrics.Success)
	assert.Equal(t, 1, decoded[0].Metrics.Error)
}
