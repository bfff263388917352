package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type sampleEntry struct {
	Status      int    `json:"status"      yaml:"status"`
	Disposition string `json:"disposition" yaml:"disposition"`
}

func TestJSONHandler_Writer(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	h := NewJSONHandler[sampleEntry](buf, 2)
	require.Equal(t, buf, h.Writer())
}

func TestJSONHandler_HandleResults(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	h := NewJSONHandler[sampleEntry](buf, 2)

	err := h.HandleResults(
		sampleEntry{Status: 409, Disposition: "mask"},
		sampleEntry{Status: 404, Disposition: "passthrough"},
	)
	require.NoError(t, err)

	expected := `{
  "results": [
    {
      "status": 409,
      "disposition": "mask"
    },
    {
      "status": 404,
      "disposition": "passthrough"
    }
  ]
}` + "\n"
	require.Equal(t, expected, buf.String())
}

func TestJSONHandler_HandleResults_Empty(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	h := NewJSONHandler[sampleEntry](buf, 0)

	require.NoError(t, h.HandleResults())
	require.JSONEq(t, `{"results":[]}`, buf.String())
}

func TestJSONHandler_HandleResult(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	h := NewJSONHandler[sampleEntry](buf, 0)

	require.NoError(t, h.HandleResult(sampleEntry{Status: 422, Disposition: "mask"}))
	require.Equal(t, `{"result":{"status":422,"disposition":"mask"}}`+"\n", buf.String())
}

func TestJSONHandler_HandleError(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	h := NewJSONHandler[sampleEntry](buf, 0)

	require.NoError(t, h.HandleError(errors.New("invalid status code: abc")))
	require.Equal(t, `{"error":"invalid status code: abc"}`+"\n", buf.String())
}
