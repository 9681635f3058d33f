package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/wapi/internal/wapi"
)

func TestParseParams(t *testing.T) {
	params, err := parseParams(`{"options":{"delay":2}}`, []string{
		"phone=5511999990000",
		"message=hello there",
		"latitude=-23.5",
		"viewOnce=true",
		`participants=["551100000001","551100000002"]`,
	})
	require.NoError(t, err)
	require.Equal(t, "5511999990000", params["phone"])
	require.Equal(t, "hello there", params["message"])
	require.Equal(t, -23.5, params["latitude"])
	require.Equal(t, true, params["viewOnce"])
	require.Equal(t, []any{"551100000001", "551100000002"}, params["participants"])
	require.Equal(t, map[string]any{"delay": float64(2)}, params["options"])
}

func TestParseParamsEmpty(t *testing.T) {
	params, err := parseParams("", nil)
	require.NoError(t, err)
	require.Nil(t, params)
}

func TestParseParamsErrors(t *testing.T) {
	_, err := parseParams("", []string{"novalue"})
	require.Error(t, err)

	_, err = parseParams("", []string{"=x"})
	require.Error(t, err)

	_, err = parseParams("[1,2]", nil)
	require.Error(t, err)
}

func TestParseValuePairWins(t *testing.T) {
	params, err := parseParams(`{"message":"from body"}`, []string{"message=from pair"})
	require.NoError(t, err)
	require.Equal(t, "from pair", params["message"])
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, json.RawMessage(`{"a":1}`)))
	require.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestRenderOperations(t *testing.T) {
	var buf bytes.Buffer
	renderOperations(&buf, wapi.Operations())
	out := buf.String()
	require.Contains(t, out, "Operation")
	require.NotContains(t, out, "OPERATION", "headers keep their case")
	require.Contains(t, out, "/instance/status")

	buf.Reset()
	renderAliases(&buf, wapi.Aliases())
	require.Contains(t, buf.String(), "Alias")
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, Execute())
	require.True(t, strings.HasPrefix(buf.String(), "wapi "))
}
