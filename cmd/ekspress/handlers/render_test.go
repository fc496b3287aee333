package handlers

import (
	"bytes"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	stubLoadConfig(t, testConfig())

	var out bytes.Buffer
	require.NoError(t, Render("ekspress.yaml", &out))

	text := out.String()
	assert.Contains(t, text, "kind: Namespace")
	assert.Contains(t, text, "kind: SecretProviderClass")
	assert.Contains(t, text, "kind: Deployment")
	assert.Contains(t, text, "kind: Service")
	assert.Contains(t, text, "prod/demo/env", "secret reference rendered as configured")
	assert.Contains(t, text, "123456789012.dkr.ecr.eu-central-1.amazonaws.com/demo:v1")

	assert.Equal(t, 3, strings.Count(text, "---"), "four documents, three separators")
}

func TestRenderToFile(t *testing.T) {
	stubLoadConfig(t, testConfig())

	origWrite := writeFile
	t.Cleanup(func() { writeFile = origWrite })

	written := make(map[string][]byte)
	writeFile = func(name string, data []byte, _ fs.FileMode) error {
		written[name] = data
		return nil
	}

	require.NoError(t, RenderToFile("ekspress.yaml", "manifests.yaml"))
	require.Contains(t, written, "manifests.yaml")
	assert.Contains(t, string(written["manifests.yaml"]), "kind: Deployment")
}
