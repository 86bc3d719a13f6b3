package codegen

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/oaplabs/swagger2py/internal/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petstore = `openapi: 3.0.0
info:
  title: Petstore
  version: "1.0.0"
paths:
  /pets:
    get:
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: "#/components/schemas/Pet"
components:
  schemas:
    Pet:
      type: object
      required:
        - id
      properties:
        id:
          type: integer
        name:
          type: string
`

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestFromReader(t *testing.T) {
	t.Parallel()
	res, err := FromReader(context.Background(), strings.NewReader(petstore), quiet())
	require.NoError(t, err)
	src := string(res.Source)

	assert.Contains(t, src, "class Pet(YamlDataClass):")
	assert.Contains(t, src, "class Api:")
	assert.Contains(t, src, "def listpets(self) -> List[Pet]:")
	assert.Contains(t, src, "return [Pet.load(item) for item in response.json()]")
	assert.Empty(t, res.Skipped)
}

func TestFromText_DefinitionsOnly(t *testing.T) {
	t.Parallel()
	res, err := FromText(petstore, quiet())
	require.NoError(t, err)
	src := string(res.Source)

	assert.Contains(t, src, "class Pet(YamlDataClass):")
	assert.NotContains(t, src, "class Api:")
	assert.NotContains(t, src, "import requests")
}

func TestFromURL(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(petstore))
	}))
	defer srv.Close()

	res, err := FromURL(context.Background(), srv.URL+"/openapi.yaml", quiet())
	require.NoError(t, err)
	assert.Contains(t, string(res.Source), "class Api:")
}

func TestFromDocument(t *testing.T) {
	t.Parallel()
	doc, err := spec.LoadBytes([]byte(petstore))
	require.NoError(t, err)

	res, err := FromDocument(doc, quiet())
	require.NoError(t, err)
	assert.Contains(t, string(res.Source), "class Api:")

	_, err = FromDocument(nil, quiet())
	require.Error(t, err)
}

func TestFromReader_NoDefinitions(t *testing.T) {
	t.Parallel()
	res, err := FromReader(context.Background(), strings.NewReader(`openapi: 3.0.0
info:
  title: Bare
  version: "1.0.0"
paths: {}
`), quiet())
	require.NoError(t, err)
	assert.Empty(t, res.Source)
	assert.Empty(t, res.Skipped)
}

func TestFromReader_ParentOverride(t *testing.T) {
	t.Parallel()
	res, err := FromReader(context.Background(), strings.NewReader(petstore),
		quiet(), WithParentClass("Base"), WithParentClassPackage("models.base"))
	require.NoError(t, err)
	src := string(res.Source)

	assert.Contains(t, src, "from models.base import Base")
	assert.Contains(t, src, "class Pet(Base):")
}

func TestFromReader_FixedClassDefinitions(t *testing.T) {
	t.Parallel()
	literal := "@dataclass\nclass Pet(YamlDataClass):\n    id: int"
	res, err := FromReader(context.Background(), strings.NewReader(petstore),
		quiet(), WithFixedClassDefinitions(map[string]string{"Pet": literal}))
	require.NoError(t, err)
	assert.Contains(t, string(res.Source), literal)
}

func TestFromReader_ContentTypeOverride(t *testing.T) {
	t.Parallel()
	doc := strings.Replace(petstore, "application/json", "application/yaml", 1)
	res, err := FromReader(context.Background(), strings.NewReader(doc),
		quiet(), WithResponseContentType("application/yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(res.Source), "def listpets(self) -> List[Pet]:")
	assert.Empty(t, res.Skipped)
}

func TestFromReader_SkippedSurface(t *testing.T) {
	t.Parallel()
	doc := strings.Replace(petstore, "application/json", "application/xml", 1)
	res, err := FromReader(context.Background(), strings.NewReader(doc), quiet())
	require.NoError(t, err)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "/pets", res.Skipped[0].Path)
	assert.NotContains(t, string(res.Source), "def listpets")
	// The surface still renders the classes and client shell.
	assert.Contains(t, string(res.Source), "class Pet(YamlDataClass):")
}
