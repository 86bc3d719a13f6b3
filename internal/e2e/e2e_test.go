package e2e

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oaplabs/swagger2py/internal/cli"
)

// swaggerV2Sample is a Swagger 2.0 document exercising the full surface:
// conversion to v3, keyword mangling, required-first ordering, body
// synthesis, and every return shape.
const swaggerV2Sample = `swagger: "2.0"
info:
  title: Accounts
  version: "1.0.0"
basePath: /v1
paths:
  /users:
    get:
      responses:
        "200":
          description: ok
          schema:
            type: array
            items:
              $ref: "#/definitions/User"
    post:
      parameters:
        - in: body
          name: user
          required: true
          schema:
            $ref: "#/definitions/User"
      responses:
        "200":
          description: ok
          schema:
            $ref: "#/definitions/User"
  /users/{id}:
    get:
      parameters:
        - in: path
          name: id
          required: true
          type: integer
      responses:
        "200":
          description: ok
          schema:
            $ref: "#/definitions/User"
    delete:
      parameters:
        - in: path
          name: id
          required: true
          type: integer
      responses:
        "204":
          description: deleted
definitions:
  User:
    type: object
    required:
      - id
    properties:
      name:
        type: string
      id:
        type: integer
      from:
        type: string
        description: Referral source.
`

func TestGenerate_SwaggerV2Document(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "accounts.yaml")
	if err := os.WriteFile(specPath, []byte(swaggerV2Sample), 0o600); err != nil {
		t.Fatalf("write spec: %v", err)
	}
	outPath := filepath.Join(dir, "accounts.py")

	root := cli.NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"generate", "--input", specPath, "--out", outPath})

	if err := root.Execute(); err != nil {
		t.Fatalf("generate execute: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	src := string(data)

	for _, want := range []string{
		"from __future__ import annotations",
		"from generator import YamlDataClass",
		"class User(YamlDataClass):",
		// Required id first, then declaration order.
		"    id: int\n    name: str = field(default=None)",
		// Keyword field mangled with a recorded alias.
		"FROM: str = field(default=None)",
		"_keyword_aliases = {\"FROM\": \"from\"}",
		"class Api:",
		"def listusers(self) -> List[User]:",
		"return [User.load(item) for item in response.json()]",
		"def postusers(self, data: User) -> User:",
		"data=data.asdict())",
		"def getusers(self, id: int) -> User:",
		"def deleteusers(self, id: int) -> None:",
	} {
		if !strings.Contains(src, want) {
			t.Fatalf("output missing %q:\n%s", want, src)
		}
	}

	if strings.Contains(src, "response.string()") {
		t.Fatalf("unexpected invalid accessor in output")
	}
}
