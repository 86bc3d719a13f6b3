package spec

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestRewriteV2_MergesMultipleBodyParams(t *testing.T) {
	t.Parallel()
	in := []byte(`swagger: "2.0"
info:
  title: Multi
  version: "1.0.0"
paths:
  /things:
    post:
      parameters:
        - in: body
          name: first
          required: true
          schema:
            type: string
        - in: body
          name: second
          type: integer
        - in: query
          name: verbose
          type: boolean
      responses:
        "200":
          description: ok
`)

	out, changed, err := rewriteV2ForConversion(in)
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if !changed {
		t.Fatalf("expected a rewrite")
	}

	var doc map[string]any
	if err := yaml.Unmarshal(out, &doc); err != nil {
		t.Fatalf("parse rewritten: %v", err)
	}
	op := doc["paths"].(map[string]any)["/things"].(map[string]any)["post"].(map[string]any)
	params := op["parameters"].([]any)
	if len(params) != 2 {
		t.Fatalf("expected merged body + query param, got %d params", len(params))
	}

	body := params[0].(map[string]any)
	if body["in"] != "body" || body["name"] != "body" {
		t.Fatalf("expected synthesized body param, got %v", body)
	}
	schema := body["schema"].(map[string]any)
	props := schema["properties"].(map[string]any)
	if _, ok := props["first"]; !ok {
		t.Fatalf("expected property for first body param")
	}
	second, ok := props["second"].(map[string]any)
	if !ok || second["type"] != "integer" {
		t.Fatalf("expected inline type synthesized into schema, got %v", props["second"])
	}
	required := schema["required"].([]any)
	if len(required) != 1 || required[0] != "first" {
		t.Fatalf("expected only the required body param in required, got %v", required)
	}
}

func TestRewriteV2_SingleBodyUntouched(t *testing.T) {
	t.Parallel()
	in := []byte(`swagger: "2.0"
info:
  title: Single
  version: "1.0.0"
paths:
  /things:
    post:
      parameters:
        - in: body
          name: thing
          schema:
            type: object
      responses:
        "200":
          description: ok
`)
	out, changed, err := rewriteV2ForConversion(in)
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if changed {
		t.Fatalf("expected no rewrite for a single body param")
	}
	if string(out) != string(in) {
		t.Fatalf("expected bytes returned unmodified")
	}
}

func TestRewriteV2_NoPaths(t *testing.T) {
	t.Parallel()
	in := []byte("swagger: \"2.0\"\ninfo:\n  title: Empty\n")
	_, changed, err := rewriteV2ForConversion(in)
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	if changed {
		t.Fatalf("expected no rewrite without paths")
	}
}
