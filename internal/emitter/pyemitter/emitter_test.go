package pyemitter

import (
	"strings"
	"testing"

	"github.com/oaplabs/swagger2py/internal/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classOnlyModel() *generator.Model {
	return &generator.Model{
		ParentClass:   "YamlDataClass",
		ParentPackage: "generator",
		Classes: []generator.ClassDef{
			{
				Name:   "User",
				Parent: "YamlDataClass",
				Doc:    []string{"Fields:", "id: int | identifier"},
				Fields: []generator.Field{
					{Name: "id", Type: "int"},
					{Name: "name", Type: "str", HasDefault: true},
				},
			},
		},
	}
}

func TestRender_DataClass(t *testing.T) {
	t.Parallel()
	got := string(Render(classOnlyModel()))

	want := strings.Join([]string{
		"from __future__ import annotations",
		"from typing import List, Dict, Any",
		"from dataclasses import dataclass, field",
		"from generator import YamlDataClass",
		"",
		"",
		"@dataclass",
		"class User(YamlDataClass):",
		"    \"\"\"",
		"    Fields:",
		"    id: int | identifier",
		"    \"\"\"",
		"",
		"    id: int",
		"    name: str = field(default=None)",
		"",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestRender_ClientMethod(t *testing.T) {
	t.Parallel()
	m := classOnlyModel()
	m.Client = &generator.ClientClass{
		Name: "Api",
		Methods: []generator.ClientMethod{
			{
				Name:       "listbooks",
				Method:     "get",
				Path:       "/books",
				Return:     generator.ReturnList,
				ReturnType: "List[Book]",
				ElemType:   "Book",
			},
		},
	}
	got := string(Render(m))

	cont := strings.Repeat(" ", len("        response = requests.get("))
	want := strings.Join([]string{
		"######################################",
		"# API from paths",
		"######################################",
		"import requests",
		"",
		"",
		"class Api:",
		"",
		"    def __init__(self, host: str, request_headers: dict):",
		"        self.host = host",
		"        self.request_headers = request_headers",
		"",
		"    def listbooks(self) -> List[Book]:",
		"        response = requests.get(f'{self.host}/books',",
		cont + "headers=self.request_headers,",
		cont + "params={})",
		"        try:",
		"            return [Book.load(item) for item in response.json()]",
		"        except Exception as e:",
		"            print(f'Bad response: {response.json()}')",
		"            raise e",
		"",
	}, "\n")
	require.True(t, strings.HasSuffix(got, want), "client rendering mismatch:\n%s", got)
}

func TestRender_PostMethodCarriesData(t *testing.T) {
	t.Parallel()
	m := classOnlyModel()
	m.Client = &generator.ClientClass{
		Name: "Api",
		Methods: []generator.ClientMethod{
			{
				Name:   "postbooks",
				Method: "post",
				Path:   "/books",
				Data:   &generator.Param{Name: "data", WireName: "data", Type: "Book", Required: true},
				Params: []generator.Param{
					{Name: "shelf", WireName: "shelf", Type: "str", Required: false},
				},
				Query: []generator.Param{
					{Name: "shelf", WireName: "shelf", Type: "str"},
				},
				Return:     generator.ReturnObject,
				ReturnType: "Book",
			},
		},
	}
	got := string(Render(m))

	assert.Contains(t, got, "def postbooks(self, data: Book, shelf: str = None) -> Book:")
	assert.Contains(t, got, "params={\"shelf\": shelf},")
	assert.Contains(t, got, "data=data.asdict())")
	assert.Contains(t, got, "return Book.load(response.json())")
}

func TestRender_NoneReturnEmitsPass(t *testing.T) {
	t.Parallel()
	m := classOnlyModel()
	m.Client = &generator.ClientClass{
		Name: "Api",
		Methods: []generator.ClientMethod{
			{
				Name:       "deletebooks",
				Method:     "delete",
				Path:       "/books/{id}",
				Params:     []generator.Param{{Name: "id", WireName: "id", Type: "int", Required: true}},
				Return:     generator.ReturnNone,
				ReturnType: "None",
			},
		},
	}
	got := string(Render(m))

	assert.Contains(t, got, "def deletebooks(self, id: int) -> None:")
	assert.Contains(t, got, "response = requests.delete(f'{self.host}/books/{id}',")
	assert.Contains(t, got, "            pass\n")
}

func TestRender_KeywordAliases(t *testing.T) {
	t.Parallel()
	m := &generator.Model{
		ParentClass:   "YamlDataClass",
		ParentPackage: "generator",
		Classes: []generator.ClassDef{
			{
				Name:   "Transfer",
				Parent: "YamlDataClass",
				Doc:    []string{"Fields:"},
				Fields: []generator.Field{
					{Name: "FROM", Type: "str", HasDefault: true},
					{Name: "to", Type: "str", HasDefault: true},
				},
				Aliases: generator.AliasTable{"FROM": "from"},
			},
		},
	}
	got := string(Render(m))
	assert.Contains(t, got, "    _keyword_aliases = {\"FROM\": \"from\"}")
}

func TestRender_LiteralClassVerbatim(t *testing.T) {
	t.Parallel()
	literal := "@dataclass\nclass Frozen(YamlDataClass):\n    state: str"
	m := &generator.Model{
		ParentClass:   "YamlDataClass",
		ParentPackage: "generator",
		Classes:       []generator.ClassDef{{Name: "Frozen", Literal: literal}},
	}
	got := string(Render(m))
	assert.Contains(t, got, literal)
	assert.NotContains(t, got, "\"\"\"")
}

func TestRender_EmptyClassEmitsPass(t *testing.T) {
	t.Parallel()
	m := &generator.Model{
		ParentClass: "YamlDataClass",
		Classes: []generator.ClassDef{
			{Name: "Marker", Parent: "YamlDataClass", Doc: []string{"Fields:"}},
		},
	}
	got := string(Render(m))
	assert.Contains(t, got, "class Marker(YamlDataClass):")
	assert.Contains(t, got, "\n    pass\n")
	// A bare parent class name imports as a module.
	assert.Contains(t, got, "import YamlDataClass\n")
}

func TestRender_Deterministic(t *testing.T) {
	t.Parallel()
	m := classOnlyModel()
	m.Classes[0].Aliases = generator.AliasTable{"FROM": "from", "CLASS": "class", "DEF": "def"}
	first := Render(m)
	second := Render(m)
	assert.Equal(t, string(first), string(second))
	assert.Contains(t, string(first), "{\"CLASS\": \"class\", \"DEF\": \"def\", \"FROM\": \"from\"}")
}
