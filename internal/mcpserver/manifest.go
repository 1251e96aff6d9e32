package mcpserver

import (
	"encoding/json"

	"github.com/panbanda/cgpa/pkg/models"
)

const (
	manifestSchema = "https://static.modelcontextprotocol.io/schemas/2025-10-17/server.schema.json"
	registryName   = "io.github.panbanda/cgpa"
	publisherMeta  = "io.modelcontextprotocol.registry/publisher-provided"
)

// Manifest is the registry entry (server.json) for the cgpa MCP server.
type Manifest struct {
	Schema      string         `json:"$schema"`
	Name        string         `json:"name"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description"`
	Version     string         `json:"version"`
	Repository  *Repository    `json:"repository,omitempty"`
	Packages    []Package      `json:"packages,omitempty"`
	Meta        map[string]any `json:"_meta,omitempty"`
}

type Repository struct {
	URL    string `json:"url"`
	Source string `json:"source"`
}

// Package says how a client launches the server.
type Package struct {
	RegistryType         string     `json:"registryType"`
	Identifier           string     `json:"identifier"`
	PackageArguments     []Argument `json:"packageArguments,omitempty"`
	EnvironmentVariables []EnvVar   `json:"environmentVariables,omitempty"`
	Transport            Transport  `json:"transport"`
}

type Argument struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// EnvVar is an optional setting the client may pass through.
type EnvVar struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Format      string `json:"format,omitempty"`
	IsRequired  bool   `json:"isRequired"`
}

type Transport struct {
	Type string `json:"type"`
}

// GenerateManifest renders server.json. The tool list under _meta comes
// from the same catalog the server registers.
func GenerateManifest(version string) ([]byte, error) {
	if version == "" {
		version = "0.0.0"
	}

	manifest := Manifest{
		Schema:      manifestSchema,
		Name:        registryName,
		Title:       "CGPA Calculator",
		Description: "Credit-weighted CGPA, transcript analytics and spreadsheet row validation",
		Version:     version,
		Repository: &Repository{
			URL:    "https://github.com/panbanda/cgpa",
			Source: "github",
		},
		Packages: []Package{{
			RegistryType:     "oci",
			Identifier:       "ghcr.io/panbanda/cgpa:" + version,
			PackageArguments: []Argument{{Type: "positional", Value: "mcp"}},
			EnvironmentVariables: []EnvVar{{
				Name:        "CGPA_CONFIG",
				Description: "Config file (TOML, YAML or JSON) naming the saved-session directory",
				Format:      "filepath",
			}},
			Transport: Transport{Type: "stdio"},
		}},
		Meta: map[string]any{
			publisherMeta: map[string]any{
				"tools":   Tools(),
				"grades":  models.AllGrades,
				"formats": []string{"toon", "json", "markdown"},
			},
		},
	}

	return json.MarshalIndent(manifest, "", "  ")
}
