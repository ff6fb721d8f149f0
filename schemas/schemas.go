// Package schemas embeds the JSON Schema documents shipped with the module.
package schemas

import "embed"

// Registry and report schema file names.
const (
	RegistryFile       = "registry.schema.json"
	AnalysisReportFile = "analysis_report.schema.json"
)

//go:embed *.schema.json
var files embed.FS

// Load returns the raw content of an embedded schema.
func Load(name string) ([]byte, error) {
	return files.ReadFile(name)
}
