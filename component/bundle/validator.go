package bundle

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mindshard/mindshard-server/common/types"
)

const (
	manifestEntry = "manifest.json"
	adapterEntry  = "adapter_model.safetensors"
	configEntry   = "adapter_config.json"
)

// ValidationResult reports the outcome of bundle validation. Extracted
// payloads are only populated when Valid is true.
type ValidationResult struct {
	Valid       bool            `json:"valid"`
	Manifest    *types.Manifest `json:"manifest,omitempty"`
	AdapterFile []byte          `json:"-"`
	ConfigFile  []byte          `json:"-"`
	Errors      []string        `json:"errors"`
}

// ValidateBundle inspects a zip archive containing an adapter bundle.
// Missing-entry errors are all reported together; a malformed manifest is a
// single error that stops further checks.
func ValidateBundle(data []byte) *ValidationResult {
	result := &ValidationResult{Errors: []string{}}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to read zip file: %v", err))
		return result
	}

	entries := map[string]*zip.File{}
	for _, f := range reader.File {
		entries[f.Name] = f
	}

	if entries[manifestEntry] == nil {
		result.Errors = append(result.Errors, "Missing "+manifestEntry)
	}
	if entries[adapterEntry] == nil {
		result.Errors = append(result.Errors, "Missing "+adapterEntry)
	}
	if entries[configEntry] == nil {
		result.Errors = append(result.Errors, "Missing "+configEntry)
	}
	if len(result.Errors) > 0 {
		return result
	}

	manifestBytes, err := readEntry(entries[manifestEntry])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to read zip file: %v", err))
		return result
	}
	var manifest types.Manifest
	if err := json.Unmarshal(manifestBytes, &manifest); err != nil {
		result.Errors = append(result.Errors, "Invalid manifest.json format")
		return result
	}

	for _, missing := range missingManifestFields(&manifest) {
		result.Errors = append(result.Errors, "Missing required field in manifest: "+missing)
	}
	if len(result.Errors) > 0 {
		return result
	}

	adapterBytes, err := readEntry(entries[adapterEntry])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to read zip file: %v", err))
		return result
	}
	configBytes, err := readEntry(entries[configEntry])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to read zip file: %v", err))
		return result
	}

	result.Valid = true
	result.Manifest = &manifest
	result.AdapterFile = adapterBytes
	result.ConfigFile = configBytes
	return result
}

// missingManifestFields applies the required-field policy: strings must be
// non-empty, list fields must be present (an empty list that exists in the
// JSON still counts as present).
func missingManifestFields(m *types.Manifest) []string {
	var missing []string
	if m.Name == "" {
		missing = append(missing, "name")
	}
	if m.Version == "" {
		missing = append(missing, "version")
	}
	if m.Description == "" {
		missing = append(missing, "description")
	}
	if m.BaseModels == nil {
		missing = append(missing, "base_models")
	}
	if m.License == "" {
		missing = append(missing, "license")
	}
	if m.Authors == nil {
		missing = append(missing, "authors")
	}
	return missing
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// ExtractManifest pulls the manifest out of a bundle without running full
// validation, for callers that only need metadata.
func ExtractManifest(data []byte) (*types.Manifest, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to read zip file: %w", err)
	}
	for _, f := range reader.File {
		if f.Name == manifestEntry {
			raw, err := readEntry(f)
			if err != nil {
				return nil, err
			}
			var manifest types.Manifest
			if err := json.Unmarshal(raw, &manifest); err != nil {
				return nil, fmt.Errorf("invalid manifest.json: %w", err)
			}
			return &manifest, nil
		}
	}
	return nil, fmt.Errorf("bundle has no %s", manifestEntry)
}
