package bundle

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/mindshard/mindshard-server/common/types"
)

func buildZip(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range entries {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func validManifestJSON() []byte {
	return []byte(`{
		"name": "llama-med-lora",
		"version": "1.0.0",
		"description": "medical QA adapter",
		"base_models": ["llama-3-8b"],
		"task": "qa",
		"license": "apache-2.0",
		"authors": [{"name": "alice", "sui_address": "0xabc"}],
		"files": {"adapter": "adapter_model.safetensors", "config": "adapter_config.json"},
		"checksums": {"adapter": "", "config": ""}
	}`)
}

func TestValidateBundle_Valid(t *testing.T) {
	data := buildZip(t, map[string][]byte{
		"manifest.json":             validManifestJSON(),
		"adapter_model.safetensors": []byte("weights"),
		"adapter_config.json":       []byte(`{"r":16}`),
	})

	result := ValidateBundle(data)
	require.Empty(t, result.Errors)
	require.True(t, result.Valid)
	require.NotNil(t, result.Manifest)
	assert.Equal(t, "llama-med-lora", result.Manifest.Name)
	assert.Equal(t, []string{"llama-3-8b"}, result.Manifest.BaseModels)
	assert.Equal(t, []byte("weights"), result.AdapterFile)
	assert.Equal(t, []byte(`{"r":16}`), result.ConfigFile)
}

func TestValidateBundle_MissingEntriesAllReported(t *testing.T) {
	data := buildZip(t, map[string][]byte{
		"readme.txt": []byte("hi"),
	})

	result := ValidateBundle(data)
	require.False(t, result.Valid)
	assert.ElementsMatch(t, []string{
		"Missing manifest.json",
		"Missing adapter_model.safetensors",
		"Missing adapter_config.json",
	}, result.Errors)
	assert.Nil(t, result.Manifest)
	assert.Nil(t, result.AdapterFile)
}

func TestValidateBundle_OneMissingEntry(t *testing.T) {
	data := buildZip(t, map[string][]byte{
		"manifest.json":       validManifestJSON(),
		"adapter_config.json": []byte(`{}`),
	})

	result := ValidateBundle(data)
	require.False(t, result.Valid)
	assert.Equal(t, []string{"Missing adapter_model.safetensors"}, result.Errors)
}

func TestValidateBundle_MalformedManifestStops(t *testing.T) {
	data := buildZip(t, map[string][]byte{
		"manifest.json":             []byte(`{not json`),
		"adapter_model.safetensors": []byte("weights"),
		"adapter_config.json":       []byte(`{}`),
	})

	result := ValidateBundle(data)
	require.False(t, result.Valid)
	// a single parse error, no field-level checks
	assert.Equal(t, []string{"Invalid manifest.json format"}, result.Errors)
	assert.Nil(t, result.AdapterFile)
}

func TestValidateBundle_MissingManifestFields(t *testing.T) {
	data := buildZip(t, map[string][]byte{
		"manifest.json":             []byte(`{"name":"x","base_models":[]}`),
		"adapter_model.safetensors": []byte("weights"),
		"adapter_config.json":       []byte(`{}`),
	})

	result := ValidateBundle(data)
	require.False(t, result.Valid)
	assert.ElementsMatch(t, []string{
		"Missing required field in manifest: version",
		"Missing required field in manifest: description",
		"Missing required field in manifest: license",
		"Missing required field in manifest: authors",
	}, result.Errors)
}

func TestValidateBundle_EmptyBaseModelsListIsPresent(t *testing.T) {
	// a list that exists in the JSON, even empty, satisfies the
	// required-field check
	data := buildZip(t, map[string][]byte{
		"manifest.json": []byte(`{
			"name":"x","version":"1","description":"d",
			"base_models":[],"license":"mit",
			"authors":[{"name":"a","sui_address":""}]
		}`),
		"adapter_model.safetensors": []byte("w"),
		"adapter_config.json":       []byte(`{}`),
	})

	result := ValidateBundle(data)
	require.Empty(t, result.Errors)
	require.True(t, result.Valid)
}

func TestValidateBundle_CorruptArchive(t *testing.T) {
	result := ValidateBundle([]byte("definitely not a zip"))
	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "failed to read zip file")
}

func TestExtractManifest(t *testing.T) {
	data := buildZip(t, map[string][]byte{
		"manifest.json": validManifestJSON(),
	})
	manifest, err := ExtractManifest(data)
	require.NoError(t, err)
	assert.Equal(t, "llama-med-lora", manifest.Name)

	_, err = ExtractManifest(buildZip(t, map[string][]byte{"other.txt": []byte("x")}))
	require.Error(t, err)
}

func TestHashBytes(t *testing.T) {
	// sha256 of empty input
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		HashBytes(nil))
	assert.Equal(t, HashBytes([]byte("abc")), HashBytes([]byte("abc")))
	assert.NotEqual(t, HashBytes([]byte("abc")), HashBytes([]byte("abd")))
}

func TestHashManifest_Deterministic(t *testing.T) {
	m := &types.Manifest{
		Name:        "llama-med-lora",
		Version:     "1.0.0",
		Description: "medical QA adapter",
		BaseModels:  []string{"llama-3-8b"},
		License:     "apache-2.0",
		Authors:     []types.ManifestAuthor{{Name: "alice", SuiAddress: "0xabc"}},
	}
	h1, err := HashManifest(m)
	require.NoError(t, err)
	require.Len(t, h1, 64)
	assert.Equal(t, h1, string(bytes.ToLower([]byte(h1))))

	// deep copy hashes identically
	cp := *m
	cp.BaseModels = append([]string{}, m.BaseModels...)
	cp.Authors = append([]types.ManifestAuthor{}, m.Authors...)
	h2, err := HashManifest(&cp)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	// any field change moves the hash
	cp.Version = "1.0.1"
	h3, err := HashManifest(&cp)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}
