package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Missing(t *testing.T) {
	f, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, File{}, f)
}

func TestLoadFile_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prosim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("input: in.txt\nserve: \":9090\"\notel: true\n"), 0o644))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "in.txt", f.InputPath)
	assert.Equal(t, ":9090", f.ServeAddr)
	assert.True(t, f.OTel)
}

func TestResolve_Precedence(t *testing.T) {
	t.Setenv("PROSIM_SERVE_ADDR", ":7070")
	t.Setenv("PROSIM_RUN_LOG", "")

	f := File{InputPath: "from-file.txt", ServeAddr: ":6060"}
	flags := Flags{InputPath: "from-flag.txt"}

	r := Resolve(f, flags)
	assert.Equal(t, "from-flag.txt", r.InputPath) // flag beats file
	assert.Equal(t, ":7070", r.ServeAddr)          // env beats file
}

func TestResolve_FlagBeatsEnv(t *testing.T) {
	t.Setenv("PROSIM_SERVE_ADDR", ":7070")
	flags := Flags{ServeAddr: ":8080"}
	r := Resolve(File{}, flags)
	assert.Equal(t, ":8080", r.ServeAddr)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Resolved{QuantumOverride: 0}.Validate())
	assert.ErrorIs(t, Resolved{QuantumOverride: -1}.Validate(), ErrNegativeQuantumOverride)
}
