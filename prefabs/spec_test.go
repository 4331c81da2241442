package prefabs

import (
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestVec3Decoding(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		want    Vec3
		wantErr bool
	}{
		{name: "list", src: "[1, 2.5, -3]", want: Vec3{1, 2.5, -3}},
		{name: "mapping", src: "{x: 1, z: 4}", want: Vec3{1, 0, 4}},
		{name: "short list", src: "[1, 2]", wantErr: true},
		{name: "scalar", src: "3", wantErr: true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var v Vec3
			err := yaml.Unmarshal([]byte(c.src), &v)
			if c.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, v)
		})
	}
}

func TestYAMLColor(t *testing.T) {
	cases := []struct {
		src     string
		want    color.NRGBA
		wantErr bool
	}{
		{src: `"#C0392B"`, want: color.NRGBA{R: 0xC0, G: 0x39, B: 0x2B, A: 0xFF}},
		{src: `"27AE6080"`, want: color.NRGBA{R: 0x27, G: 0xAE, B: 0x60, A: 0x80}},
		{src: `"#FFF"`, wantErr: true},
		{src: `"#GG0000"`, wantErr: true},
		{src: `[1, 2, 3]`, wantErr: true},
	}
	for _, c := range cases {
		var got YAMLColor
		err := yaml.Unmarshal([]byte(c.src), &got)
		if c.wantErr {
			assert.Error(t, err, c.src)
			continue
		}
		require.NoError(t, err, c.src)
		assert.Equal(t, c.want, got.Color)
	}
}

func TestLoadSpecInto(t *testing.T) {
	spec := PlayerSpec{Name: "default"}

	require.NoError(t, LoadSpecInto("player.yaml", &spec))

	assert.Equal(t, "player", spec.Name)
	assert.Equal(t, 5.0, spec.Movement.WalkSpeed)
	assert.Equal(t, 0.6, spec.Capsule.Height)
	assert.NotEmpty(t, spec.Animations)

	_, err := LoadSpec[PlayerSpec]("missing.yaml")
	assert.Error(t, err)
}

func TestLoadLevel(t *testing.T) {
	for _, name := range []string{"warehouse", "warehouse.yaml"} {
		level, err := LoadLevel(name)
		require.NoError(t, err, name)

		assert.Equal(t, "warehouse", level.Name)
		assert.Equal(t, 30.0, level.Bounds.Width)
		assert.Len(t, level.Walls, 6)
		assert.Len(t, level.Crates, 4)
		require.Len(t, level.BoxMovers, 1)
		require.NotNil(t, level.BoxMovers[0].DropZone)
		assert.Equal(t, Vec3{12, 3, 12}, level.BoxMovers[0].DropZone.Max)

		require.Len(t, level.Plates, 1)
		plate := level.Plates[0]
		assert.Equal(t, []string{"player", "crate"}, plate.TriggeredBy)
		assert.Equal(t, "open_gate", plate.OnActivate)

		require.Len(t, level.Platforms, 1)
		assert.Equal(t, 180, level.Platforms[0].DurationFrames)
	}

	_, err := LoadLevel("nowhere")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "warehouse")
}

func TestLevels(t *testing.T) {
	levels := Levels()
	assert.Contains(t, levels, "warehouse")
	assert.Contains(t, levels, "sandbox")
	assert.IsIncreasing(t, levels)
}

func TestLoadScript(t *testing.T) {
	for _, name := range []string{"open_gate", "open_gate.tengo", "scripts/open_gate", "prefabs/scripts/open_gate.tengo"} {
		src, err := LoadScript(name)
		require.NoError(t, err, name)
		assert.Contains(t, string(src), `door_open("gate")`)
	}
}

func TestCleanPaths(t *testing.T) {
	cases := []struct {
		fn   func(string) string
		in   string
		want string
	}{
		{cleanScriptPath, "", ""},
		{cleanScriptPath, "open_gate", "scripts/open_gate.tengo"},
		{cleanScriptPath, "prefabs/open_gate.tengo", "scripts/open_gate.tengo"},
		{cleanScriptPath, "scripts/sub/x", "scripts/sub/x.tengo"},
		{cleanPrefabPath, "prefabs/levels/warehouse.yaml", "levels/warehouse.yaml"},
		{cleanPrefabPath, "player.yaml", "player.yaml"},
		{cleanPrefabPath, "", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.fn(c.in), c.in)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		kind ChangeKind
		ok   bool
	}{
		{"prefabs/player.yaml", ChangeSpec, true},
		{"levels/a.YML", ChangeSpec, true},
		{"scripts/open_gate.tengo", ChangeScript, true},
		{"scripts/open_gate.tengo~", 0, false},
		{"README.md", 0, false},
	}
	for _, c := range cases {
		kind, ok := classify(c.path)
		assert.Equal(t, c.ok, ok, c.path)
		assert.Equal(t, c.kind, kind, c.path)
	}
}

func TestWatcherReportsEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	target := filepath.Join(dir, "sandbox.yaml")
	require.NoError(t, os.WriteFile(target, []byte("name: sandbox\n"), 0o644))

	select {
	case change := <-w.Events:
		assert.Equal(t, target, change.Path)
		assert.Equal(t, ChangeSpec, change.Kind)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	for range w.Events {
	}
}

func TestWatcherCoversSubdirectories(t *testing.T) {
	dir := t.TempDir()
	scripts := filepath.Join(dir, "scripts")
	require.NoError(t, os.Mkdir(scripts, 0o755))
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	target := filepath.Join(scripts, "open_gate.tengo")
	require.NoError(t, os.WriteFile(target, []byte(`log("hi")`), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case change := <-w.Events:
			if change.Path != target {
				continue
			}
			assert.Equal(t, ChangeScript, change.Kind)
			return
		case <-deadline:
			t.Fatal("no change reported for nested script")
		}
	}
}

func TestNewWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
