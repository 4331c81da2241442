package prefabs

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Root is the on-disk directory that shadows the embedded copies, relative to
// the working directory. Files found here win so hot reload sees edits.
const Root = "prefabs"

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml levels/*.yaml
var PrefabsFS embed.FS

// overlay reads a prefab from Root first and falls back to the embedded copy.
type overlay struct {
	embedded fs.FS
	clean    func(string) string
}

var (
	prefabFiles = overlay{embedded: PrefabsFS, clean: cleanPrefabPath}
	scriptFiles = overlay{embedded: ScriptsFS, clean: cleanScriptPath}
)

func (o overlay) read(name string) ([]byte, error) {
	clean := o.clean(name)
	if clean == "" {
		return nil, fs.ErrNotExist
	}
	data, err := os.ReadFile(filepath.Join(Root, filepath.FromSlash(clean)))
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return fs.ReadFile(o.embedded, clean)
}

// Load returns a yaml prefab such as "player.yaml" or "levels/warehouse.yaml".
func Load(name string) ([]byte, error) {
	return prefabFiles.read(name)
}

// LoadScript returns a tengo script by bare name ("open_gate") or path.
func LoadScript(name string) ([]byte, error) {
	return scriptFiles.read(name)
}

// Levels lists the level names available on disk or embedded, sorted.
func Levels() []string {
	var names []string
	add := func(file string) {
		if path.Ext(file) != ".yaml" {
			return
		}
		name := strings.TrimSuffix(path.Base(file), ".yaml")
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	if matches, err := fs.Glob(PrefabsFS, "levels/*.yaml"); err == nil {
		for _, m := range matches {
			add(m)
		}
	}
	if entries, err := os.ReadDir(filepath.Join(Root, "levels")); err == nil {
		for _, e := range entries {
			if !e.IsDir() {
				add(e.Name())
			}
		}
	}
	slices.Sort(names)
	return names
}

func cleanPrefabPath(p string) string {
	if p == "" {
		return ""
	}
	s, _ := strings.CutPrefix(filepath.ToSlash(p), Root+"/")
	return s
}

func cleanScriptPath(p string) string {
	if p == "" {
		return ""
	}
	s := filepath.ToSlash(p)
	for _, prefix := range []string{Root + "/", "scripts/"} {
		s, _ = strings.CutPrefix(s, prefix)
	}
	if path.Ext(s) != ".tengo" {
		s += ".tengo"
	}
	return "scripts/" + s
}
