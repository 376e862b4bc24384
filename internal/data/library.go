// Package data loads design data: effect and spell definitions, creatures and
// presentation scripts. Content is YAML, with scripts as plain .seq files.
package data

import (
	"context"
	"embed"
	"io/fs"
	"log"
	"os"
	"path"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/battle-engine/internal/domain/combatant"
	"github.com/KirkDiggler/battle-engine/internal/domain/effects"
	"github.com/KirkDiggler/battle-engine/internal/domain/spells"
	"github.com/KirkDiggler/battle-engine/internal/domain/stats"
	apperr "github.com/KirkDiggler/battle-engine/internal/errors"
	"github.com/KirkDiggler/battle-engine/internal/sequence"
)

// File names inside a data directory
const (
	EffectsFile   = "effects.yaml"
	SpellsFile    = "spells.yaml"
	CreaturesFile = "creatures.yaml"
	ScriptsGlob   = "scripts/*.seq"
)

//go:embed defaults
var defaults embed.FS

// Creature is a template for entities
type Creature struct {
	Name   string     `yaml:"name"`
	Stats  stats.Base `yaml:"stats"`
	Spells []string   `yaml:"spells"`
}

// Library holds linked design data. It is read-only once loaded.
type Library struct {
	effects   map[string]*effects.Definition
	spells    map[string]*spells.Definition
	creatures map[string]*Creature
	scripts   map[string]string
}

// Default loads the content embedded in the binary
func Default() (*Library, error) {
	sub, err := fs.Sub(defaults, "defaults")
	if err != nil {
		return nil, apperr.Wrap(err, "failed to open embedded data")
	}
	return LoadFS(context.Background(), sub)
}

// Load reads a data directory from disk
func Load(ctx context.Context, dir string) (*Library, error) {
	return LoadFS(ctx, os.DirFS(dir))
}

// LoadFS reads every data file of fsys concurrently, then validates and links them
func LoadFS(ctx context.Context, fsys fs.FS) (*Library, error) {
	var (
		effectDefs []*effects.Definition
		spellDefs  []*spells.Definition
		creatures  []*Creature
		scripts    map[string]string
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { return decodeFile(fsys, EffectsFile, &effectDefs) })
	g.Go(func() error { return decodeFile(fsys, SpellsFile, &spellDefs) })
	g.Go(func() error { return decodeFile(fsys, CreaturesFile, &creatures) })
	g.Go(func() error {
		var err error
		scripts, err = readScripts(fsys)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	lib := &Library{
		effects:   make(map[string]*effects.Definition, len(effectDefs)),
		spells:    make(map[string]*spells.Definition, len(spellDefs)),
		creatures: make(map[string]*Creature, len(creatures)),
		scripts:   scripts,
	}
	if err := lib.index(effectDefs, spellDefs, creatures); err != nil {
		return nil, err
	}
	if err := lib.link(); err != nil {
		return nil, err
	}
	lib.checkScripts()

	log.Printf("[DATA] Loaded %d effects, %d spells, %d creatures, %d scripts",
		len(lib.effects), len(lib.spells), len(lib.creatures), len(lib.scripts))
	return lib, nil
}

func decodeFile(fsys fs.FS, name string, out any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return apperr.Wrapf(err, "failed to read %s", name)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return apperr.WrapWithCode(err, apperr.CodeValidation, "failed to parse "+name)
	}
	return nil
}

func readScripts(fsys fs.FS) (map[string]string, error) {
	files, err := fs.Glob(fsys, ScriptsGlob)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to list scripts")
	}

	scripts := make(map[string]string, len(files))
	for _, file := range files {
		raw, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, apperr.Wrapf(err, "failed to read %s", file)
		}
		scripts[strings.TrimSuffix(path.Base(file), ".seq")] = string(raw)
	}
	return scripts, nil
}

func (l *Library) index(effectDefs []*effects.Definition, spellDefs []*spells.Definition, creatures []*Creature) error {
	for _, def := range effectDefs {
		if err := def.Validate(); err != nil {
			return err
		}
		if _, dup := l.effects[def.Name]; dup {
			return apperr.AlreadyExistsf("effect %s defined twice", def.Name)
		}
		l.effects[def.Name] = def
	}

	for _, def := range spellDefs {
		if err := def.Validate(); err != nil {
			return err
		}
		if _, dup := l.spells[def.Name]; dup {
			return apperr.AlreadyExistsf("spell %s defined twice", def.Name)
		}
		l.spells[def.Name] = def
	}

	for _, c := range creatures {
		if c.Name == "" {
			return apperr.Validation("creature name is required")
		}
		if _, dup := l.creatures[c.Name]; dup {
			return apperr.AlreadyExistsf("creature %s defined twice", c.Name)
		}
		l.creatures[c.Name] = c
	}
	return nil
}

// link resolves every name reference between definitions
func (l *Library) link() error {
	for _, def := range l.effects {
		for hook, ops := range def.Hooks {
			for _, op := range ops {
				if op.Effect == "" {
					continue
				}
				if _, ok := l.effects[op.Effect]; !ok {
					return apperr.NotFoundf("effect %s: %s references unknown effect %s", def.Name, hook, op.Effect)
				}
			}
		}
	}

	for _, def := range l.spells {
		if err := def.Link(l.Effect); err != nil {
			return err
		}
	}

	for _, c := range l.creatures {
		for _, name := range c.Spells {
			if _, ok := l.spells[name]; !ok {
				return apperr.NotFoundf("creature %s: unknown spell %s", c.Name, name)
			}
		}
	}
	return nil
}

// checkScripts logs scripts that are malformed or referenced but missing.
// Neither is fatal: a bad script plays as an empty sequence.
func (l *Library) checkScripts() {
	for name, src := range l.scripts {
		if _, err := sequence.Parse(name, src); err != nil {
			log.Printf("[DATA] %v", err)
		}
	}

	for _, def := range l.spells {
		if def.Sequence != "" && !l.hasScript(def.Sequence) {
			log.Printf("[DATA] spell %s: missing script %s", def.Name, def.Sequence)
		}
	}
	for _, def := range l.effects {
		for _, ops := range def.Hooks {
			for _, op := range ops {
				if op.Code == effects.OpPlaySequence && !l.hasScript(op.Script) {
					log.Printf("[DATA] effect %s: missing script %s", def.Name, op.Script)
				}
			}
		}
	}
}

func (l *Library) hasScript(name string) bool {
	_, ok := l.scripts[name]
	return ok
}

// Effect implements effects.Library
func (l *Library) Effect(name string) (*effects.Definition, bool) {
	def, ok := l.effects[name]
	return def, ok
}

// Spell returns a spell definition by name
func (l *Library) Spell(name string) (*spells.Definition, bool) {
	def, ok := l.spells[name]
	return def, ok
}

// Creature returns a creature template by name
func (l *Library) Creature(name string) (*Creature, bool) {
	c, ok := l.creatures[name]
	return c, ok
}

// Script implements sequence.ScriptSource
func (l *Library) Script(name string) (string, bool) {
	src, ok := l.scripts[name]
	return src, ok
}

// CreatureNames returns every creature name, sorted
func (l *Library) CreatureNames() []string {
	return sortedKeys(l.creatures)
}

// SpellNames returns every spell name, sorted
func (l *Library) SpellNames() []string {
	return sortedKeys(l.spells)
}

// EntityOptions customizes an entity built from a creature
type EntityOptions struct {
	ID      string
	Name    string
	Side    combatant.Side
	Control combatant.Control
	Level   int
}

// NewEntity builds an entity from the named creature. Name defaults to the creature's.
func (l *Library) NewEntity(creature string, opts EntityOptions) (*combatant.Entity, error) {
	c, ok := l.creatures[creature]
	if !ok {
		return nil, apperr.NotFoundf("creature %s not found", creature)
	}

	known := make([]*spells.Definition, 0, len(c.Spells))
	for _, name := range c.Spells {
		known = append(known, l.spells[name])
	}

	name := opts.Name
	if name == "" {
		name = c.Name
	}

	return combatant.New(&combatant.Config{
		ID:      opts.ID,
		Name:    name,
		Side:    opts.Side,
		Control: opts.Control,
		Raw:     c.Stats,
		Level:   opts.Level,
		Spells:  known,
	}), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
