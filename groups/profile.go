// Package groups persists the shown/hidden state of inspector toggle
// sections. Each record is keyed by a group label and the owning type
// name, encoded as "<label>§<owner>" in the serialized profile.
//
// State lives in an explicitly passed Profile with a defined load/save
// lifecycle, owned by the host session; there is no process-wide
// current-profile singleton.
package groups

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Separator joins the group label and the owning type name in encoded
// keys. It is reserved: labels and owners containing it are malformed.
const Separator = "§"

// Profile errors
var (
	ErrReservedSeparator = errors.New("label or owner contains reserved separator")
	ErrEmptyKey          = errors.New("label and owner must be non-empty")
	ErrMalformedKey      = errors.New("malformed profile key")
)

// Key identifies one toggle section: a group label scoped to the type
// whose inspector it appears in.
type Key struct {
	Label string
	Owner string
}

// NewKey validates and builds a key. The reserved separator may appear
// in neither part.
func NewKey(label, owner string) (Key, error) {
	if label == "" || owner == "" {
		return Key{}, ErrEmptyKey
	}
	if strings.Contains(label, Separator) || strings.Contains(owner, Separator) {
		return Key{}, fmt.Errorf("%w: %q/%q", ErrReservedSeparator, label, owner)
	}
	return Key{Label: label, Owner: owner}, nil
}

// String returns the encoded "<label>§<owner>" form.
func (k Key) String() string {
	return k.Label + Separator + k.Owner
}

func parseKey(s string) (Key, error) {
	label, owner, found := strings.Cut(s, Separator)
	if !found {
		return Key{}, fmt.Errorf("%w: %q", ErrMalformedKey, s)
	}
	return NewKey(label, owner)
}

// ProfileOption configures a Profile.
type ProfileOption func(*Profile)

// WithCodec selects the serialization codec. Default YAML.
func WithCodec(codec Codec) ProfileOption {
	return func(p *Profile) { p.codec = codec }
}

// WithLogger sets the logger for absorbed load/save problems.
func WithLogger(logger logger) ProfileOption {
	return func(p *Profile) { p.logger = logger }
}

// logger is the structured key-value logging surface the profile needs.
// It matches autobind.Logger, so one logger serves both.
type logger interface {
	Warn(msg string, args ...any)
	Debug(msg string, args ...any)
}

// Profile holds the persisted visibility of toggle sections for one
// host session. Sections default to shown; only explicit state is
// stored. Safe for concurrent use.
type Profile struct {
	mu      sync.RWMutex
	path    string
	codec   Codec
	logger  logger
	visible map[Key]bool
	dirty   bool
}

// NewProfile creates an empty profile backed by the file at path. Call
// Load to pick up previously saved state.
func NewProfile(path string, opts ...ProfileOption) *Profile {
	p := &Profile{
		path:    path,
		codec:   YAMLCodec{},
		logger:  nopLogger{},
		visible: make(map[Key]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Path returns the backing file path.
func (p *Profile) Path() string { return p.path }

// Shown reports whether the section is expanded. Sections without
// recorded state are shown.
func (p *Profile) Shown(label, owner string) bool {
	key, err := NewKey(label, owner)
	if err != nil {
		return true
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if shown, ok := p.visible[key]; ok {
		return shown
	}
	return true
}

// SetShown records the section's visibility.
func (p *Profile) SetShown(label, owner string, shown bool) error {
	key, err := NewKey(label, owner)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible[key] = shown
	p.dirty = true
	return nil
}

// Toggle flips the section's visibility and returns the new state.
func (p *Profile) Toggle(label, owner string) (bool, error) {
	key, err := NewKey(label, owner)
	if err != nil {
		return false, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	shown, ok := p.visible[key]
	if !ok {
		shown = true
	}
	p.visible[key] = !shown
	p.dirty = true
	return !shown, nil
}

// Dirty reports whether in-memory state diverges from the last
// load/save.
func (p *Profile) Dirty() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dirty
}

// Snapshot returns the recorded visibility in encoded-key form.
func (p *Profile) Snapshot() map[string]bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make(map[string]bool, len(p.visible))
	for key, shown := range p.visible {
		out[key.String()] = shown
	}
	return out
}

// Load replaces in-memory state with the backing file's contents. A
// missing file loads as an empty profile. Malformed keys in the file
// are logged and skipped, never fatal.
func (p *Profile) Load() error {
	raw, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		p.mu.Lock()
		p.visible = make(map[Key]bool)
		p.dirty = false
		p.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read profile %s: %w", p.path, err)
	}

	var encoded map[string]bool
	if err := p.codec.Unmarshal(raw, &encoded); err != nil {
		return fmt.Errorf("failed to decode profile %s: %w", p.path, err)
	}

	visible := make(map[Key]bool, len(encoded))
	for s, shown := range encoded {
		key, err := parseKey(s)
		if err != nil {
			p.logger.Warn("skipping malformed profile entry", "key", s, "error", err)
			continue
		}
		visible[key] = shown
	}

	p.mu.Lock()
	p.visible = visible
	p.dirty = false
	p.mu.Unlock()

	p.logger.Debug("profile loaded", "path", p.path, "entries", len(visible))
	return nil
}

// Save writes the current state to the backing file and clears the
// dirty flag.
func (p *Profile) Save() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	encoded := make(map[string]bool, len(p.visible))
	for key, shown := range p.visible {
		encoded[key.String()] = shown
	}

	raw, err := p.codec.Marshal(encoded)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if err := os.WriteFile(p.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write profile %s: %w", p.path, err)
	}

	p.dirty = false
	p.logger.Debug("profile saved", "path", p.path, "entries", len(encoded))
	return nil
}

// Flush saves only when the profile is dirty.
func (p *Profile) Flush() error {
	if !p.Dirty() {
		return nil
	}
	return p.Save()
}

type nopLogger struct{}

func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
