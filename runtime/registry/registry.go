// Package registry stores command signatures and loads them from signature
// files.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aledsdavies/callbind/core/invariant"
	"github.com/aledsdavies/callbind/core/types"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/unicode/norm"
)

// maxSuggestions caps "did you mean" lists
const maxSuggestions = 3

// Registry maps command names to signatures. It is safe for concurrent use;
// a watcher may replace the contents while bindings read from it.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]*types.Signature
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		commands: make(map[string]*types.Signature),
	}
}

// NewWithBuiltins creates a registry holding the builtin command set
func NewWithBuiltins() *Registry {
	r := New()
	for _, sig := range Builtins() {
		if err := r.Register(sig); err != nil {
			// Builtins are static; a bad one is a programming error
			invariant.Invariant(false, "builtin %s: %v", sig.Name, err)
		}
	}
	return r
}

// Register validates sig and stores it under its name, replacing any
// previous signature with the same name.
func (r *Registry) Register(sig *types.Signature) error {
	invariant.NotNil(sig, "signature")
	if err := sig.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[key(sig.Name)] = sig
	return nil
}

// Replace swaps the whole contents for sigs. Nothing changes when any
// signature is invalid.
func (r *Registry) Replace(sigs []*types.Signature) error {
	next := make(map[string]*types.Signature, len(sigs))
	for _, sig := range sigs {
		invariant.NotNil(sig, "signature")
		if err := sig.Validate(); err != nil {
			return err
		}
		next[key(sig.Name)] = sig
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = next
	return nil
}

// Get returns the signature registered for name
func (r *Registry) Get(name string) (*types.Signature, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sig, ok := r.commands[key(name)]
	return sig, ok
}

// Len returns the number of registered commands
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// Names returns the registered command names sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.commands))
	for _, sig := range r.commands {
		names = append(names, sig.Name)
	}
	sort.Strings(names)
	return names
}

// Signatures returns the registered signatures ordered by name
func (r *Registry) Signatures() []*types.Signature {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*types.Signature, 0, len(names))
	for _, name := range names {
		if sig, ok := r.commands[key(name)]; ok {
			out = append(out, sig)
		}
	}
	return out
}

// Suggest returns up to three registered names that look like name, best
// first. Subsequence matches (e.g. "srt" for "sort-by") rank ahead of
// near-misspellings.
func (r *Registry) Suggest(name string) []string {
	candidates := r.Names()
	if len(candidates) == 0 || name == "" {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		if !seen[s] && len(out) < maxSuggestions {
			seen[s] = true
			out = append(out, s)
		}
	}

	ranks := fuzzy.RankFindFold(name, candidates)
	sort.Sort(ranks)
	for _, rank := range ranks {
		add(rank.Target)
	}

	type near struct {
		name string
		dist int
	}
	var nearby []near
	for _, candidate := range candidates {
		if d := fuzzy.LevenshteinDistance(name, candidate); d <= 2 {
			nearby = append(nearby, near{candidate, d})
		}
	}
	sort.SliceStable(nearby, func(i, j int) bool { return nearby[i].dist < nearby[j].dist })
	for _, c := range nearby {
		add(c.name)
	}

	return out
}

// key normalises a command name so precomposed and decomposed spellings
// resolve to the same entry
func key(name string) string {
	return norm.NFC.String(name)
}

// String implements fmt.Stringer for debugging
func (r *Registry) String() string {
	return fmt.Sprintf("registry(%d commands)", r.Len())
}
