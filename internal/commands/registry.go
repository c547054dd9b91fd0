package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// DefaultCommand runs when no command name is given.
const DefaultCommand = "list"

// ErrUnknownCommand is returned by Resolve for names nobody registered.
var ErrUnknownCommand = errors.New("unknown command")

// Registry maps command names and aliases to commands.
type Registry struct {
	mu   sync.RWMutex
	cmds map[string]Command
}

func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]Command)}
}

// Register adds c under its name and aliases. Any clash with an existing
// key is an error and leaves the registry unchanged.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := append([]string{c.Name()}, c.Aliases()...)
	for _, key := range keys {
		if _, taken := r.cmds[key]; taken {
			return fmt.Errorf("command name or alias taken: %s", key)
		}
	}
	for _, key := range keys {
		r.cmds[key] = c
	}
	return nil
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.cmds[name]
	return cmd, ok
}

// Resolve picks the command named by args[0] and returns it with the
// remaining arguments. Empty args select DefaultCommand. A leading flag is
// not a command name: flags follow the command.
func (r *Registry) Resolve(args []string) (Command, []string, error) {
	if len(args) == 0 {
		args = []string{DefaultCommand}
	}
	name := args[0]
	if strings.HasPrefix(name, "-") {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	cmd, ok := r.Find(name)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return cmd, args[1:], nil
}

// All returns each command once, ordered by name. Aliases are not listed.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var cmds []Command
	for key, cmd := range r.cmds {
		if key == cmd.Name() {
			cmds = append(cmds, cmd)
		}
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name() < cmds[j].Name() })
	return cmds
}

// DefaultRegistry holds the commands registered by init functions.
var DefaultRegistry = NewRegistry()

// Register adds c to DefaultRegistry and panics on a name clash.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
