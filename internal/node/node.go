package node

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"
)

// ErrNoName indicates a file whose header declares no node name. Callers
// skip such files rather than failing the build.
var ErrNoName = errors.New("no name defined in file header")

// HeaderError reports a malformed file header that cannot be skipped.
type HeaderError struct {
	Path   string
	Detail string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("invalid file header in %s: %s", e.Path, e.Detail)
}

// Node is one concatenation input: a file plus the metadata declared in
// its leading comment header.
type Node struct {
	Name     string
	Path     string
	Layer    string
	Requires []string
	Exists   []string
}

func (n *Node) String() string {
	return n.Name
}

// Parser extracts Nodes from file headers according to the configured
// comment prefix and layer set.
type Parser struct {
	CommentPrefix string
	Layers        []string
	FallbackLayer string
}

// ParseFile reads the leading comment header of the file at path.
// Files without a name directive yield ErrNoName.
func (p *Parser) ParseFile(path string) (*Node, error) {
	header, err := readHeader(path, p.CommentPrefix)
	if err != nil {
		return nil, err
	}
	return p.parse(path, header)
}

// readHeader collects the leading lines that start with the comment
// prefix. Empty lines are tolerated inside the header region but
// discarded; the first line that is neither empty nor a comment ends
// the region.
func readHeader(path, commentPrefix string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var header []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, commentPrefix) {
			break
		}
		header = append(header, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return header, nil
}

func (p *Parser) parse(path string, header []string) (*Node, error) {
	namePrefix := p.CommentPrefix + " name:"
	requiresPrefix := p.CommentPrefix + " requires:"
	droppedPrefix := p.CommentPrefix + " dropped_by:"
	layerPrefix := p.CommentPrefix + " layer:"
	initialPrefix := p.CommentPrefix + " is_initial"
	finalPrefix := p.CommentPrefix + " is_final"
	existsPrefix := p.CommentPrefix + " exists:"

	var name string
	layer := p.FallbackLayer
	requires := make(map[string]bool)
	exists := make(map[string]bool)

	for _, raw := range header {
		line := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case strings.HasPrefix(line, namePrefix):
			declared := strings.TrimSpace(line[len(namePrefix):])
			if name != "" {
				return nil, &HeaderError{
					Path:   path,
					Detail: fmt.Sprintf("too many names declared: %s, %s", name, declared),
				}
			}
			name = declared
		case strings.HasPrefix(line, requiresPrefix):
			for _, dep := range splitList(line[len(requiresPrefix):]) {
				requires[dep] = true
			}
		case strings.HasPrefix(line, droppedPrefix):
			// dropped_by entries order this node after its dropper, so
			// they land in the same dependency set as requires.
			for _, dep := range splitList(line[len(droppedPrefix):]) {
				requires[dep] = true
			}
		case strings.HasPrefix(line, layerPrefix):
			if declared := strings.TrimSpace(line[len(layerPrefix):]); declared != "" {
				layer = declared
			}
		case strings.HasPrefix(line, initialPrefix):
			// Legacy header form predating named layers.
			layer = "prepend"
		case strings.HasPrefix(line, finalPrefix):
			layer = "append"
		case strings.HasPrefix(line, existsPrefix):
			for _, target := range splitList(line[len(existsPrefix):]) {
				exists[target] = true
			}
		}
	}

	if name == "" {
		return nil, ErrNoName
	}
	if !containsString(p.Layers, layer) {
		return nil, &HeaderError{
			Path:   path,
			Detail: fmt.Sprintf("layer %q is not one of the configured layers %v", layer, p.Layers),
		}
	}

	return &Node{
		Name:     name,
		Path:     path,
		Layer:    layer,
		Requires: sortedKeys(requires),
		Exists:   sortedKeys(exists),
	}, nil
}

// splitList breaks a directive value on whitespace and commas,
// dropping empty items.
func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func containsString(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}
