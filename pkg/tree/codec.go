package tree

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Document is the nested, human-editable form of a tree used by the JSON and
// YAML codecs. Only label text is kept; span styles are not serialized.
type Document struct {
	ID       string     `json:"id" yaml:"id"`
	Label    string     `json:"label,omitempty" yaml:"label,omitempty"`
	Children []Document `json:"children,omitempty" yaml:"children,omitempty"`
}

// ToDocument converts a tree into its nested document form.
func ToDocument(t *Tree) Document {
	return nodeDocument(t.root)
}

func nodeDocument(n *Node) Document {
	doc := Document{ID: n.id}
	if label := n.Label(); label != n.id {
		doc.Label = label
	}
	if len(n.children) > 0 {
		doc.Children = make([]Document, len(n.children))
		for i, c := range n.children {
			doc.Children[i] = nodeDocument(c)
		}
	}
	return doc
}

// FromDocument builds a tree from a document. An empty label falls back to the id.
func FromDocument(doc Document) (*Tree, error) {
	if doc.ID == "" {
		return nil, ErrEmpty
	}
	type frame struct {
		doc  *Document
		node *Node
	}
	root := documentNode(&doc)
	stack := []frame{{&doc, root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for i := range f.doc.Children {
			child := &f.doc.Children[i]
			if child.ID == "" {
				return nil, fmt.Errorf("child %d of %q: missing id", i, f.doc.ID)
			}
			node := documentNode(child)
			f.node.AddChild(node)
			stack = append(stack, frame{child, node})
		}
	}
	return New(root), nil
}

func documentNode(doc *Document) *Node {
	label := doc.Label
	if label == "" {
		label = doc.ID
	}
	return NewLabelNode(doc.ID, label)
}

// EncodeJSON writes the tree as an indented JSON document.
func EncodeJSON(w io.Writer, t *Tree) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToDocument(t)); err != nil {
		return fmt.Errorf("encoding tree as json: %w", err)
	}
	return nil
}

// DecodeJSON reads a JSON document.
func DecodeJSON(r io.Reader) (*Tree, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding json tree: %w", err)
	}
	return FromDocument(doc)
}

// EncodeYAML writes the tree as a YAML document.
func EncodeYAML(w io.Writer, t *Tree) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ToDocument(t)); err != nil {
		return fmt.Errorf("encoding tree as yaml: %w", err)
	}
	return enc.Close()
}

// DecodeYAML reads a YAML document.
func DecodeYAML(r io.Reader) (*Tree, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding yaml tree: %w", err)
	}
	return FromDocument(doc)
}

// EncodeRecords writes one JSON record per line.
func EncodeRecords(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding record %q: %w", r.ID, err)
		}
	}
	return nil
}

// DecodeRecords reads JSON lines written by EncodeRecords. Blank lines are skipped.
func DecodeRecords(r io.Reader) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}
	return records, nil
}

// ReadFile loads a tree from a .json or .yaml/.yml document, or from a
// .jsonl file of records in any order.
func ReadFile(path string) (*Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return DecodeJSON(f)
	case ".yaml", ".yml":
		return DecodeYAML(f)
	case ".jsonl":
		records, err := DecodeRecords(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return Assemble(records)
	default:
		return nil, fmt.Errorf("%s: unsupported tree file extension %q", path, ext)
	}
}
