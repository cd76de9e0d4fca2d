// Package testutil provides tree fixtures shared by the package tests.
package testutil

import "github.com/vanderheijden86/treeview/pkg/tree"

// MockTree returns the reference tree used across the navigation tests:
//
//	/
//	├── a
//	│   ├── aA {aA0 aA1 aA2}
//	│   ├── aB {aB0 aB1 aB2}
//	│   └── aC {aC0}
//	├── b
//	│   ├── bA {bA0 {bA0!} bA1 bA2}
//	│   └── bB {bB0 .. bB5}
//	└── c
//	    └── cA {cA0 cA1 cA2}
func MockTree() *tree.Tree {
	leaf := tree.NewLabelNode
	return tree.New(
		leaf("/", "/").
			WithChild(
				leaf("a", "a").
					WithChild(leaf("aA", "aA").
						WithChild(leaf("aA0", "aA0")).
						WithChild(leaf("aA1", "aA1")).
						WithChild(leaf("aA2", "aA2"))).
					WithChild(leaf("aB", "aB").
						WithChild(leaf("aB0", "aB0")).
						WithChild(leaf("aB1", "aB1")).
						WithChild(leaf("aB2", "aB2"))).
					WithChild(leaf("aC", "aC").
						WithChild(leaf("aC0", "aC0"))),
			).
			WithChild(
				leaf("b", "b").
					WithChild(leaf("bA", "bA").
						WithChild(leaf("bA0", "bA0").
							WithChild(leaf("bA0!", "bA0!"))).
						WithChild(leaf("bA1", "bA1")).
						WithChild(leaf("bA2", "bA2"))).
					WithChild(leaf("bB", "bB").
						WithChild(leaf("bB0", "bB0")).
						WithChild(leaf("bB1", "bB1")).
						WithChild(leaf("bB2", "bB2")).
						WithChild(leaf("bB3", "bB3")).
						WithChild(leaf("bB4", "bB4")).
						WithChild(leaf("bB5", "bB5"))),
			).
			WithChild(
				leaf("c", "c").
					WithChild(leaf("cA", "cA").
						WithChild(leaf("cA0", "cA0")).
						WithChild(leaf("cA1", "cA1")).
						WithChild(leaf("cA2", "cA2"))),
			),
	)
}

// FilesystemTree returns a small directory-shaped tree:
//
//	/
//	├── bin {ls pwd}
//	└── home
//	    └── omar {readme.md changelog.md}
func FilesystemTree() *tree.Tree {
	leaf := tree.NewLabelNode
	return tree.New(
		leaf("/", "/").
			WithChild(leaf("/bin", "bin").
				WithChild(leaf("/bin/ls", "ls")).
				WithChild(leaf("/bin/pwd", "pwd"))).
			WithChild(leaf("/home", "home").
				WithChild(leaf("/home/omar", "omar").
					WithChild(leaf("/home/omar/readme.md", "readme.md")).
					WithChild(leaf("/home/omar/changelog.md", "changelog.md")))),
	)
}

// IDs lists the ids of a tree in pre-order.
func IDs(t *tree.Tree) []string {
	var ids []string
	t.Walk(func(n *tree.Node, _ int) bool {
		ids = append(ids, n.ID())
		return true
	})
	return ids
}
