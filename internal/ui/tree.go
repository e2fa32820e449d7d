package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/thomas-vilte/prtriage/internal/models"
)

type treeNode struct {
	name     string
	isFile   bool
	change   *models.ChangedFile
	children map[string]*treeNode
}

// ShowFilesTree prints the changed files of a pull request as a directory tree.
func ShowFilesTree(w io.Writer, files []models.ChangedFile, header string) {
	if len(files) == 0 {
		return
	}

	_, _ = fmt.Fprintf(w, "\n%s\n", header)
	printTree(w, buildFileTree(files), "", true)
}

func buildFileTree(files []models.ChangedFile) *treeNode {
	root := &treeNode{children: make(map[string]*treeNode)}

	for i := range files {
		parts := strings.Split(files[i].Path, "/")
		current := root

		for j, part := range parts {
			isFile := j == len(parts)-1
			if current.children[part] == nil {
				current.children[part] = &treeNode{
					name:     part,
					isFile:   isFile,
					children: make(map[string]*treeNode),
				}
				if isFile {
					current.children[part].change = &files[i]
				}
			}
			current = current.children[part]
		}
	}
	return root
}

func printTree(w io.Writer, node *treeNode, prefix string, isLast bool) {
	if node.name != "" {
		connector := "├── "
		if isLast {
			connector = "└── "
		}

		name := node.name
		if !node.isFile {
			name = Info.Sprint(name + "/")
		}

		stats := ""
		if node.isFile && node.change != nil {
			statsColor := color.New(color.FgGreen)
			if node.change.Deletions > node.change.Additions {
				statsColor = color.New(color.FgRed)
			}
			stats = statsColor.Sprintf(" (+%d, -%d)", node.change.Additions, node.change.Deletions)
			if node.change.ChangeType != models.ChangeModified && node.change.ChangeType != "" {
				stats += Dim.Sprintf(" [%s]", node.change.ChangeType)
			}
		}

		_, _ = fmt.Fprintf(w, "%s%s%s%s\n", prefix, connector, name, stats)
	}

	childPrefix := prefix
	if node.name != "" {
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	}

	keys := sortedChildren(node.children)
	for i, key := range keys {
		printTree(w, node.children[key], childPrefix, i == len(keys)-1)
	}
}

// sortedChildren puts directories first, then files, each alphabetically.
func sortedChildren(nodes map[string]*treeNode) []string {
	keys := make([]string, 0, len(nodes))
	for k := range nodes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := nodes[keys[i]], nodes[keys[j]]
		if a.isFile != b.isFile {
			return !a.isFile
		}
		return keys[i] < keys[j]
	})
	return keys
}
