// Package resources embeds the static definition data: rule tables, rule
// glosses, idioms, annotation cues and the pronunciation dictionary.
package resources

import (
	"embed"
	"io/fs"
)

const (
	MainTable    = "main.tsv"
	SpecialTable = "special.tsv"
	LinkTable    = "link.tsv"
	Glosses      = "rules.txt"
	Idioms       = "idioms.txt"
	Cues         = "cues.yaml"
	Dictionary   = "cmudict.txt"
)

// Files lists every file a data directory must provide.
var Files = []string{MainTable, SpecialTable, LinkTable, Glosses, Idioms, Cues, Dictionary}

//go:embed data/*
var data embed.FS

// FS returns the embedded data with file names at the root.
func FS() fs.FS {
	sub, err := fs.Sub(data, "data")
	if err != nil {
		// unreachable: the directory is embedded at build time
		panic(err)
	}
	return sub
}
