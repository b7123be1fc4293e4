// Package sample embeds a small set of actor and level definitions used by
// the CLI's --sample flag.
package sample

import "embed"

//go:embed ActorDef/* Level/*
var FS embed.FS

// Directories inside FS.
const (
	ActorDir = "ActorDef"
	LevelDir = "Level"
)
