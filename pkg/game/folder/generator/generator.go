package generator

import "patchwork.dev/launcher/pkg/game/folder/shared"

// NOTE: A generator build the game

type Generator interface {
	Generate(debug bool, pCb shared.ProgressCallback)
}
