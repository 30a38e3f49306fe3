package common

import "github.com/diamondburned/arikawa/v3/discord"

// Embed colours used across all modules.
const (
	ColourFail    discord.Color = 0xc23616
	ColourSuccess discord.Color = 0x27ae60
	ColourWarn    discord.Color = 0xf1c40f
	ColourSelect  discord.Color = 0x006266
	ColourBlurple discord.Color = 0x5865f2
)
