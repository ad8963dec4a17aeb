package planner

import (
	"strings"

	"github.com/backmassage/vidshrink/internal/probe"
)

// ShouldTranscode reports whether a video stream with the given codec name
// needs re-encoding. Codec names containing "265" or equal to "hevc" are
// already in the target family. Both checks are case-sensitive; anything
// else, including other HEVC spellings, is transcoded.
func ShouldTranscode(codec string) bool {
	if strings.Contains(codec, "265") || codec == "hevc" {
		return false
	}
	return true
}

// Decide applies [ShouldTranscode] to the primary video stream.
func Decide(video *probe.Stream) Decision {
	if !ShouldTranscode(video.Codec) {
		return Decision{
			Action: ActionSkip,
			Codec:  video.Codec,
			Reason: "already HEVC (" + video.Codec + ")",
		}
	}
	return Decision{
		Action: ActionEncode,
		Codec:  video.Codec,
		Reason: video.Codec + " -> hevc",
	}
}
