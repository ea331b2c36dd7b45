package embedded

import (
	_ "embed"
)

// Embed all catalog data files
//
//go:embed data/core_data/story_arcs.json
var StoryArcsJSON []byte

//go:embed data/core_data/tone_lexicons.json
var ToneLexiconsJSON []byte

//go:embed data/core_data/poster_palettes.json
var PosterPalettesJSON []byte

//go:embed data/core_data/soundtracks.json
var SoundtracksJSON []byte

//go:embed data/core_data/story_templates.json
var StoryTemplatesJSON []byte
