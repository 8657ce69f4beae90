package player

// defaultFilters maps filter names to ffmpeg audio-filter arguments. The
// queue keeps an ordered list of active names; the stream builder receives
// the resolved arguments in that order.
var defaultFilters = map[string]string{
	"3d":         "apulsator=hz=0.128",
	"bassboost":  "bass=g=10",
	"echo":       "aecho=0.8:0.9:1000:0.3",
	"flanger":    "flanger",
	"gate":       "agate",
	"haas":       "haas",
	"karaoke":    "stereotools=mlev=0.1",
	"nightcore":  "asetrate=48000*1.25,aresample=48000,bass=g=5",
	"reverse":    "areverse",
	"vaporwave":  "asetrate=48000*0.8,aresample=48000,atempo=1.1",
	"mcompand":   "mcompand",
	"phaser":     "aphaser",
	"tremolo":    "tremolo",
	"surround":   "surround",
	"earwax":     "earwax",
	"normalizer": "dynaudnorm=g=101",
}

// FilterArg returns the ffmpeg argument for a known filter name.
func FilterArg(name string) (string, bool) {
	arg, ok := defaultFilters[name]
	return arg, ok
}

// FilterArgs resolves an ordered list of filter names, skipping unknown
// names.
func FilterArgs(names []string) []string {
	args := make([]string, 0, len(names))
	for _, name := range names {
		if arg, ok := defaultFilters[name]; ok {
			args = append(args, arg)
		}
	}
	return args
}
