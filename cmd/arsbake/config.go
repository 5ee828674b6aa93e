package main

import (
	"fmt"
	"os"

	"github.com/QEStudios/ArsBaker/baker"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"
)

type flags struct {
	song       int
	noLoop     bool
	overlap    float64
	fade       float64
	startOrder int
	headphones bool
	maxFrames  int

	output string
	play   bool
	trace  bool
	dump   bool
	config string
	list   bool
}

func (f *flags) register(fs *pflag.FlagSet) {
	def := baker.DefaultOptions()

	fs.IntVarP(&f.song, "song", "s", 0, "song index")
	fs.BoolVar(&f.noLoop, "no-loop", !def.Loop, "play the song once instead of looking for a loop")
	fs.Float64Var(&f.overlap, "overlap", def.LoopOverlapTime, "seconds rendered past the loop point")
	fs.Float64Var(&f.fade, "fade", def.LoopFadeTime, "seconds of fade out after the loop")
	fs.IntVar(&f.startOrder, "start-order", def.StartOrder, "order to start playback at")
	fs.BoolVar(&f.headphones, "headphones", def.Headphones, "enable the headphone filter")
	fs.IntVar(&f.maxFrames, "max-frames", def.MaxFrames, "give up after this many frames (0 for no limit)")

	fs.StringVarP(&f.output, "output", "o", "", "output WAV path (default: next to the module)")
	fs.BoolVar(&f.play, "play", false, "play the result after baking")
	fs.BoolVar(&f.trace, "trace", false, "print every chip register write")
	fs.BoolVar(&f.dump, "dump", false, "dump the parsed module")
	fs.StringVarP(&f.config, "config", "c", "", "YAML file of bake options")
	fs.BoolVar(&f.list, "list", false, "list the songs in the module and exit")
}

// apply copies the bake flags the user set explicitly over opts, so that
// they take precedence over a config file.
func (f *flags) apply(fs *pflag.FlagSet, opts *baker.Options) {
	if fs.Changed("no-loop") {
		opts.Loop = !f.noLoop
	}
	if fs.Changed("overlap") {
		opts.LoopOverlapTime = f.overlap
	}
	if fs.Changed("fade") {
		opts.LoopFadeTime = f.fade
	}
	if fs.Changed("start-order") {
		opts.StartOrder = f.startOrder
	}
	if fs.Changed("headphones") {
		opts.Headphones = f.headphones
	}
	if fs.Changed("max-frames") {
		opts.MaxFrames = f.maxFrames
	}
}

// loadOptions reads bake options from a YAML file. Options the file leaves
// out keep their defaults. An empty path returns the defaults.
func loadOptions(path string) (baker.Options, error) {
	opts := baker.DefaultOptions()
	if path == "" {
		return opts, nil
	}

	path, err := homedir.Expand(path)
	if err != nil {
		return opts, fmt.Errorf("cannot expand path: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("error reading options: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, &opts); err != nil {
		return opts, fmt.Errorf("error decoding options: %w", err)
	}
	return opts, nil
}
