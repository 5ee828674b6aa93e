package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/QEStudios/ArsBaker/baker"
	"github.com/QEStudios/ArsBaker/et209"
	"github.com/QEStudios/ArsBaker/parser/arsyaml"
	"github.com/QEStudios/ArsBaker/player"
	"github.com/QEStudios/ArsBaker/tracker"
	"github.com/QEStudios/ArsBaker/wavwriter"
	"github.com/davecgh/go-spew/spew"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/sqweek/dialog"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "", log.Ldate|log.Ltime)

	// Get the current working directory.
	cwd, err := os.Getwd()
	if err != nil {
		logger.Fatalf("failed to get current working directory: %v", err)
	}

	var f flags
	f.register(pflag.CommandLine)
	pflag.Parse()

	opts, err := loadOptions(f.config)
	if err != nil {
		logger.Fatalf("config error: %v", err)
	}
	f.apply(pflag.CommandLine, &opts)

	// Get the path of the module file.
	path, err := choosePath(cwd, pflag.Args())
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			logger.Printf("User cancelled the file dialog")
			os.Exit(1)
		}
		logger.Fatalf("failed to determine file path: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		logger.Fatalf("error opening file: %v", err)
	}
	defer file.Close()

	module, err := arsyaml.NewParser(file, logger).Parse()
	if err != nil {
		logger.Fatalf("parse error: %v", err)
	}

	if f.dump {
		spew.Dump(module)
	}

	if f.list {
		listSongs(module)
		return
	}

	if f.song < 0 || f.song >= len(module.Songs) {
		logger.Fatalf("song %d does not exist, the module has %d", f.song, len(module.Songs))
	}
	logger.Printf("Baking song %d: %v", f.song, module.Songs[f.song])

	var chip et209.Chip = et209.NewSynth()
	var recorder *et209.Recorder
	if f.trace {
		recorder = et209.NewRecorder(chip)
		chip = recorder
	}

	res, err := baker.Bake(module, f.song, opts, chip, logger)
	if err != nil {
		logger.Fatalf("bake error: %v", err)
	}

	if recorder != nil {
		fmt.Println(recorder)
	}

	logSummary(res)

	outPath := f.output
	if outPath == "" {
		// Write to a .wav file in the same directory as the source file.
		ext := filepath.Ext(path)
		outPath = strings.TrimSuffix(path, ext) + ".wav"
	} else if outPath, err = homedir.Expand(outPath); err != nil {
		logger.Fatalf("invalid output path: %v", err)
	}

	if err := wavwriter.Write(outPath, res); err != nil {
		logger.Fatalf("Error writing output file: %v", err)
	}
	logger.Printf("Wrote %s", outPath)

	if f.play {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		logger.Printf("Playing, interrupt to stop")
		if err := player.Play(ctx, res); err != nil && !errors.Is(err, context.Canceled) {
			logger.Fatalf("playback error: %v", err)
		}
	}
}

func listSongs(module *tracker.Module) {
	for i, song := range module.Songs {
		fmt.Printf("%3d  %v\n", i, song)
	}
}

func logSummary(res *baker.Result) {
	seconds := func(samples int) float64 {
		return float64(samples) / float64(res.SampleRate)
	}

	logger.Printf("Baked %d samples (%.2fs)", res.SampleCount, seconds(res.SampleCount))
	switch {
	case res.Halted:
		logger.Printf("Song ends with a halt")
	case res.HasLoop:
		logger.Printf("Loop from sample %d (%.2fs) to %d (%.2fs)",
			res.LoopLeft, seconds(res.LoopLeft), res.LoopRight, seconds(res.LoopRight))
	}
}

// choosePath returns the file path either from the command-line args
// or from an interactive file dialog.
func choosePath(cwd string, args []string) (string, error) {
	// If an argument was passed to the program, use it.
	if len(args) > 0 {
		path, err := homedir.Expand(args[0])
		if err != nil {
			return "", fmt.Errorf("cannot expand path: %w", err)
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("cannot get absolute path: %w", err)
		}
		if err := validatePath(absPath); err != nil {
			return "", fmt.Errorf("passed argument is not a valid path: %w", err)
		}
		return absPath, nil
	}

	// Otherwise open the file dialog.
	path, err := dialog.
		File().
		Title("Open ars-tracker module").
		Filter("ars-tracker modules (*.yaml, *.yml, *.json)", "yaml", "yml", "json").
		SetStartDir(cwd).
		Load()
	if err != nil {
		// Propagate the error. Caller will check for dialog.ErrCancelled.
		return "", err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot get absolute path: %w", err)
	}

	// Check for empty path just in case.
	if absPath == "" {
		return "", dialog.ErrCancelled
	}
	if err := validatePath(absPath); err != nil {
		return "", fmt.Errorf("dialog selection invalid: %w", err)
	}
	return absPath, nil
}

var moduleExtensions = []string{".yaml", ".yml", ".json"}

// validatePath performs simple checks to verify if a file exists or not.
func validatePath(p string) error {
	ext := strings.ToLower(filepath.Ext(p))
	valid := false
	for _, e := range moduleExtensions {
		if ext == e {
			valid = true
		}
	}
	if !valid {
		return fmt.Errorf("file must have one of the extensions %s", strings.Join(moduleExtensions, ", "))
	}
	if _, err := os.Stat(p); err != nil {
		return fmt.Errorf("cannot stat file: %w", err)
	}
	return nil
}
