package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/pvmm/png2sprites"
)

var (
	memProfile string
	cpuProfile string
	help       bool
)

func main() {
	t0 := time.Now()
	opt := initAndParseFlags()
	filenames := flag.Args()
	if !opt.Quiet {
		fmt.Printf("png2sprites %v\n", png2sprites.Version)
	}
	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			log.Fatalf("could not create CPU profile %q: %v", cpuProfile, err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	if help {
		png2sprites.PrintHelp()
		return
	}
	if len(filenames) == 0 {
		png2sprites.PrintUsage()
		return
	}
	if opt.Parallel && !opt.Minimize {
		log.Println("ignoring -parallel, it makes no sense without the -minimise flag set.")
	}

	filenames, err := expandWildcards(filenames)
	if err != nil {
		log.Fatalf("expandWildcards failed: %v", err)
	}
	for _, filename := range filenames {
		if err := process(opt, filename); err != nil {
			log.Fatalf("process %q failed: %v", filename, err)
		}
	}
	if memProfile != "" {
		if err := writeMemProfile(memProfile); err != nil {
			log.Fatalf("writeMemProfile failed: %v", err)
		}
	}

	if !opt.Quiet {
		fmt.Printf("converted %d file(s)\n", len(filenames))
		fmt.Printf("elapsed: %v\n", time.Since(t0))
	}
}

func process(opt png2sprites.Options, filename string) error {
	opt.OutFile = png2sprites.DestinationFilename(filename, opt)

	c, err := png2sprites.NewFromPath(opt, filename)
	if err != nil {
		return fmt.Errorf("NewFromPath failed: %w", err)
	}
	w, err := os.Create(opt.OutFile)
	if err != nil {
		return fmt.Errorf("os.Create failed: %w", err)
	}
	defer w.Close()
	if _, err = c.WriteTo(w); err != nil {
		return fmt.Errorf("WriteTo failed: %w", err)
	}
	if !opt.Quiet {
		fmt.Printf("converted %q to %q\n", filename, opt.OutFile)
	}
	return nil
}

func writeMemProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("Create failed: %w", err)
	}
	defer f.Close()
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("WriteHeapProfile failed: %w", err)
	}
	return nil
}

func expandWildcards(filenames []string) (result []string, err error) {
	for _, filename := range filenames {
		if !strings.ContainsAny(filename, "?*") {
			result = append(result, filename)
			continue
		}
		dir := filepath.Dir(filename)
		ff, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("os.ReadDir %q failed: %w", dir, err)
		}
		name := filepath.Base(filename)
		for _, f := range ff {
			if f.IsDir() {
				continue
			}
			ok, err := filepath.Match(name, f.Name())
			if err != nil {
				return nil, fmt.Errorf("filepath.Match %q failed: %w", filename, err)
			}
			if ok {
				result = append(result, filepath.Join(dir, f.Name()))
			}
		}
	}
	return result, nil
}

func initAndParseFlags() (opt png2sprites.Options) {
	flag.StringVar(&cpuProfile, "cpuprofile", "", "write cpu profile to `file`")
	flag.StringVar(&memProfile, "memprofile", "", "write memory profile to `file`")
	flag.BoolVar(&help, "h", false, "help")
	flag.BoolVar(&help, "help", false, "help")

	flag.BoolVar(&opt.Quiet, "q", false, "quiet")
	flag.BoolVar(&opt.Quiet, "quiet", false, "quiet, only display errors")
	flag.BoolVar(&opt.Verbose, "v", false, "verbose")
	flag.BoolVar(&opt.Verbose, "verbose", false, "verbose output")
	flag.BoolVar(&opt.VeryVerbose, "vv", false, "very verbose")
	flag.BoolVar(&opt.VeryVerbose, "very-verbose", false, "very verbose output, implies verbose")
	flag.StringVar(&opt.OutFile, "o", "", "out")
	flag.StringVar(&opt.OutFile, "out", "", "specify outfile, by default it changes the extension to .h, .asm or .bas")
	flag.StringVar(&opt.TargetDir, "td", "", "targetdir")
	flag.StringVar(&opt.TargetDir, "targetdir", "", "specify targetdir")
	flag.StringVar(&opt.Format, "f", "c", "format")
	flag.StringVar(&opt.Format, "format", "c", "output format c, asm or basic")
	flag.StringVar(&opt.Label, "id", "sprites", "variable name used in the output")
	flag.StringVar(&opt.PaletteFile, "p", "", "palette")
	flag.StringVar(&opt.PaletteFile, "palette", "", "set of colors to use from YAML file")
	flag.StringVar(&opt.Transparent, "t", "", "transparent")
	flag.StringVar(&opt.Transparent, "transparent", "", "transparent color as r,g,b (default 255,0,255)")
	flag.BoolVar(&opt.IncludePalette, "c", false, "colors")
	flag.BoolVar(&opt.IncludePalette, "colors", false, "include palette colors in C or ASM output")
	flag.BoolVar(&opt.Minimize, "m", false, "minimise")
	flag.BoolVar(&opt.Minimize, "minimise", false, "try to minimise components by palette reordering")
	flag.BoolVar(&opt.Quantize, "quantize", false, "median-cut quantize the image down to 16 colors first")

	w := int(runtime.NumCPU() / 2)
	flag.IntVar(&opt.NumWorkers, "w", w, "workers")
	flag.IntVar(&opt.NumWorkers, "workers", w, "number of concurrent workers in parallel mode")
	flag.BoolVar(&opt.Parallel, "parallel", false, "evaluate palette orderings in parallel in -minimise mode")
	flag.Parse()
	if opt.VeryVerbose {
		opt.Verbose = true
	}
	return opt
}
