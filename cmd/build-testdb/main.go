package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wbrown/janus-aggregate/rdf/config"
	"github.com/wbrown/janus-aggregate/rdf/storage"
)

func main() {
	configType := flag.String("config", "default", "Config type: default or large")
	outDir := flag.String("out", "", "Output directory (overrides the config type's default)")
	flag.Parse()

	var sample storage.SampleConfig
	switch *configType {
	case "default":
		sample = storage.DefaultSampleConfig()
	case "large":
		sample = storage.LargeSampleConfig()
	default:
		fmt.Fprintf(os.Stderr, "Unknown config type: %s (use 'default' or 'large')\n", *configType)
		os.Exit(1)
	}
	if *outDir != "" {
		sample.OutputDir = *outDir
	}

	fmt.Printf("Building sample sources in %s\n", sample.OutputDir)
	fmt.Printf("  People/source: %d\n", sample.People)
	fmt.Printf("  Shared people: %d\n", sample.Overlap)
	fmt.Printf("  Groups: %d\n", sample.Groups)
	fmt.Println()

	paths, err := storage.BuildSampleSources(sample)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build sources: %v\n", err)
		os.Exit(1)
	}

	for _, path := range paths {
		src, err := storage.NewBadgerSource(path, storage.BadgerOptions{ReadOnly: true})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Println(path)
		err = storage.SourceStats(os.Stdout, src)
		src.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to get stats: %v\n", err)
			os.Exit(1)
		}
	}

	cfgPath := filepath.Join(sample.OutputDir, "aggregate.yaml")
	if err := writeConfig(cfgPath, paths, sample); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n✅ Done! Query the aggregate with:")
	fmt.Printf("   go run ./cmd/aggregate --config %s graphs\n", cfgPath)
}

// writeConfig describes the sample sources as an aggregate merging both
// default graphs and projecting every group graph
func writeConfig(path string, sources []string, sample storage.SampleConfig) error {
	cfg := &config.Config{
		Default: config.Default{Merge: true},
	}
	for _, src := range sources {
		cfg.Sources = append(cfg.Sources, config.Source{
			Name:     filepath.Base(src),
			Path:     filepath.Base(src),
			ReadOnly: true,
		})
	}
	for i := 0; i < sample.Groups; i++ {
		cfg.Named = append(cfg.Named, storage.SampleGraph(i).Value)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	header := fmt.Sprintf("# Sample aggregate over %d sources built by build-testdb\n", len(sources))
	return os.WriteFile(path, append([]byte(header), data...), 0644)
}
