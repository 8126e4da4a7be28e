package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/pkg/errors"

	"mlpclass/internal/config"
	"mlpclass/internal/dataset"
	"mlpclass/internal/model"
	"mlpclass/internal/trainer"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (defaults apply when empty)")
	trainPath := flag.String("train", "", "Training CSV file or directory (required)")
	testPath := flag.String("test", "", "Test CSV file or directory to classify")
	hidden := flag.String("hidden", "", "Comma separated hidden layer widths, e.g. 8,4")
	learningRate := flag.Float64("learning-rate", 0, "Learning rate")
	timeBudget := flag.Duration("time-budget", -1, "Wall-clock training budget")
	seed := flag.Int64("seed", 0, "PRNG seed for weight initialisation")
	debug := flag.String("debug", "", "Dump selector: neurons, biases, weights as 0/1, e.g. 011")
	logEvery := flag.Int("log-every", 0, "Log every N epochs")

	flag.Parse()

	if *trainPath == "" {
		log.Fatalf("missing -train")
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	widths, err := parseWidths(*hidden)
	if err != nil {
		log.Fatalf("invalid -hidden: %v", err)
	}
	cfg.ApplyOverrides(config.Overrides{
		HiddenLayers: widths,
		LearningRate: *learningRate,
		TimeBudget:   *timeBudget,
		Seed:         *seed,
		Debug:        *debug,
		LogEvery:     *logEvery,
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *trainPath, *testPath, os.Stdout); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, trainPath, testPath string, out io.Writer) error {
	files, err := dataset.Resolve(trainPath)
	if err != nil {
		return err
	}
	set, err := dataset.LoadTraining(files...)
	if err != nil {
		return err
	}
	log.Printf("detected from training samples: inputs=%d outputs=%d labels=%v", set.Width(), len(set.Labels), set.Labels)

	net, err := model.New(model.Topology{
		Inputs:       set.Width(),
		Hidden:       cfg.HiddenLayers,
		Labels:       set.Labels,
		LearningRate: cfg.LearningRate,
	}, rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return errors.Wrap(err, "build network")
	}

	res, err := trainer.Run(ctx, net, set.Examples, trainer.RunConfig{
		TimeBudget: cfg.TimeBudget,
		LogEvery:   cfg.LogEvery,
	})
	if err != nil {
		return errors.Wrap(err, "training failed")
	}
	log.Printf("training finished with %d epochs, success ratio %.1f%%", res.Epochs, res.Accuracy*100)

	mask, err := cfg.DumpMask()
	if err != nil {
		return err
	}
	if mask != (model.DumpMask{}) {
		if err := net.Dump(log.Writer(), mask); err != nil {
			return errors.Wrap(err, "dump network")
		}
	}

	if testPath == "" {
		return nil
	}
	files, err = dataset.Resolve(testPath)
	if err != nil {
		return err
	}
	rows, err := dataset.LoadTest(files...)
	if err != nil {
		return err
	}
	for _, row := range rows {
		label, err := net.Classify(row.Features)
		if err != nil {
			return errors.Wrapf(err, "classify %s", row.ID)
		}
		fmt.Fprintf(out, "%s - %s\n", row.ID, label)
	}
	return nil
}

func parseWidths(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	widths := make([]int, 0, len(parts))
	for _, p := range parts {
		w, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		if w <= 0 {
			return nil, errors.Errorf("width %d must be > 0", w)
		}
		widths = append(widths, w)
	}
	return widths, nil
}
