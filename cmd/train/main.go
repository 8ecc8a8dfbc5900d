// fcnet-train: standalone single-process trainer.
//
// Usage:
//
//	fcnet-train --arch="784 128 32 10" --epochs=10 --lr=0.01 --output=model.json
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"fcnet_lib/checkpoint"
	"fcnet_lib/dataset"
	"fcnet_lib/nn"
	"fcnet_lib/trainer"
	"fcnet_lib/utils"

	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"
)

var (
	archStr      = flag.String("arch", "784 128 32 10", "Layer widths: input, hidden..., output")
	activation   = flag.String("activation", "relu", "Activation: relu, sigmoid, tanh")
	epochs       = flag.Int("epochs", 5, "Number of training epochs")
	learningRate = flag.Float64("lr", 0.01, "Learning rate")
	seed         = flag.Int64("seed", 42, "Random seed")
	dataPath     = flag.String("data", "", "Training CSV (label-first rows); empty uses synthetic data")
	scale        = flag.Float64("scale", 255, "Feature divisor for CSV data (0 disables)")
	normalize    = flag.Bool("normalize", false, "Standardize features to zero mean, unit variance")
	samples      = flag.Int("samples", 1000, "Number of synthetic samples")
	outputFile   = flag.String("output", "", "Final checkpoint file (JSON)")
	ckptEvery    = flag.Int("ckpt-every", 0, "Also checkpoint every N steps (0 disables)")
	testFrac     = flag.Float64("test-frac", 0.1, "Fraction of data held out for evaluation")
	verbose      = flag.Bool("verbose", true, "Verbose output")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	utils.Verbose = *verbose

	arch, err := utils.ParseArchitecture(*archStr)
	if err != nil {
		klog.Exitf("Invalid architecture %q: %v", *archStr, err)
	}
	cfg := &utils.Config{
		Architecture:    arch,
		Activation:      *activation,
		DataPath:        *dataPath,
		Epochs:          *epochs,
		LearningRate:    *learningRate,
		Seed:            *seed,
		Samples:         *samples,
		CheckpointPath:  *outputFile,
		CheckpointEvery: *ckptEvery,
	}
	if err := utils.ValidateConfig(cfg); err != nil {
		klog.Exitf("Invalid configuration: %v", err)
	}

	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                      fcnet_lib Trainer                       ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	fmt.Printf("\nConfiguration:\n")
	fmt.Printf("  Architecture:  %v\n", arch)
	fmt.Printf("  Activation:    %s\n", *activation)
	fmt.Printf("  Epochs:        %d\n", *epochs)
	fmt.Printf("  Learning Rate: %.4f\n", *learningRate)
	fmt.Printf("  Seed:          %d\n", *seed)
	fmt.Println()

	stats := &utils.TimingStats{}
	rng := rand.New(rand.NewSource(*seed))
	inputDim, outputDim := arch[0], arch[len(arch)-1]
	hidden := arch[1 : len(arch)-1]

	// Load data
	start := time.Now()
	var ds *dataset.Dataset
	if *dataPath != "" {
		fmt.Printf("Loading %s...\n", *dataPath)
		ds, err = dataset.LoadCSV(*dataPath, inputDim, outputDim, *scale)
		if err != nil {
			klog.Exitf("Failed to load dataset: %v", err)
		}
	} else {
		fmt.Printf("Generating %d synthetic samples...\n", *samples)
		ds = dataset.Synthetic(inputDim, outputDim, *samples, rng)
	}
	if *normalize {
		ds.Normalize()
	}
	ds.Shuffle(rng)
	train, test := ds.Split(1 - *testFrac)
	stats.DataLoadingTime = time.Since(start)
	fmt.Printf("Samples: %d train, %d test\n", train.Len(), test.Len())

	// Build model
	start = time.Now()
	model, err := nn.NewMLP(inputDim, outputDim, hidden, *activation)
	if err != nil {
		klog.Exitf("Failed to build model: %v", err)
	}
	model.InitWeights(uint64(*seed))
	stats.ModelInitTime = time.Since(start)
	fmt.Printf("Model: %d layers\n", len(model.Layers))

	// Train
	fmt.Println("\nStarting training...")
	tr := trainer.New(model, *learningRate)
	tr.Stats = stats
	tr.CheckpointPath = *outputFile
	tr.CheckpointEvery = *ckptEvery

	bar := progressbar.NewOptions(*epochs*train.Len(),
		progressbar.OptionSetDescription("training"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	tr.OnStep = func(step, total int) { _ = bar.Set(step) }

	results, err := tr.Fit(train, *epochs, rng)
	_ = bar.Finish()
	if err != nil {
		klog.Exitf("Training failed: %v", err)
	}
	for _, r := range results {
		fmt.Printf("Epoch %d/%d | Loss: %.6f | Time: %.2fs\n",
			r.Epoch, *epochs, r.AvgLoss, r.Elapsed.Seconds())
	}
	fmt.Printf("\nTraining complete! Total time: %.2fs\n", stats.TotalTime.Seconds())

	// Evaluate
	if test.Len() > 0 {
		loss, acc, err := tr.Evaluate(test)
		if err != nil {
			klog.Exitf("Evaluation failed: %v", err)
		}
		fmt.Printf("Test loss: %.6f | Test accuracy: %.2f%%\n", loss, acc*100)
	}

	// Save final checkpoint
	if *outputFile != "" {
		fmt.Printf("\nSaving checkpoint to %s...\n", *outputFile)
		if err := checkpoint.Save(*outputFile, checkpoint.Snapshot(model)); err != nil {
			klog.Exitf("Failed to save checkpoint: %v", err)
		}
		fmt.Println("Done!")
	}

	if *verbose {
		utils.PrintTimingStats(stats, *epochs*train.Len())
	}
}
