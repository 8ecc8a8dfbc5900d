// fcnet-infer: run inference with a saved checkpoint. The model is rebuilt
// from the checkpoint's own architecture metadata before weights are restored.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"time"

	"fcnet_lib/checkpoint"
	"fcnet_lib/nn"
	"fcnet_lib/tensor"

	"k8s.io/klog/v2"
)

var (
	checkpointFile = flag.String("checkpoint", "", "Checkpoint JSON file (required)")
	inputFile      = flag.String("input", "", "Input JSON file (flat array of floats)")
	topK           = flag.Int("topk", 3, "Top predictions to show")
	seed           = flag.Int64("seed", 0, "Seed for the random demo input")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if *checkpointFile == "" {
		fmt.Fprintln(os.Stderr, "usage: fcnet-infer --checkpoint=model.json [--input=input.json]")
		os.Exit(2)
	}

	ck, err := checkpoint.Load(*checkpointFile)
	if err != nil {
		klog.Exitf("Failed to load checkpoint: %v", err)
	}
	fmt.Printf("Checkpoint: version %s, %d -> %v -> %d (%s)\n",
		ck.Version, ck.InputDim, ck.HiddenDims, ck.OutputDim, ck.Activation)

	model, err := checkpoint.Rebuild(ck)
	if err != nil {
		klog.Exitf("Failed to rebuild model: %v", err)
	}

	inputData, err := readInput(ck.InputDim)
	if err != nil {
		klog.Exitf("Failed to read input: %v", err)
	}

	fmt.Println("\nRunning inference...")
	start := time.Now()
	logits, err := model.Forward(tensor.NewWithData(inputData))
	if err != nil {
		klog.Exitf("Inference failed: %v", err)
	}
	fmt.Printf("Time: %.4fs\n", time.Since(start).Seconds())

	showResults(nn.Softmax(logits).Data, *topK)
}

func readInput(inputDim int) ([]float64, error) {
	if *inputFile == "" {
		// demo mode: random input
		rng := rand.New(rand.NewSource(*seed))
		inputData := make([]float64, inputDim)
		for i := range inputData {
			inputData[i] = rng.Float64()
		}
		return inputData, nil
	}
	data, err := os.ReadFile(*inputFile)
	if err != nil {
		return nil, err
	}
	var inputData []float64
	if err := json.Unmarshal(data, &inputData); err != nil {
		return nil, err
	}
	if len(inputData) != inputDim {
		return nil, fmt.Errorf("input has %d values, model expects %d", len(inputData), inputDim)
	}
	return inputData, nil
}

func showResults(probs []float64, topK int) {
	type pred struct {
		class int
		prob  float64
	}
	preds := make([]pred, len(probs))
	for i, p := range probs {
		preds[i] = pred{class: i, prob: p}
	}
	sort.Slice(preds, func(i, j int) bool { return preds[i].prob > preds[j].prob })

	if topK > len(preds) {
		topK = len(preds)
	}
	fmt.Printf("\nTop %d predictions:\n", topK)
	for i := 0; i < topK; i++ {
		fmt.Printf("  %d. class %d: %.4f\n", i+1, preds[i].class, preds[i].prob)
	}
}
