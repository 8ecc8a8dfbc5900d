// fcnet-ckpt: inspect a checkpoint file without loading the model.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"fcnet_lib/checkpoint"

	"github.com/dustin/go-humanize"
	"k8s.io/klog/v2"
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: fcnet-ckpt <checkpoint.json>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	fi, err := os.Stat(path)
	if err != nil {
		klog.Exitf("Failed to stat %q: %v", path, err)
	}
	ck, err := checkpoint.Load(path)
	if err != nil {
		klog.Exitf("Failed to load checkpoint: %v", err)
	}

	fmt.Printf("File:        %s (%s)\n", path, humanize.Bytes(uint64(fi.Size())))
	fmt.Printf("Version:     %s\n", ck.Version)
	fmt.Printf("Input dim:   %d\n", ck.InputDim)
	fmt.Printf("Output dim:  %d\n", ck.OutputDim)
	fmt.Printf("Hidden dims: %v\n", ck.HiddenDims)
	fmt.Printf("Activation:  %s\n", ck.Activation)

	names := make([]string, 0, len(ck.Params))
	for name := range ck.Params {
		names = append(names, name)
	}
	sort.Strings(names)

	total := 0
	fmt.Printf("\nParameters:\n")
	for _, name := range names {
		p := ck.Params[name]
		fmt.Printf("  %-20s shape %-12v %8s values\n",
			name, p.Shape, humanize.Comma(int64(len(p.Data))))
		total += len(p.Data)
	}
	fmt.Printf("\nTotal: %s learned values across %d parameters\n",
		humanize.Comma(int64(total)), len(names))
}
