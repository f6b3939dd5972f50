// Command netseek runs the network-guided epistatic SNP search engine:
// load a genotype cohort, annotate it, build one or more SNP-SNP
// interaction networks, seed and locally refine candidate sets against
// each network, fuse the results, run a final search pass over the
// fused network, and write the result/network output formats.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
