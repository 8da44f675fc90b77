// Command genverifyinputs drives an accumulator through num_tokens leaf
// appends and writes one line per size: the inclusion proof of leaf 1
// as seen from the MMR at that size. This exercises proof generation
// and verification against a peak that keeps merging into larger peaks
// as the accumulator grows.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/base/mmr-token-accumulator/internal/mmr"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

func main() {
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, log.LevelInfo, true)))

	app := &cli.App{
		Name:      "genverifyinputs",
		Usage:     "generate verify-circuit inputs for a run of token appends",
		ArgsUsage: "<out-file> <num-tokens>",
		Action:    run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Crit("genverifyinputs failed", "error", err)
	}
}

func run(ctx *cli.Context) error {
	if ctx.Args().Len() != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <out-file> <num-tokens>\n", ctx.App.Name)
		return cli.Exit("", 1)
	}

	outFilePath := ctx.Args().Get(0)
	numTokens, err := strconv.ParseUint(ctx.Args().Get(1), 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid num-tokens: %v\n", err)
		return cli.Exit("", 1)
	}
	if numTokens == 0 {
		fmt.Fprintln(os.Stderr, "num-tokens must be greater than 0")
		return cli.Exit("", 1)
	}

	outFile, err := os.OpenFile(outFilePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", outFilePath, err)
	}
	defer outFile.Close()

	m := mmr.New(mmr.NewItem(1))

	proof := m.GenProof(0)
	if _, err := fmt.Fprintf(outFile, "%s\n", proof); err != nil {
		return err
	}
	log.Info("wrote verify line", "num_tokens", 1)

	for tokenNum := uint64(2); tokenNum <= numTokens; tokenNum++ {
		m.Append(mmr.NewItem(tokenNum))

		proof := m.GenProof(0)
		if !proof.Verify() {
			log.Crit("leaf-1 proof failed to verify", "num_tokens", tokenNum)
		}

		if _, err := fmt.Fprintf(outFile, "%s\n", proof); err != nil {
			return err
		}
		log.Info("wrote verify line", "num_tokens", tokenNum)
	}

	return nil
}
