// Command genmintinputs drives an accumulator through num_tokens leaf
// appends and writes one CSV line per token: the address to mint to,
// the previous token's inclusion proof, and the newly-minted token's
// inclusion proof. Every line also doubles as an ancestry witness
// between the MMR states before and after the append.
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
		Name:      "genmintinputs",
		Usage:     "generate mint-circuit inputs for a run of token appends",
		ArgsUsage: "<out-file> <num-tokens> <to-address>",
		Action:    run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Crit("genmintinputs failed", "error", err)
	}
}

func run(ctx *cli.Context) error {
	if ctx.Args().Len() != 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <out-file> <num-tokens> <to-address>\n", ctx.App.Name)
		return cli.Exit("", 1)
	}

	outFilePath := ctx.Args().Get(0)
	numTokens, err := parsePositiveUint(ctx.Args().Get(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid num-tokens: %v\n", err)
		return cli.Exit("", 1)
	}
	toAddress := ctx.Args().Get(2)

	outFile, err := os.OpenFile(outFilePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", outFilePath, err)
	}
	defer outFile.Close()

	m := mmr.New(mmr.NewItem(1))
	prevRoot := m.Root()

	firstItemProof := m.GenProof(0)
	if err := writeMintLine(outFile, toAddress, mmr.DefaultProof(), firstItemProof); err != nil {
		return err
	}
	log.Info("wrote mint line", "token_num", 1)

	for tokenNum := uint64(2); tokenNum <= numTokens; tokenNum++ {
		m.Append(mmr.NewItem(tokenNum))

		prevTokenProof := m.GenProof(tokenNum - 2)
		newTokenProof := m.GenProof(tokenNum - 1)

		if !prevTokenProof.Verify() {
			log.Crit("previous token proof failed to verify", "token_num", tokenNum-1)
		}
		if !newTokenProof.Verify() {
			log.Crit("new token proof failed to verify", "token_num", tokenNum)
		}
		if !prevTokenProof.VerifyAncestor(prevRoot) {
			log.Crit("previous token proof failed ancestry check", "token_num", tokenNum-1)
		}

		if err := writeMintLine(outFile, toAddress, prevTokenProof, newTokenProof); err != nil {
			return err
		}
		log.Info("wrote mint line", "token_num", tokenNum)

		prevRoot = m.Root()
	}

	return nil
}

func writeMintLine(out *os.File, toAddress string, prevTokenProof, newTokenProof *mmr.Proof) error {
	_, err := fmt.Fprintf(out, "\"%s\",%s,%s\n", toAddress, prevTokenProof, newTokenProof)
	return err
}

func parsePositiveUint(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("num-tokens must be greater than 0")
	}
	return n, nil
}
