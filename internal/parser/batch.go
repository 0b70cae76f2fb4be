package parser

import (
	"context"
	"fmt"
	"runtime"

	"github.com/jonesrussell/north-cloud/leadharvest/internal/lead"
	"golang.org/x/sync/errgroup"
)

// Batch is the outcome of parsing many blocks. Records keep block order.
type Batch struct {
	Records  []*lead.Record
	Rejected map[Reason]int
	Faults   []error
	Blocks   int
}

// RejectedTotal sums the rejection counts.
func (b *Batch) RejectedTotal() int {
	n := 0
	for _, c := range b.Rejected {
		n += c
	}
	return n
}

// ParseAll parses independent blocks on up to workers goroutines. A
// malformed block is collected in Faults and never stops the batch; only
// cancellation of ctx does.
func (p *Parser) ParseAll(ctx context.Context, blocks []lead.RawBlock, workers int) (*Batch, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	type outcome struct {
		result Result
		err    error
	}
	outcomes := make([]outcome, len(blocks))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, block := range blocks {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			res, err := p.Parse(block)
			outcomes[i] = outcome{result: res, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parse blocks: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse blocks: %w", err)
	}

	batch := &Batch{Rejected: make(map[Reason]int), Blocks: len(blocks)}
	for i, o := range outcomes {
		switch {
		case o.err != nil:
			batch.Faults = append(batch.Faults, fmt.Errorf("block %d: %w", i, o.err))
		case o.result.Accepted():
			batch.Records = append(batch.Records, o.result.Record)
		default:
			batch.Rejected[o.result.Rejection]++
		}
	}
	return batch, nil
}
