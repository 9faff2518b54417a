package datum

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// EncodeBatch encodes payloads concurrently with at most limit workers, or
// GOMAXPROCS workers when limit <= 0. The i-th result is the datum of payloads[i].
//
// The first error cancels the remaining work and is returned with the index of
// the failing payload.
func (e *Encoder) EncodeBatch(ctx context.Context, payloads [][]byte, limit int) ([][]byte, error) {
	out := make([][]byte, len(payloads))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchLimit(limit))

	for i, payload := range payloads {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			data, err := e.Encode(payload)
			if err != nil {
				return fmt.Errorf("payload %d: %w", i, err)
			}
			out[i] = data

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// DecodeBatch decodes datums concurrently, applying opts to every decoder.
// Worker limits and error handling match EncodeBatch.
func DecodeBatch(ctx context.Context, datums [][]byte, limit int, opts ...DecoderOption) ([]Datum, error) {
	out := make([]Datum, len(datums))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchLimit(limit))

	for i, data := range datums {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			dec, err := NewDecoder(data, opts...)
			if err != nil {
				return fmt.Errorf("datum %d: %w", i, err)
			}
			d, err := dec.Decode()
			if err != nil {
				return fmt.Errorf("datum %d: %w", i, err)
			}
			out[i] = d

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

func batchLimit(limit int) int {
	if limit <= 0 {
		return runtime.GOMAXPROCS(0)
	}

	return limit
}
