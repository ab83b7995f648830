package txttable

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wippyai/dataset/array"
	"github.com/wippyai/dataset/scalar"
)

// ConvertColumns converts every array to kind k using at most workers
// goroutines (no limit when workers <= 0). The inputs are untouched. On the
// first error the outputs already produced are released.
func ConvertColumns(ctx context.Context, cols []*array.Array, k scalar.Kind, workers int) ([]*array.Array, error) {
	out := make([]*array.Array, len(cols))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, c := range cols {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			converted, err := array.Convert(c, k)
			if err != nil {
				return err
			}
			out[i] = converted
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, a := range out {
			if a == nil {
				continue
			}
			if rerr := a.Release(); rerr != nil {
				Logger().Warn("release converted column", zap.Error(rerr))
			}
		}
		return nil, err
	}
	return out, nil
}

// Convert converts every column of t to kind k in place, releasing the old
// arrays. String columns are skipped unless k is string.
func (t *Table) Convert(ctx context.Context, k scalar.Kind, workers int) error {
	var (
		idx  []int
		cols []*array.Array
	)
	for i, c := range t.Columns {
		if c.Data.Kind() == k {
			continue
		}
		if c.Data.Kind() == scalar.KindString {
			continue
		}
		idx = append(idx, i)
		cols = append(cols, c.Data)
	}

	out, err := ConvertColumns(ctx, cols, k, workers)
	if err != nil {
		return err
	}
	for j, i := range idx {
		if rerr := t.Columns[i].Data.Release(); rerr != nil {
			Logger().Warn("release replaced column", zap.Error(rerr))
		}
		t.Columns[i].Data = out[j]
		t.Columns[i].Info.Kind = k
		t.Columns[i].Info.Blank = ""
		t.Columns[i].Info.Width = 0
	}
	return nil
}
