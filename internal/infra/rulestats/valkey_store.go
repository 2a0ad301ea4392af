package rulestats

import (
	"context"
	"errors"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/natal-chart/internal/domain/chart"
)

// ValkeyStore counts rule hits in a Valkey sorted set.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "natal"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// RecordHits increments every code in one round trip.
func (s *ValkeyStore) RecordHits(ctx context.Context, codes []string) error {
	if len(codes) == 0 {
		return nil
	}
	cmds := make([]valkey.Completed, 0, len(codes))
	for _, code := range codes {
		if code == "" {
			continue
		}
		cmds = append(cmds, s.client.B().Zincrby().Key(s.hitsKey()).Increment(1).Member(code).Build())
	}
	if len(cmds) == 0 {
		return nil
	}
	var errs []error
	for _, resp := range s.client.DoMulti(ctx, cmds...) {
		if err := resp.Error(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Counts returns hits per rule code.
func (s *ValkeyStore) Counts(ctx context.Context) (map[string]int64, error) {
	resp := s.client.Do(ctx, s.client.B().Zrevrange().Key(s.hitsKey()).Start(0).Stop(-1).Withscores().Build())
	scores, err := resp.AsZScores()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return map[string]int64{}, nil
		}
		return nil, err
	}
	out := make(map[string]int64, len(scores))
	for _, z := range scores {
		out[z.Member] = int64(z.Score)
	}
	return out, nil
}

func (s *ValkeyStore) hitsKey() string {
	return fmt.Sprintf("%s:rule_hits", s.prefix)
}

var _ chart.StatsStore = (*ValkeyStore)(nil)
