package pancake

import (
	"context"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hxuan190/token-route-engine/internal/cache"
	"github.com/hxuan190/token-route-engine/internal/chain"
	"github.com/hxuan190/token-route-engine/internal/domain"
	"github.com/hxuan190/token-route-engine/internal/metrics"
)

const (
	DefaultPairCacheSize = 1000
	DefaultNegativeTTL   = 10 * time.Second
)

// PairStore persists discovered pairs across restarts.
type PairStore interface {
	SavePair(ctx context.Context, token common.Address, info *domain.PancakePairInfo) error
	LoadPairs(ctx context.Context) (map[common.Address]*domain.PancakePairInfo, error)
}

type FinderConfig struct {
	V2Factory common.Address
	V3Factory common.Address
	FeeTiers  []uint32

	// QuoteCandidates is the global list probed when no quote token is known. ExtraQuotes are
	// appended after it.
	QuoteCandidates []common.Address
	ExtraQuotes     []common.Address

	// Overrides bypass discovery for known special-case tokens.
	Overrides map[common.Address]*domain.PancakePairInfo

	CacheSize   int
	NegativeTTL time.Duration
}

func DefaultFinderConfig() FinderConfig {
	return FinderConfig{
		V2Factory:       chain.PancakeV2Factory,
		V3Factory:       chain.PancakeV3Factory,
		FeeTiers:        chain.PancakeV3FeeTiers,
		QuoteCandidates: chain.DefaultQuoteCandidates,
		CacheSize:       DefaultPairCacheSize,
		NegativeTTL:     DefaultNegativeTTL,
	}
}

type findOptions struct {
	quote   *common.Address
	bridges []common.Address
}

type FindOption func(*findOptions)

// WithQuoteToken restricts discovery to pools against quote.
func WithQuoteToken(quote common.Address) FindOption {
	return func(o *findOptions) {
		if !chain.IsZero(quote) {
			q := quote
			o.quote = &q
		}
	}
}

// WithBridgeTokens puts platform-specific quote tokens ahead of the global candidate list.
func WithBridgeTokens(tokens ...common.Address) FindOption {
	return func(o *findOptions) {
		o.bridges = append(o.bridges, tokens...)
	}
}

// PairFinder discovers the deepest usable PancakeSwap pool for a token across V2 and V3.
// Found pools are cached for the life of the process; "no pool" verdicts expire after NegativeTTL.
type PairFinder struct {
	reader    chain.ContractReader
	liquidity *LiquidityChecker
	cfg       FinderConfig
	store     PairStore

	pairs    *cache.BoundedCache[common.Address, *domain.PancakePairInfo]
	negative *cache.BoundedCache[string, time.Time]

	now func() time.Time
}

func NewPairFinder(reader chain.ContractReader, liquidity *LiquidityChecker, cfg FinderConfig) *PairFinder {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultPairCacheSize
	}
	if len(cfg.FeeTiers) == 0 {
		cfg.FeeTiers = chain.PancakeV3FeeTiers
	}
	if len(cfg.QuoteCandidates) == 0 {
		cfg.QuoteCandidates = chain.DefaultQuoteCandidates
	}
	if liquidity == nil {
		liquidity = NewLiquidityChecker(reader, nil)
	}
	return &PairFinder{
		reader:    reader,
		liquidity: liquidity,
		cfg:       cfg,
		pairs:     cache.NewBoundedCache[common.Address, *domain.PancakePairInfo](cfg.CacheSize),
		negative:  cache.NewBoundedCache[string, time.Time](cfg.CacheSize),
		now:       time.Now,
	}
}

// SetStore enables write-through of discovered pairs.
func (f *PairFinder) SetStore(store PairStore) {
	f.store = store
}

// Warm loads previously persisted pairs into the cache.
func (f *PairFinder) Warm(ctx context.Context) (int, error) {
	if f.store == nil {
		return 0, nil
	}
	pairs, err := f.store.LoadPairs(ctx)
	if err != nil {
		return 0, err
	}
	for token, info := range pairs {
		f.pairs.Set(token, info)
	}
	metrics.PairCacheSize.Set(float64(f.pairs.Len()))
	return len(pairs), nil
}

// FindBestPair never fails: read errors and thin pools all yield HasLiquidity == false.
func (f *PairFinder) FindBestPair(ctx context.Context, token common.Address, opts ...FindOption) *domain.PairResult {
	var o findOptions
	for _, opt := range opts {
		opt(&o)
	}

	if info, ok := f.cfg.Overrides[token]; ok {
		metrics.PairDiscoveries.WithLabelValues("override", "found").Inc()
		return domain.PairResultFromInfo(info)
	}

	if info, ok := f.pairs.Get(token); ok && (o.quote == nil || info.QuoteToken == *o.quote) {
		metrics.PairCacheHits.Inc()
		return domain.PairResultFromInfo(info)
	}
	metrics.PairCacheMisses.Inc()

	negKey := negativeKey(token, o.quote)
	if at, ok := f.negative.Get(negKey); ok && f.now().Sub(at) < f.cfg.NegativeTTL {
		metrics.PairDiscoveries.WithLabelValues("negative_cache", "none").Inc()
		return domain.NoLiquidity()
	}

	var (
		best      *domain.PoolCandidate
		transient bool
		source    string
	)
	if o.quote != nil {
		source = "single"
		best, transient = f.probeQuote(ctx, token, *o.quote)
	} else {
		source = "multi"
		best, transient = f.probeCandidates(ctx, token, f.candidates(token, o.bridges))
	}

	if best == nil {
		metrics.PairDiscoveries.WithLabelValues(source, "none").Inc()
		// A verdict caused by a flaky RPC is not a fact about the chain.
		if !transient && f.cfg.NegativeTTL > 0 {
			f.negative.Set(negKey, f.now())
		}
		return domain.NoLiquidity()
	}

	metrics.PairDiscoveries.WithLabelValues(source, "found").Inc()
	info := &domain.PancakePairInfo{
		PairAddress: best.Pair,
		QuoteToken:  best.QuoteToken,
		Version:     best.Version,
		Timestamp:   f.now(),
	}
	f.remember(ctx, token, info)
	return domain.PairResultFromInfo(info)
}

func (f *PairFinder) remember(ctx context.Context, token common.Address, info *domain.PancakePairInfo) {
	f.pairs.Set(token, info)
	f.negative.Delete(negativeKey(token, nil))
	f.negative.Delete(negativeKey(token, &info.QuoteToken))
	metrics.PairCacheSize.Set(float64(f.pairs.Len()))

	if f.store == nil {
		return
	}
	if err := f.store.SavePair(ctx, token, info); err != nil {
		log.Warn().Err(err).Str("token", token.Hex()).Msg("[PairFinder] failed to persist pair")
	}
}

// Cached returns the cached pair for token, if any.
func (f *PairFinder) Cached(token common.Address) (*domain.PancakePairInfo, bool) {
	return f.pairs.Get(token)
}

func (f *PairFinder) Clear() {
	f.pairs.Clear()
	f.negative.Clear()
	metrics.PairCacheSize.Set(0)
}

type PairCacheStats struct {
	Size      int `json:"size"`
	Capacity  int `json:"capacity"`
	Negative  int `json:"negative"`
	Overrides int `json:"overrides"`
}

func (f *PairFinder) Stats() PairCacheStats {
	return PairCacheStats{
		Size:      f.pairs.Len(),
		Capacity:  f.pairs.Cap(),
		Negative:  f.negative.Len(),
		Overrides: len(f.cfg.Overrides),
	}
}

func negativeKey(token common.Address, quote *common.Address) string {
	key := strings.ToLower(token.Hex())
	if quote != nil {
		key += ":" + strings.ToLower(quote.Hex())
	}
	return key
}

// candidates orders bridge tokens first, then the global list, without duplicates or token itself.
func (f *PairFinder) candidates(token common.Address, bridges []common.Address) []common.Address {
	seen := map[common.Address]struct{}{token: {}, chain.ZeroAddress: {}}
	out := make([]common.Address, 0, len(bridges)+len(f.cfg.QuoteCandidates)+len(f.cfg.ExtraQuotes))
	for _, list := range [][]common.Address{bridges, f.cfg.QuoteCandidates, f.cfg.ExtraQuotes} {
		for _, addr := range list {
			if _, dup := seen[addr]; dup {
				continue
			}
			seen[addr] = struct{}{}
			out = append(out, addr)
		}
	}
	return out
}

// probeCandidates probes every quote token concurrently and keeps the deepest pool relative to
// its own threshold. Ties go to the earlier candidate.
func (f *PairFinder) probeCandidates(ctx context.Context, token common.Address, quotes []common.Address) (*domain.PoolCandidate, bool) {
	results := make([]*domain.PoolCandidate, len(quotes))
	flaky := make([]bool, len(quotes))

	var g errgroup.Group
	for i, quote := range quotes {
		g.Go(func() error {
			results[i], flaky[i] = f.probeQuote(ctx, token, quote)
			return nil
		})
	}
	_ = g.Wait()

	var (
		best      *domain.PoolCandidate
		bestScore *uint256.Int
		transient bool
	)
	for i, c := range results {
		transient = transient || flaky[i]
		if c == nil {
			continue
		}
		score := f.liquidity.thresholds.Score(c.QuoteToken, c.Depth)
		if best == nil || score.Gt(bestScore) {
			best, bestScore = c, score
		}
	}
	return best, transient
}

// probeQuote checks V2 and every V3 fee tier for token/quote concurrently. When both versions
// have a usable pool, V3 wins. The bool result reports a retryable read failure.
func (f *PairFinder) probeQuote(ctx context.Context, token, quote common.Address) (*domain.PoolCandidate, bool) {
	var (
		v2, v3    *domain.PoolCandidate
		mu        sync.Mutex
		transient bool
	)
	noteErr := func(err error) {
		if err != nil && domain.IsRetryable(domain.KindOf(err)) {
			mu.Lock()
			transient = true
			mu.Unlock()
		}
	}

	var g errgroup.Group
	g.Go(func() error {
		c, err := f.probeV2(ctx, token, quote)
		noteErr(err)
		v2 = c
		return nil
	})
	g.Go(func() error {
		c, err := f.probeV3(ctx, token, quote)
		noteErr(err)
		v3 = c
		return nil
	})
	_ = g.Wait()

	if v3 != nil {
		return v3, transient
	}
	return v2, transient
}

func (f *PairFinder) probeV2(ctx context.Context, token, quote common.Address) (*domain.PoolCandidate, error) {
	out, err := f.reader.ReadContract(ctx, chain.Call{
		Address: f.cfg.V2Factory,
		ABI:     chain.PancakeV2FactoryABI,
		Method:  "getPair",
		Args:    []interface{}{token, quote},
	})
	if err != nil {
		return nil, err
	}
	pair, err := chain.Address(out, 0)
	if err != nil || chain.IsZero(pair) {
		return nil, err
	}

	depth, ok := f.liquidity.v2Depth(ctx, pair, quote)
	if !ok {
		return nil, nil
	}
	return &domain.PoolCandidate{Pair: pair, QuoteToken: quote, Version: domain.PancakeV2, Depth: depth}, nil
}

// probeV3 returns the fee tier pool with the most in-range liquidity.
func (f *PairFinder) probeV3(ctx context.Context, token, quote common.Address) (*domain.PoolCandidate, error) {
	pools := make([]*domain.PoolCandidate, len(f.cfg.FeeTiers))
	errs := make([]error, len(f.cfg.FeeTiers))

	var g errgroup.Group
	for i, fee := range f.cfg.FeeTiers {
		g.Go(func() error {
			out, err := f.reader.ReadContract(ctx, chain.Call{
				Address: f.cfg.V3Factory,
				ABI:     chain.PancakeV3FactoryABI,
				Method:  "getPool",
				Args:    []interface{}{token, quote, new(big.Int).SetUint64(uint64(fee))},
			})
			if err != nil {
				errs[i] = err
				return nil
			}
			pool, err := chain.Address(out, 0)
			if err != nil || chain.IsZero(pool) {
				errs[i] = err
				return nil
			}
			liq, ok := f.liquidity.v3Liquidity(ctx, pool)
			if !ok {
				return nil
			}
			pools[i] = &domain.PoolCandidate{Pair: pool, QuoteToken: quote, Version: domain.PancakeV3, Fee: fee, Liquidity: liq}
			return nil
		})
	}
	_ = g.Wait()

	var best *domain.PoolCandidate
	for _, p := range pools {
		if p != nil && (best == nil || p.Liquidity.Gt(best.Liquidity)) {
			best = p
		}
	}
	if best == nil {
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
		return nil, nil
	}
	best.Depth = f.liquidity.quoteBalance(ctx, best.Pair, quote)
	return best, nil
}
