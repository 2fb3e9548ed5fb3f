package engine

import (
	"sync"
	"time"

	"github.com/cargotrace/engine/internal/codec"
	"github.com/cargotrace/engine/internal/ledger"
	"github.com/cargotrace/engine/internal/store"
	"github.com/cargotrace/engine/pkg/api"
)

type (
	// Engine is the core workflow engine. Operations serialize on an
	// internal mutex; the external ledger call during loan approval is
	// the single point where the lock is released mid-operation
	Engine struct {
		mu            sync.Mutex
		documents     *store.Collection[api.Document]
		loans         *store.Collection[api.Loan]
		acids         *store.Collection[api.AcidValidation]
		mappings      *store.Collection[api.CargoXMapping]
		verifications *store.Collection[api.CustomsVerification]
		balances      *store.Collection[uint64]
		docSeq        *store.Sequence
		loanSeq       *store.Sequence
		mapSeq        *store.Sequence
		verSeq        *store.Sequence
		gateway       *ledger.Gateway
		treasury      api.Identity
		clock         func() uint64
	}

	// Option adjusts engine construction
	Option func(*Engine)
)

// Partition names. Each collection owns exactly one partition; renaming
// one orphans its stored records
const (
	partDocuments     = "documents"
	partLoans         = "loans"
	partAcids         = "acid_validations"
	partMappings      = "cargox_mappings"
	partVerifications = "customs_verifications"
	partBalances      = "balances"
)

// DefaultTreasury is the identity whose balance funds loan disbursements
var DefaultTreasury = api.Identity("cargotrace-treasury")

// DefaultInterestRate applies to every loan at creation
const DefaultInterestRate = 4.5

// WithClock overrides the engine's time source
func WithClock(clock func() uint64) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithTreasury overrides the treasury identity
func WithTreasury(id api.Identity) Option {
	return func(e *Engine) {
		e.treasury = id
	}
}

// New creates a workflow engine over the given durable region and ledger
// client
func New(region *store.Region, client ledger.Client, opts ...Option) *Engine {
	e := &Engine{
		documents: store.NewCollection(region, partDocuments, codec.Document),
		loans:     store.NewCollection(region, partLoans, codec.Loan),
		acids: store.NewCollection(
			region, partAcids, codec.AcidValidation,
		),
		mappings: store.NewCollection(
			region, partMappings, codec.CargoXMapping,
		),
		verifications: store.NewCollection(
			region, partVerifications, codec.CustomsVerification,
		),
		balances: store.NewCollection(region, partBalances, codec.Balance),
		docSeq:   store.NewSequence(region, "document", "DOC"),
		loanSeq:  store.NewSequence(region, "loan", "LOAN"),
		mapSeq:   store.NewSequence(region, "mapping", "MAP"),
		verSeq:   store.NewSequence(region, "verification", "VER"),
		treasury: DefaultTreasury,
		clock: func() uint64 {
			return uint64(time.Now().UnixNano())
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.gateway = ledger.NewGateway(client, e.balances, e.treasury, e.clock)
	return e
}

// Treasury reports the identity funding loan disbursements
func (e *Engine) Treasury() api.Identity {
	return e.treasury
}
