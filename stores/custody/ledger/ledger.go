package ledger

import (
	"math/big"
	"sync"

	"github.com/x-xyz/auctionhouse/base/ctx"
	"github.com/x-xyz/auctionhouse/domain"
)

type assetRecord struct {
	owner    domain.Address
	approved bool
}

// Assets is an in-process AssetLedger. Approval is per asset and is dropped
// whenever the asset changes hands, the way token approvals behave.
type Assets struct {
	mu          sync.RWMutex
	marketplace domain.Address
	records     map[string]*assetRecord
	// Reject forces Transfer to fail for the given asset key
	reject map[string]bool
}

func NewAssets(marketplace domain.Address) *Assets {
	return &Assets{
		marketplace: marketplace.ToLower(),
		records:     map[string]*assetRecord{},
		reject:      map[string]bool{},
	}
}

// Mint assigns asset to owner, approved says whether the marketplace may move it
func (l *Assets) Mint(asset domain.AssetId, owner domain.Address, approved bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records[asset.Key()] = &assetRecord{owner: owner.ToLower(), approved: approved}
}

func (l *Assets) SetApproval(asset domain.AssetId, approved bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if r, ok := l.records[asset.Key()]; ok {
		r.approved = approved
	}
}

// RejectTransfers makes every Transfer of asset fail with ErrTransferRejected
func (l *Assets) RejectTransfers(asset domain.AssetId, reject bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reject[asset.Key()] = reject
}

func (l *Assets) OwnerOf(_ ctx.Ctx, asset domain.AssetId) (domain.Address, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.records[asset.Key()]
	if !ok {
		return "", domain.ErrNotFound
	}
	return r.owner, nil
}

func (l *Assets) IsApprovedForMarketplace(_ ctx.Ctx, asset domain.AssetId) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.records[asset.Key()]
	if !ok {
		return false, domain.ErrNotFound
	}
	return r.approved, nil
}

func (l *Assets) Transfer(_ ctx.Ctx, asset domain.AssetId, from, to domain.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	r, ok := l.records[asset.Key()]
	if !ok || l.reject[asset.Key()] {
		return domain.ErrTransferRejected
	}
	if !r.owner.Equals(from) || !r.approved || to.IsEmpty() {
		return domain.ErrTransferRejected
	}
	r.owner = to.ToLower()
	r.approved = false
	return nil
}

// Payments is an in-process PaymentLedger for any number of tokens.
// The marketplace address is the escrow account.
type Payments struct {
	mu          sync.Mutex
	marketplace domain.Address
	balances    map[string]*big.Int
	allowances  map[string]*big.Int
	// failures makes the next n escrow Transfers fail
	failures int
}

func NewPayments(marketplace domain.Address) *Payments {
	return &Payments{
		marketplace: marketplace.ToLower(),
		balances:    map[string]*big.Int{},
		allowances:  map[string]*big.Int{},
	}
}

func key(token, owner domain.Address) string {
	return token.ToLowerStr() + ":" + owner.ToLowerStr()
}

func (l *Payments) get(m map[string]*big.Int, k string) *big.Int {
	if v, ok := m[k]; ok {
		return v
	}
	v := new(big.Int)
	m[k] = v
	return v
}

// Mint credits amount of token to owner
func (l *Payments) Mint(token, owner domain.Address, amount *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b := l.get(l.balances, key(token, owner))
	b.Add(b, amount)
}

// Approve sets what owner lets the marketplace pull
func (l *Payments) Approve(token, owner domain.Address, amount *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.allowances[key(token, owner)] = new(big.Int).Set(amount)
}

// FailEscrowTransfers makes the next n Transfer calls fail
func (l *Payments) FailEscrowTransfers(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures = n
}

func (l *Payments) BalanceOf(_ ctx.Ctx, token, owner domain.Address) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(big.Int).Set(l.get(l.balances, key(token, owner))), nil
}

func (l *Payments) Allowance(_ ctx.Ctx, token, owner domain.Address) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(big.Int).Set(l.get(l.allowances, key(token, owner))), nil
}

func (l *Payments) TransferFrom(_ ctx.Ctx, token, payer, payee domain.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	from := l.get(l.balances, key(token, payer))
	if from.Cmp(amount) < 0 {
		return domain.ErrInsufficientBalance
	}
	allowance := l.get(l.allowances, key(token, payer))
	if allowance.Cmp(amount) < 0 {
		return domain.ErrInsufficientAllowance
	}
	to := l.get(l.balances, key(token, payee))

	allowance.Sub(allowance, amount)
	from.Sub(from, amount)
	to.Add(to, amount)
	return nil
}

func (l *Payments) Transfer(_ ctx.Ctx, token, to domain.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.failures > 0 {
		l.failures--
		return domain.ErrTransferRejected
	}
	from := l.get(l.balances, key(token, l.marketplace))
	if from.Cmp(amount) < 0 {
		return domain.ErrInsufficientBalance
	}
	dst := l.get(l.balances, key(token, to))
	from.Sub(from, amount)
	dst.Add(dst, amount)
	return nil
}
