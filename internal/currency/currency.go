// Package currency implements the tiered-coin ledger arithmetic.
//
// Denominations: 1 silver = 100 bronze, 1 gold = 100 silver, 1 platinum =
// 100 gold. Black gold is a premium currency: it never converts, is excluded
// from the wallet total used for ranking, and is weighted into the profile
// total only for display.
package currency

import (
	"errors"

	"gamebot/internal/model"
)

// Conversion ratios, expressed in bronze units.
const (
	BronzePerSilver   = 100
	BronzePerGold     = BronzePerSilver * 100 // 10,000
	BronzePerPlatinum = BronzePerGold * 100   // 1,000,000

	// ProfileBlackGoldWeight is the bronze-equivalent weight of one black
	// gold in the profile view's display total. The ranking total excludes
	// black gold entirely; the two formulas are intentionally distinct.
	ProfileBlackGoldWeight = 100_000_000
)

// UpgradeRate converts 100 units of a lower tier into one unit of the next
// tier up; DowngradeRate is the inverse.
const (
	UpgradeRate   = 100
	DowngradeRate = 100
)

// Tier names as stored on the account record.
const (
	TierBronze    = "bronze"
	TierSilver    = "silver"
	TierGold      = "gold"
	TierPlatinum  = "platinum"
	TierBlackGold = "black_gold"
)

var (
	ErrUnknownTier         = errors.New("unknown currency tier")
	ErrNothingToConvert    = errors.New("nothing to convert")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Breakdown is a structured wallet split of a raw bronze amount.
type Breakdown struct {
	Platinum int64
	Gold     int64
	Silver   int64
	Bronze   int64
}

// Split converts a bronze amount into the largest denominations first.
func Split(totalBronze int64) Breakdown {
	if totalBronze < 0 {
		totalBronze = 0
	}

	b := Breakdown{}
	b.Platinum = totalBronze / BronzePerPlatinum
	rem := totalBronze % BronzePerPlatinum

	b.Gold = rem / BronzePerGold
	rem %= BronzePerGold

	b.Silver = rem / BronzePerSilver
	b.Bronze = rem % BronzePerSilver
	return b
}

// WalletValue is the bronze-equivalent wealth used for the leaderboard and
// all economy logic. Black gold is excluded.
func WalletValue(u *model.UserAccount) int64 {
	return u.Platinum*BronzePerPlatinum +
		u.Gold*BronzePerGold +
		u.Silver*BronzePerSilver +
		u.Bronze
}

// ProfileValue is the display-only total shown on the profile view. Unlike
// WalletValue it weights black gold in; kept separate on purpose.
func ProfileValue(u *model.UserAccount) int64 {
	return u.BlackGold*ProfileBlackGoldWeight + WalletValue(u)
}

// Upgrade converts amount of a lower tier into units of the next tier up at
// the given rate. Integer floor division; the remainder stays in the lower
// tier.
func Upgrade(amount, rate int64) (units, remainder int64) {
	if rate <= 0 || amount <= 0 {
		return 0, amount
	}
	return amount / rate, amount % rate
}

// Downgrade converts amount of a higher tier into units of the next tier
// down, fully consuming the higher-tier amount.
func Downgrade(amount, rate int64) int64 {
	if rate <= 0 || amount <= 0 {
		return 0
	}
	return amount * rate
}

// Balance returns the named tier's balance on the account.
func Balance(u *model.UserAccount, tier string) (int64, error) {
	switch tier {
	case TierBronze:
		return u.Bronze, nil
	case TierSilver:
		return u.Silver, nil
	case TierGold:
		return u.Gold, nil
	case TierPlatinum:
		return u.Platinum, nil
	case TierBlackGold:
		return u.BlackGold, nil
	}
	return 0, ErrUnknownTier
}

// SetBalance sets the named tier's balance on the account.
func SetBalance(u *model.UserAccount, tier string, v int64) error {
	switch tier {
	case TierBronze:
		u.Bronze = v
	case TierSilver:
		u.Silver = v
	case TierGold:
		u.Gold = v
	case TierPlatinum:
		u.Platinum = v
	case TierBlackGold:
		u.BlackGold = v
	default:
		return ErrUnknownTier
	}
	return nil
}

// ConvertMax converts as much of src into dst as the rate allows. Upgrades
// consume the full divisible portion and leave the remainder in src;
// downgrades consume the entire src balance.
// Returns the number of dst units gained.
func ConvertMax(u *model.UserAccount, up bool, src, dst string, rate int64) (int64, error) {
	have, err := Balance(u, src)
	if err != nil {
		return 0, err
	}

	if up {
		if have < rate {
			return 0, ErrNothingToConvert
		}
		units, remainder := Upgrade(have, rate)
		if err := SetBalance(u, src, remainder); err != nil {
			return 0, err
		}
		dstHave, err := Balance(u, dst)
		if err != nil {
			return 0, err
		}
		return units, SetBalance(u, dst, dstHave+units)
	}

	if have <= 0 {
		return 0, ErrNothingToConvert
	}
	gained := Downgrade(have, rate)
	if err := SetBalance(u, src, 0); err != nil {
		return 0, err
	}
	dstHave, err := Balance(u, dst)
	if err != nil {
		return 0, err
	}
	return gained, SetBalance(u, dst, dstHave+gained)
}

// ConvertAmount converts a user-requested amount. For upgrades the amount is
// the number of dst units wanted and the affordable source cost is validated
// first; for downgrades the amount is the number of src units to consume.
// Nothing is mutated on validation failure.
func ConvertAmount(u *model.UserAccount, up bool, src, dst string, rate, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrNothingToConvert
	}

	have, err := Balance(u, src)
	if err != nil {
		return 0, err
	}

	if up {
		needed := amount * rate
		if have < needed {
			return 0, ErrInsufficientBalance
		}
		if err := SetBalance(u, src, have-needed); err != nil {
			return 0, err
		}
		dstHave, err := Balance(u, dst)
		if err != nil {
			return 0, err
		}
		return amount, SetBalance(u, dst, dstHave+amount)
	}

	if have < amount {
		return 0, ErrInsufficientBalance
	}
	gained := Downgrade(amount, rate)
	if err := SetBalance(u, src, have-amount); err != nil {
		return 0, err
	}
	dstHave, err := Balance(u, dst)
	if err != nil {
		return 0, err
	}
	return gained, SetBalance(u, dst, dstHave+gained)
}
