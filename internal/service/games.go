package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"gamebot/internal/currency"
	"gamebot/internal/game"
	"gamebot/internal/game/betgame"
	"gamebot/internal/game/fight"
	"gamebot/internal/game/flip"
	"gamebot/internal/game/mine"
	"gamebot/internal/game/robbery"
	"gamebot/internal/game/spin"
	"gamebot/internal/game/work"
	"gamebot/internal/model"
	"gamebot/internal/pkg/cooldown"
	"gamebot/internal/pkg/lock"
	"gamebot/internal/repository"
)

// Cooldown map keys for the commands that track last use in the
// cooldown column rather than a dedicated field.
const (
	cmdFlip  = "flip"
	cmdSpin  = "spin"
	cmdWork  = "work"
	cmdFight = "fight"
	cmdRob   = "rob"
)

// GameService runs the single-command economy games: each call loads the
// account under its lock, applies the engine, saves and records the
// ledger entry.
type GameService struct {
	users  *repository.UserRepository
	ledger *repository.LedgerRepository
	locks  *lock.UserLock
	rng    *rand.Rand
}

// NewGameService creates a new GameService instance.
func NewGameService(
	users *repository.UserRepository,
	ledger *repository.LedgerRepository,
	locks *lock.UserLock,
	rng *rand.Rand,
) *GameService {
	return &GameService{users: users, ledger: ledger, locks: locks, rng: rng}
}

// checkCooldown gates a command on the account's cooldown map and stamps
// the new last-use on success.
func checkCooldown(u *model.UserAccount, cmd string, seconds, now int64) error {
	ok, _, pretty := cooldown.CheckMap(u.Cooldowns, cmd, seconds, now)
	if !ok {
		return fmt.Errorf("%s available in %s: %w", cmd, pretty, game.ErrCooldownActive)
	}
	u.Cooldowns = cooldown.Touch(u.Cooldowns, cmd, now)
	return nil
}

// FlipReady reports whether the flip cooldown has elapsed without
// stamping it, so the side menu is refused up front.
func (s *GameService) FlipReady(ctx context.Context, userID int64) error {
	return s.ready(ctx, userID, cmdFlip, flip.Cooldown)
}

// SpinReady reports whether the spin cooldown has elapsed without
// stamping it.
func (s *GameService) SpinReady(ctx context.Context, userID int64) error {
	return s.ready(ctx, userID, cmdSpin, spin.Cooldown)
}

func (s *GameService) ready(ctx context.Context, userID int64, cmd string, seconds int64) error {
	u, err := s.loadPlayer(ctx, userID)
	if err != nil {
		return err
	}
	ok, _, pretty := cooldown.CheckMap(u.Cooldowns, cmd, seconds, time.Now().Unix())
	if !ok {
		return fmt.Errorf("%s available in %s: %w", cmd, pretty, game.ErrCooldownActive)
	}
	return nil
}

// Flip plays heads or tails. Losses are floored at a zero balance.
func (s *GameService) Flip(ctx context.Context, userID int64, side flip.Side) (flip.Result, error) {
	var res flip.Result
	var delta int64

	_, err := withUser(ctx, s.users, s.locks, userID, func(u *model.UserAccount) error {
		if err := checkCooldown(u, cmdFlip, flip.Cooldown, time.Now().Unix()); err != nil {
			return err
		}

		res = flip.Settle(s.rng, side)
		delta = res.Amount
		if !res.Won {
			delta = -res.Amount
			if u.Bronze+delta < 0 {
				delta = -u.Bronze
			}
		}
		u.Bronze += delta
		return nil
	})
	if err != nil {
		return flip.Result{}, err
	}

	_, _ = s.ledger.Record(ctx, userID, currency.TierBronze, delta, model.TxTypeFlip, nil)
	return res, nil
}

// Roll settles a Telegram dice roll at ten bronze per pip. No cooldown.
func (s *GameService) Roll(ctx context.Context, userID int64, value int64) (int64, error) {
	if value < 1 || value > 6 {
		return 0, fmt.Errorf("dice value %d: %w", value, game.ErrInvalidInput)
	}
	reward := betgame.DiceReward(value)

	_, err := withUser(ctx, s.users, s.locks, userID, func(u *model.UserAccount) error {
		u.Bronze += reward
		return nil
	})
	if err != nil {
		return 0, err
	}

	_, _ = s.ledger.Record(ctx, userID, currency.TierBronze, reward, model.TxTypeRoll, nil)
	return reward, nil
}

// BetResult is the outcome of a /bet wager.
type BetResult struct {
	Stake int64
	Won   bool
	Delta int64
}

// Bet wagers a bronze stake on a coin toss. The stake argument accepts
// "*" for the whole balance. Gated on the last_bet timestamp.
func (s *GameService) Bet(ctx context.Context, userID int64, stakeArg string) (BetResult, error) {
	var res BetResult

	_, err := withUser(ctx, s.users, s.locks, userID, func(u *model.UserAccount) error {
		now := time.Now().Unix()
		ok, _, pretty := cooldown.Check(u.LastBet, betgame.Cooldown, now)
		if !ok {
			return fmt.Errorf("bet available in %s: %w", pretty, game.ErrCooldownActive)
		}

		stake, err := betgame.ParseStake(stakeArg, u.Bronze)
		if err != nil {
			return err
		}

		won, delta := betgame.Settle(s.rng, stake)
		res = BetResult{Stake: stake, Won: won, Delta: delta}
		u.Bronze += delta
		u.LastBet = now
		return nil
	})
	if err != nil {
		return BetResult{}, err
	}

	_, _ = s.ledger.Record(ctx, userID, currency.TierBronze, res.Delta, model.TxTypeBet, nil)
	return res, nil
}

// Spin plays the colour wheel, applying and persisting the win streak.
func (s *GameService) Spin(ctx context.Context, userID int64, pick spin.Colour) (spin.Result, error) {
	var res spin.Result
	var delta int64

	_, err := withUser(ctx, s.users, s.locks, userID, func(u *model.UserAccount) error {
		if err := checkCooldown(u, cmdSpin, spin.Cooldown, time.Now().Unix()); err != nil {
			return err
		}

		res = spin.Settle(s.rng, pick, u.SpinStreak)
		delta = res.Amount
		if !res.Won {
			delta = -res.Amount
			if u.Bronze+delta < 0 {
				delta = -u.Bronze
			}
		}
		u.Bronze += delta
		u.SpinStreak = res.Streak
		return nil
	})
	if err != nil {
		return spin.Result{}, err
	}

	_, _ = s.ledger.Record(ctx, userID, currency.TierBronze, delta, model.TxTypeSpin, nil)
	return res, nil
}

// WorkResult is the outcome of a /work shift.
type WorkResult struct {
	Task        string
	Reward      int64
	BadgeEarned bool
}

// Work runs a job for 1 to 100 bronze, counting toward the work badge.
func (s *GameService) Work(ctx context.Context, userID int64) (WorkResult, error) {
	var res WorkResult

	_, err := withUser(ctx, s.users, s.locks, userID, func(u *model.UserAccount) error {
		if err := checkCooldown(u, cmdWork, work.Cooldown, time.Now().Unix()); err != nil {
			return err
		}

		res.Task = work.PickTask(s.rng)
		res.Reward = work.Reward(s.rng)
		u.Bronze += res.Reward
		u.WorkDone++

		if work.EarnsBadge(u.WorkDone) && !u.HasBadge(work.BadgeWorkMaster) {
			u.Badges = append(u.Badges, work.BadgeWorkMaster)
			res.BadgeEarned = true
		}
		return nil
	})
	if err != nil {
		return WorkResult{}, err
	}

	_, _ = s.ledger.Record(ctx, userID, currency.TierBronze, res.Reward, model.TxTypeWork, nil)
	return res, nil
}

// lockPair holds both user locks in ascending ID order so concurrent
// two-party games cannot deadlock.
func (s *GameService) lockPair(a, b int64, fn func() error) error {
	first, second := a, b
	if second < first {
		first, second = second, first
	}
	return s.locks.WithLock(first, func() error {
		return s.locks.WithLock(second, fn)
	})
}

// FightResult is the outcome of a fight, with the loser's name resolved
// for the reply.
type FightResult struct {
	fight.Result
	WinnerID   int64
	WinnerName string
	LoserName  string
}

// Fight pits the attacker against the replied-to defender. The winner
// takes bronze from the loser, capped by what the loser holds.
func (s *GameService) Fight(ctx context.Context, attackerID, defenderID int64) (FightResult, error) {
	if attackerID == defenderID {
		return FightResult{}, fmt.Errorf("self fight: %w", game.ErrInvalidMove)
	}

	var res FightResult
	err := s.lockPair(attackerID, defenderID, func() error {
		atk, err := s.loadPlayer(ctx, attackerID)
		if err != nil {
			return err
		}
		def, err := s.loadPlayer(ctx, defenderID)
		if err != nil {
			return err
		}

		now := time.Now().Unix()
		if err := checkCooldown(atk, cmdFight, fight.Cooldown, now); err != nil {
			return err
		}

		res.Result = fight.Settle(s.rng, atk.Bronze, def.Bronze)
		if res.AttackerWon {
			atk.Bronze += res.Amount
			def.Bronze -= res.Amount
			atk.FightWins++
			res.WinnerID, res.WinnerName, res.LoserName = atk.TelegramID, atk.FirstName, def.FirstName
		} else {
			atk.Bronze -= res.Amount
			def.Bronze += res.Amount
			def.FightWins++
			res.WinnerID, res.WinnerName, res.LoserName = def.TelegramID, def.FirstName, atk.FirstName
		}

		if err := s.users.Save(ctx, atk); err != nil {
			return fmt.Errorf("save attacker: %w", err)
		}
		if err := s.users.Save(ctx, def); err != nil {
			return fmt.Errorf("save defender: %w", err)
		}
		return nil
	})
	if err != nil {
		return FightResult{}, err
	}

	loserID := attackerID + defenderID - res.WinnerID
	_, _ = s.ledger.Record(ctx, res.WinnerID, currency.TierBronze, res.Amount, model.TxTypeFight, nil)
	_, _ = s.ledger.Record(ctx, loserID, currency.TierBronze, -res.Amount, model.TxTypeFight, nil)
	return res, nil
}

// RobResult is the outcome of a robbery attempt.
type RobResult struct {
	Success    bool
	Tier       string
	Amount     int64
	VictimName string
}

// Rob attempts to steal from the replied-to victim. The tier is drawn by
// weight over the victim's non-empty tiers and the same weight doubles as
// the success percentage.
func (s *GameService) Rob(ctx context.Context, robberID, victimID int64) (RobResult, error) {
	if robberID == victimID {
		return RobResult{}, fmt.Errorf("self robbery: %w", game.ErrInvalidMove)
	}

	var res RobResult
	err := s.lockPair(robberID, victimID, func() error {
		robber, err := s.loadPlayer(ctx, robberID)
		if err != nil {
			return err
		}
		victim, err := s.loadPlayer(ctx, victimID)
		if err != nil {
			return err
		}
		res.VictimName = victim.FirstName

		now := time.Now().Unix()
		if err := checkCooldown(robber, cmdRob, robbery.Cooldown, now); err != nil {
			return err
		}

		tier, weight, err := robbery.PickTier(s.rng, victim)
		if err != nil {
			return err
		}
		res.Tier = tier

		if robbery.RollSuccess(s.rng, weight) {
			have, err := currency.Balance(victim, tier)
			if err != nil {
				return err
			}
			res.Success = true
			res.Amount = robbery.RollSteal(s.rng, tier, have)

			if err := currency.SetBalance(victim, tier, have-res.Amount); err != nil {
				return err
			}
			held, err := currency.Balance(robber, tier)
			if err != nil {
				return err
			}
			if err := currency.SetBalance(robber, tier, held+res.Amount); err != nil {
				return err
			}
			robber.RobSuccess++
		} else {
			// A botched job only costs the robber; the victim's
			// wallet is never touched.
			res.Amount = robbery.RollFailPenalty(s.rng, robber.Bronze)
			robber.Bronze -= res.Amount
			robber.RobFail++
		}

		if err := s.users.Save(ctx, robber); err != nil {
			return fmt.Errorf("save robber: %w", err)
		}
		if res.Success {
			if err := s.users.Save(ctx, victim); err != nil {
				return fmt.Errorf("save victim: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return RobResult{}, err
	}

	if res.Success {
		_, _ = s.ledger.Record(ctx, robberID, res.Tier, res.Amount, model.TxTypeRob, nil)
		_, _ = s.ledger.Record(ctx, victimID, res.Tier, -res.Amount, model.TxTypeRobbed, nil)
	} else {
		_, _ = s.ledger.Record(ctx, robberID, currency.TierBronze, -res.Amount, model.TxTypeRob, nil)
	}
	return res, nil
}

func (s *GameService) loadPlayer(ctx context.Context, id int64) (*model.UserAccount, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, id)
	}
	return u, nil
}

// Mine digs 1 to 3 units of a weighted-random ore into the inventory.
// Gated on the last_mine timestamp.
func (s *GameService) Mine(ctx context.Context, userID int64) (string, int64, error) {
	var ore string
	var amount int64

	_, err := withUser(ctx, s.users, s.locks, userID, func(u *model.UserAccount) error {
		now := time.Now().Unix()
		ok, _, pretty := cooldown.Check(u.LastMine, mine.Cooldown, now)
		if !ok {
			return fmt.Errorf("mine available in %s: %w", pretty, game.ErrCooldownActive)
		}

		var err error
		ore, amount, err = mine.Dig(s.rng)
		if err != nil {
			return err
		}

		if u.Ores == nil {
			u.Ores = make(map[string]int64)
		}
		u.Ores[ore] += amount
		u.LastMine = now
		return nil
	})
	if err != nil {
		return "", 0, err
	}
	return ore, amount, nil
}

// SellOre sells the full stack of one ore at catalog price.
func (s *GameService) SellOre(ctx context.Context, userID int64, ore string) (int64, int64, error) {
	var sold, earned int64

	_, err := withUser(ctx, s.users, s.locks, userID, func(u *model.UserAccount) error {
		var err error
		sold, earned, err = mine.SellAll(u.Ores, ore)
		if err != nil {
			return err
		}
		u.Bronze += earned
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	_, _ = s.ledger.Record(ctx, userID, currency.TierBronze, earned, model.TxTypeMineSell, nil)
	return sold, earned, nil
}
